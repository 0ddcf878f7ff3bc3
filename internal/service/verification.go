package service

import (
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/repo"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// tokenBytes: энтропия токена подтверждения.
const tokenBytes = 32

// VerificationService выдаёт и погашает одноразовые токены подтверждения email.
// В базе хранится только SHA-256 от токена.
type VerificationService struct {
	store  repo.Store
	logger *zap.SugaredLogger
	now    func() time.Time
	ttl    time.Duration
}

func NewVerificationService(store repo.Store, logger *zap.SugaredLogger, opts ...Option) *VerificationService {
	o := newOptions(opts)
	return &VerificationService{store: store, logger: logger, now: o.now, ttl: o.tokenTTL}
}

// Issue создаёт новый токен для пользователя, заменяя предыдущий.
func (s *VerificationService) Issue(ctx context.Context, userID int64) (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	hash := hashToken(token)
	expiresAt := s.now().Add(s.ttl)

	if err := s.store.Users().SetVerificationToken(ctx, userID, &hash, &expiresAt); err != nil {
		err = classify(err)
		s.logger.Errorw("issue verification token failed", "user_id", userID, "error", err)
		return "", err
	}
	return token, nil
}

// Consume погашает токен: неизвестный: ErrTokenNotFound, просроченный -
// ErrTokenExpired (токен при этом очищается). Успех подтверждает email.
func (s *VerificationService) Consume(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrTokenNotFound
	}
	hash := hashToken(token)

	var (
		user    *model.User
		expired bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		u, err := tx.Users().GetUserByTokenHash(ctx, hash)
		if err != nil {
			if errors.Is(classify(err), ErrNotFound) {
				return ErrTokenNotFound
			}
			return classify(err)
		}
		if u.VerificationExpiresAt == nil || s.now().After(*u.VerificationExpiresAt) {
			expired = true
			return classify(tx.Users().SetVerificationToken(ctx, u.ID, nil, nil))
		}
		if err := tx.Users().MarkEmailVerified(ctx, u.ID); err != nil {
			return classify(err)
		}
		u.EmailVerified = true
		u.VerificationTokenHash = nil
		u.VerificationExpiresAt = nil
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, ErrTokenExpired
	}
	s.logger.Infow("email verified", "user_id", user.ID)
	return user, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
