package service

import (
	"KeyGuardian/internal/mailer"
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/repo"
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen: минимальная длина пароля.
const MinPasswordLen = 8

// UserService: регистрация и вход пользователей.
type UserService struct {
	store    repo.Store
	verifier *VerificationService
	mailer   mailer.Mailer
	logger   *zap.SugaredLogger
}

func NewUserService(store repo.Store, verifier *VerificationService, m mailer.Mailer, logger *zap.SugaredLogger) *UserService {
	return &UserService{store: store, verifier: verifier, mailer: m, logger: logger}
}

// Register создаёт неподтверждённого пользователя и отправляет ему ссылку подтверждения.
func (s *UserService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLen {
		return nil, invalid("password is too short")
	}

	existing, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(classify(err), ErrNotFound) {
		return nil, classify(err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.store.Users().CreateUser(ctx, &model.User{Email: email, Password: string(hash)})
	if err != nil {
		// гонка двух регистраций: уникальный индекс на email
		if u, lookupErr := s.store.Users().GetUserByEmail(ctx, email); lookupErr == nil && u != nil {
			return nil, ErrEmailTaken
		}
		return nil, classify(err)
	}
	s.logger.Infow("user registered", "user_id", user.ID)

	if err := s.sendVerification(ctx, user); err != nil {
		// пользователь создан; ссылку можно запросить повторно
		s.logger.Warnw("verification email not sent", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// Login проверяет учётные данные. Неподтверждённый email: ErrEmailNotVerified.
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(classify(err), ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, classify(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return user, nil
}

// Get возвращает пользователя по id.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.store.Users().GetUserByID(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return u, nil
}

// ResendVerification выдаёт новый токен. Для неизвестного или уже
// подтверждённого адреса ничего не делает, чтобы не раскрывать наличие учётной записи.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(classify(err), ErrNotFound) {
			return nil
		}
		return classify(err)
	}
	if user.EmailVerified {
		return nil
	}
	return s.sendVerification(ctx, user)
}

func (s *UserService) sendVerification(ctx context.Context, user *model.User) error {
	token, err := s.verifier.Issue(ctx, user.ID)
	if err != nil {
		return err
	}
	return s.mailer.SendVerification(ctx, user.Email, token)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("invalid email")
	}
	return email, nil
}
