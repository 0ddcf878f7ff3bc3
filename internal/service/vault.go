package service

import (
	"KeyGuardian/internal/crypto"
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/repo"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VaultService: жизненный цикл секретов: шифрование, изменения и аудит.
// Каждое изменение и его запись в журнале фиксируются одной транзакцией.
type VaultService struct {
	store  repo.Store
	box    *crypto.Box
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewVaultService(store repo.Store, box *crypto.Box, logger *zap.SugaredLogger, opts ...Option) *VaultService {
	o := newOptions(opts)
	return &VaultService{store: store, box: box, logger: logger, now: o.now}
}

// AddSecretInput: данные нового секрета.
type AddSecretInput struct {
	Name       string
	Secret     string
	CategoryID *string
	ExpiresAt  *time.Time
}

// ListFilter: фильтр списка: конкретная категория или только без категории.
type ListFilter struct {
	CategoryID    *string
	Uncategorized bool
}

// SecretView: метаданные секрета без шифртекста и открытого значения.
type SecretView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	CategoryID   *string    `json:"category_id"`
	CategoryName string     `json:"category_name"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    *time.Time `json:"expires_at"`
	Revoked      bool       `json:"is_revoked"`
	IsExpired    bool       `json:"is_expired"`
	IsActive     bool       `json:"is_active"`
}

func newSecretView(s *model.Secret, now time.Time) SecretView {
	return SecretView{
		ID:           s.ID,
		Name:         s.Name,
		CategoryID:   s.CategoryID,
		CategoryName: s.CategoryName(),
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		Revoked:      s.Revoked,
		IsExpired:    s.IsExpired(now),
		IsActive:     s.IsActive(now),
	}
}

// CategoryGroup: категория вместе с её секретами.
type CategoryGroup struct {
	Category CategoryView `json:"category"`
	Secrets  []SecretView `json:"secrets"`
}

// GroupedSecrets: все секреты пользователя, разложенные по категориям.
type GroupedSecrets struct {
	Categories    []CategoryGroup `json:"categories"`
	Uncategorized []SecretView    `json:"uncategorized"`
}

func (s *VaultService) Add(ctx context.Context, owner int64, in AddSecretInput) (SecretView, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return SecretView{}, err
	}
	if in.Secret == "" {
		return SecretView{}, invalid("secret is required")
	}

	token, err := s.box.Encrypt([]byte(in.Secret))
	if err != nil {
		if errors.Is(err, crypto.ErrEmptyPlaintext) {
			return SecretView{}, invalid("secret is required")
		}
		return SecretView{}, err
	}

	now := s.now()
	rec := &model.Secret{
		ID:         uuid.NewString(),
		UserID:     owner,
		Name:       name,
		Ciphertext: token,
		ExpiresAt:  utcPtr(in.ExpiresAt),
		CreatedAt:  now,
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if catID := normalizeCategory(in.CategoryID); catID != nil {
			cat, err := resolveCategory(ctx, tx, owner, *catID)
			if err != nil {
				return err
			}
			rec.CategoryID = &cat.ID
			rec.Category = cat
		}
		if err := tx.Secrets().Create(ctx, rec); err != nil {
			return classify(err)
		}
		return appendAudit(ctx, tx, owner, model.AuditAdd, rec.ID, now)
	})
	if err != nil {
		return SecretView{}, s.fail("add", owner, "", err)
	}

	s.logger.Infow("secret added", "user_id", owner, "secret_id", rec.ID)
	return newSecretView(rec, now), nil
}

// Reveal возвращает открытое значение секрета. Значение отдаётся только после
// фиксации записи reveal в журнале; при ошибке аудита значение не возвращается.
func (s *VaultService) Reveal(ctx context.Context, owner int64, id string) (string, error) {
	if !validID(id) {
		return "", ErrNotFound
	}

	var plain []byte
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		rec, err := tx.Secrets().GetByID(ctx, owner, id)
		if err != nil {
			return classify(err)
		}
		plain, err = s.box.Decrypt(rec.Ciphertext)
		if err != nil {
			return err
		}
		return appendAudit(ctx, tx, owner, model.AuditReveal, id, s.now())
	})
	defer crypto.Wipe(plain)
	if err != nil {
		return "", s.fail("reveal", owner, id, err)
	}

	s.logger.Infow("secret revealed", "user_id", owner, "secret_id", id)
	return string(plain), nil
}

func (s *VaultService) Rename(ctx context.Context, owner int64, id, newName string) (SecretView, error) {
	name, err := validateName(newName)
	if err != nil {
		return SecretView{}, err
	}
	return s.mutate(ctx, owner, id, model.AuditRename, func(ctx context.Context, tx repo.Store, rec *model.Secret) error {
		if err := tx.Secrets().Update(ctx, owner, id, map[string]any{"name": name}); err != nil {
			return classify(err)
		}
		rec.Name = name
		return nil
	})
}

// SetCategory переносит секрет в категорию владельца; nil: «Uncategorized».
func (s *VaultService) SetCategory(ctx context.Context, owner int64, id string, categoryID *string) (SecretView, error) {
	categoryID = normalizeCategory(categoryID)
	return s.mutate(ctx, owner, id, model.AuditCategoryChange, func(ctx context.Context, tx repo.Store, rec *model.Secret) error {
		var cat *model.Category
		var value any
		if categoryID != nil {
			c, err := resolveCategory(ctx, tx, owner, *categoryID)
			if err != nil {
				return err
			}
			cat, value = c, c.ID
		}
		if err := tx.Secrets().Update(ctx, owner, id, map[string]any{"category_id": value}); err != nil {
			return classify(err)
		}
		rec.Category = cat
		rec.CategoryID = nil
		if cat != nil {
			rec.CategoryID = &cat.ID
		}
		return nil
	})
}

// SetExpiration задаёт или снимает срок действия. Прошедшая дата допустима
// и сразу делает секрет неактивным.
func (s *VaultService) SetExpiration(ctx context.Context, owner int64, id string, expiresAt *time.Time) (SecretView, error) {
	expiresAt = utcPtr(expiresAt)
	return s.mutate(ctx, owner, id, model.AuditUpdateExpiration, func(ctx context.Context, tx repo.Store, rec *model.Secret) error {
		var value any
		if expiresAt != nil {
			value = *expiresAt
		}
		if err := tx.Secrets().Update(ctx, owner, id, map[string]any{"expires_at": value}); err != nil {
			return classify(err)
		}
		rec.ExpiresAt = expiresAt
		return nil
	})
}

// Revoke идемпотентен: повторный отзыв успешен и тоже пишется в журнал.
func (s *VaultService) Revoke(ctx context.Context, owner int64, id string) error {
	_, err := s.mutate(ctx, owner, id, model.AuditRevoke, func(ctx context.Context, tx repo.Store, rec *model.Secret) error {
		if rec.Revoked {
			return nil
		}
		if err := tx.Secrets().Update(ctx, owner, id, map[string]any{"revoked": true}); err != nil {
			return classify(err)
		}
		rec.Revoked = true
		return nil
	})
	return err
}

// Delete пишет запись delete в журнал и удаляет секрет в той же транзакции.
func (s *VaultService) Delete(ctx context.Context, owner int64, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if _, err := tx.Secrets().GetByID(ctx, owner, id); err != nil {
			return classify(err)
		}
		if err := appendAudit(ctx, tx, owner, model.AuditDelete, id, s.now()); err != nil {
			return err
		}
		return classify(tx.Secrets().Delete(ctx, owner, id))
	})
	if err != nil {
		return s.fail("delete", owner, id, err)
	}
	s.logger.Infow("secret deleted", "user_id", owner, "secret_id", id)
	return nil
}

// List возвращает метаданные секретов, отсортированные по имени, затем по дате создания.
func (s *VaultService) List(ctx context.Context, owner int64, filter ListFilter) ([]SecretView, error) {
	f := repo.SecretFilter{Uncategorized: filter.Uncategorized}
	if catID := normalizeCategory(filter.CategoryID); catID != nil {
		if !validID(*catID) {
			return []SecretView{}, nil
		}
		f.CategoryID = catID
		f.Uncategorized = false
	}
	recs, err := s.store.Secrets().List(ctx, owner, f)
	if err != nil {
		return nil, s.fail("list", owner, "", classify(err))
	}
	now := s.now()
	out := make([]SecretView, 0, len(recs))
	for i := range recs {
		out = append(out, newSecretView(&recs[i], now))
	}
	return out, nil
}

// Grouped раскладывает секреты по категориям (категории по имени), плюс группа без категории.
func (s *VaultService) Grouped(ctx context.Context, owner int64) (GroupedSecrets, error) {
	cats, err := s.store.Categories().List(ctx, owner)
	if err != nil {
		return GroupedSecrets{}, s.fail("grouped", owner, "", classify(err))
	}
	all, err := s.List(ctx, owner, ListFilter{})
	if err != nil {
		return GroupedSecrets{}, err
	}

	byCat := make(map[string][]SecretView, len(cats))
	res := GroupedSecrets{Categories: make([]CategoryGroup, 0, len(cats)), Uncategorized: []SecretView{}}
	for _, v := range all {
		if v.CategoryID == nil {
			res.Uncategorized = append(res.Uncategorized, v)
			continue
		}
		byCat[*v.CategoryID] = append(byCat[*v.CategoryID], v)
	}
	for i := range cats {
		secrets := byCat[cats[i].ID]
		if secrets == nil {
			secrets = []SecretView{}
		}
		res.Categories = append(res.Categories, CategoryGroup{Category: newCategoryView(&cats[i]), Secrets: secrets})
	}
	return res, nil
}

// mutate: общий шаг для изменений одной записи: поиск среди записей владельца,
// изменение и запись в журнал в одной транзакции.
func (s *VaultService) mutate(ctx context.Context, owner int64, id string, action model.AuditAction,
	apply func(ctx context.Context, tx repo.Store, rec *model.Secret) error) (SecretView, error) {
	if !validID(id) {
		return SecretView{}, ErrNotFound
	}
	var rec *model.Secret
	now := s.now()
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		var err error
		rec, err = tx.Secrets().GetByID(ctx, owner, id)
		if err != nil {
			return classify(err)
		}
		if err := apply(ctx, tx, rec); err != nil {
			return err
		}
		return appendAudit(ctx, tx, owner, action, id, now)
	})
	if err != nil {
		return SecretView{}, s.fail(string(action), owner, id, err)
	}
	s.logger.Infow("secret updated", "user_id", owner, "secret_id", id, "action", action)
	return newSecretView(rec, now), nil
}

// fail классифицирует ошибку и пишет в лог то, что не является ошибкой вызывающего.
func (s *VaultService) fail(op string, owner int64, id string, err error) error {
	err = classify(err)
	switch {
	case errors.Is(err, crypto.ErrDecryption):
		s.logger.Warnw("secret decryption failed", "op", op, "user_id", owner, "secret_id", id)
	case errors.Is(err, ErrStorageUnavailable):
		s.logger.Errorw("storage error", "op", op, "user_id", owner, "secret_id", id, "error", err)
	}
	return err
}

func resolveCategory(ctx context.Context, tx repo.Store, owner int64, id string) (*model.Category, error) {
	if !validID(id) {
		return nil, ErrInvalidCategory
	}
	cat, err := tx.Categories().GetByID(ctx, owner, id)
	if err != nil {
		if errors.Is(classify(err), ErrNotFound) {
			return nil, ErrInvalidCategory
		}
		return nil, classify(err)
	}
	return cat, nil
}

func appendAudit(ctx context.Context, tx repo.Store, owner int64, action model.AuditAction, secretID string, at time.Time) error {
	e := &model.AuditEntry{UserID: owner, Action: action, CreatedAt: at}
	if secretID != "" {
		e.SecretID = &secretID
	}
	if err := tx.Audit().Append(ctx, e); err != nil {
		return classify(err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
