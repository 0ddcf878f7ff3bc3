package service

import (
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/repo"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService управляет категориями пользователя.
type CategoryService struct {
	store  repo.Store
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewCategoryService(store repo.Store, logger *zap.SugaredLogger, opts ...Option) *CategoryService {
	o := newOptions(opts)
	return &CategoryService{store: store, logger: logger, now: o.now}
}

// CategoryView: категория в ответах API.
type CategoryView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newCategoryView(c *model.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func (s *CategoryService) Create(ctx context.Context, owner int64, name string) (CategoryView, error) {
	name, err := validateName(name)
	if err != nil {
		return CategoryView{}, err
	}
	c := &model.Category{ID: uuid.NewString(), UserID: owner, Name: name, CreatedAt: s.now()}
	if err := s.store.Categories().Create(ctx, c); err != nil {
		return CategoryView{}, s.fail("create", owner, "", err)
	}
	s.logger.Infow("category created", "user_id", owner, "category_id", c.ID)
	return newCategoryView(c), nil
}

func (s *CategoryService) Rename(ctx context.Context, owner int64, id, name string) (CategoryView, error) {
	name, err := validateName(name)
	if err != nil {
		return CategoryView{}, err
	}
	if !validID(id) {
		return CategoryView{}, ErrNotFound
	}
	var c *model.Category
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if err := tx.Categories().Rename(ctx, owner, id, name); err != nil {
			return classify(err)
		}
		var err error
		c, err = tx.Categories().GetByID(ctx, owner, id)
		return classify(err)
	})
	if err != nil {
		return CategoryView{}, s.fail("rename", owner, id, err)
	}
	return newCategoryView(c), nil
}

// Delete удаляет категорию. Её секреты не удаляются, а становятся «Uncategorized»;
// для каждого из них в журнал пишется category_change.
func (s *CategoryService) Delete(ctx context.Context, owner int64, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		if _, err := tx.Categories().GetByID(ctx, owner, id); err != nil {
			return classify(err)
		}
		moved, err := tx.Secrets().List(ctx, owner, repo.SecretFilter{CategoryID: &id})
		if err != nil {
			return classify(err)
		}
		if _, err := tx.Secrets().ClearCategory(ctx, owner, id); err != nil {
			return classify(err)
		}
		now := s.now()
		for i := range moved {
			if err := appendAudit(ctx, tx, owner, model.AuditCategoryChange, moved[i].ID, now); err != nil {
				return err
			}
		}
		return classify(tx.Categories().Delete(ctx, owner, id))
	})
	if err != nil {
		return s.fail("delete", owner, id, err)
	}
	s.logger.Infow("category deleted", "user_id", owner, "category_id", id)
	return nil
}

// List возвращает категории владельца по имени.
func (s *CategoryService) List(ctx context.Context, owner int64) ([]CategoryView, error) {
	cats, err := s.store.Categories().List(ctx, owner)
	if err != nil {
		return nil, s.fail("list", owner, "", err)
	}
	out := make([]CategoryView, 0, len(cats))
	for i := range cats {
		out = append(out, newCategoryView(&cats[i]))
	}
	return out, nil
}

func (s *CategoryService) fail(op string, owner int64, id string, err error) error {
	err = classify(err)
	if errors.Is(err, ErrStorageUnavailable) {
		s.logger.Errorw("category storage error", "op", op, "user_id", owner, "category_id", id, "error", err)
	}
	return err
}
