package service

import (
	"KeyGuardian/internal/crypto"
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/repo"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testLogger = zap.NewNop().Sugar()

// fakeClock: управляемое время для тестов сроков действия.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestDB: отдельная in-memory SQLite на каждый тест.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.InitDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var (
	boxOnce *crypto.Box
)

// testBox выводит ключ один раз на пакет: PBKDF2 на 100k итераций заметно медленный.
func testBox(t *testing.T) *crypto.Box {
	t.Helper()
	if boxOnce == nil {
		b, err := crypto.NewBoxFromSecret("test-master-secret")
		require.NoError(t, err)
		boxOnce = b
	}
	return boxOnce
}

func mkUser(t *testing.T, st repo.Store, email string) *model.User {
	t.Helper()
	u, err := st.Users().CreateUser(context.Background(), &model.User{Email: email, Password: "hash", EmailVerified: true})
	require.NoError(t, err)
	return u
}

type vaultEnv struct {
	db         *gorm.DB
	store      repo.Store
	clock      *fakeClock
	vault      *VaultService
	categories *CategoryService
	audit      *AuditService
	alice, bob *model.User
}

func newVaultEnv(t *testing.T) *vaultEnv {
	t.Helper()
	db := newTestDB(t)
	st := repo.NewStore(db)
	clock := newFakeClock()
	return &vaultEnv{
		db:         db,
		store:      st,
		clock:      clock,
		vault:      NewVaultService(st, testBox(t), testLogger, WithClock(clock.Now)),
		categories: NewCategoryService(st, testLogger, WithClock(clock.Now)),
		audit:      NewAuditService(st, testLogger),
		alice:      mkUser(t, st, "alice@example.com"),
		bob:        mkUser(t, st, "bob@example.com"),
	}
}

func (e *vaultEnv) add(t *testing.T, owner int64, name, secret string) SecretView {
	t.Helper()
	v, err := e.vault.Add(context.Background(), owner, AddSecretInput{Name: name, Secret: secret})
	require.NoError(t, err)
	return v
}

func (e *vaultEnv) actions(t *testing.T, owner int64) []model.AuditAction {
	t.Helper()
	entries, err := e.audit.List(context.Background(), owner)
	require.NoError(t, err)
	out := make([]model.AuditAction, 0, len(entries))
	for _, en := range entries {
		out = append(out, en.Action)
	}
	return out
}

// мок для repo.AuditRepository
type mockAuditRepo struct{ mock.Mock }

func (m *mockAuditRepo) Append(ctx context.Context, e *model.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockAuditRepo) ListForUser(ctx context.Context, userID int64) ([]model.AuditEntry, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]model.AuditEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.AuditRepository = (*mockAuditRepo)(nil)

// auditOverrideStore подменяет журнал аудита, в том числе внутри транзакций.
type auditOverrideStore struct {
	repo.Store
	audit repo.AuditRepository
}

func (s *auditOverrideStore) Audit() repo.AuditRepository { return s.audit }

func (s *auditOverrideStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repo.Store) error) error {
	return s.Store.WithinTx(ctx, func(ctx context.Context, tx repo.Store) error {
		return fn(ctx, &auditOverrideStore{Store: tx, audit: s.audit})
	})
}

// мок для mailer.Mailer
type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendVerification(ctx context.Context, to, token string) error {
	return m.Called(ctx, to, token).Error(0)
}
