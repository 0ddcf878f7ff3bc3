package handlers_test

import (
	"KeyGuardian/internal/access"
	"KeyGuardian/internal/config"
	"KeyGuardian/internal/crypto"
	"KeyGuardian/internal/handlers"
	"KeyGuardian/internal/middleware"
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/repo"
	"KeyGuardian/internal/service"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// мок для mailer.Mailer: запоминает выданные токены
type mockMailer struct {
	mock.Mock
	mu     sync.Mutex
	tokens map[string]string
}

func (m *mockMailer) SendVerification(ctx context.Context, to, token string) error {
	m.mu.Lock()
	if m.tokens == nil {
		m.tokens = map[string]string{}
	}
	m.tokens[to] = token
	m.mu.Unlock()
	return m.Called(ctx, to, token).Error(0)
}

func (m *mockMailer) tokenFor(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[to]
}

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type testEnv struct {
	router http.Handler
	db     *gorm.DB
	store  repo.Store
	mailer *mockMailer
	clock  *testClock
}

var (
	boxMu   sync.Mutex
	testBox *crypto.Box
)

func sharedBox(t *testing.T) *crypto.Box {
	t.Helper()
	boxMu.Lock()
	defer boxMu.Unlock()
	if testBox == nil {
		b, err := crypto.NewBoxFromSecret("handlers-test-master")
		require.NoError(t, err)
		testBox = b
	}
	return testBox
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repo.InitDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := zap.NewNop().Sugar()
	middleware.SetLogger(logger)
	cfg := &config.Config{AuthSecret: testSecret, PublicURL: "http://localhost:8080"}

	st := repo.NewStore(db)
	clock := &testClock{t: time.Now().UTC()}
	m := new(mockMailer)
	m.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	verifier := service.NewVerificationService(st, logger, service.WithClock(clock.Now))
	users := service.NewUserService(st, verifier, m, logger)
	gate := access.New(
		service.NewVaultService(st, sharedBox(t), logger),
		service.NewCategoryService(st, logger),
		service.NewAuditService(st, logger),
	)

	h := handlers.NewHandler(users, verifier, gate, logger, cfg)
	return &testEnv{router: h.Router, db: db, store: st, mailer: m, clock: clock}
}

// mkUser создаёт подтверждённого пользователя напрямую в хранилище
func (e *testEnv) mkUser(t *testing.T, email string) int64 {
	t.Helper()
	u, err := e.store.Users().CreateUser(context.Background(), &model.User{Email: email, Password: "x", EmailVerified: true})
	require.NoError(t, err)
	return u.ID
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	require.NoError(t, middleware.SetLoginCookie(rr, userID, secret))
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// do выполняет запрос; userID == 0: анонимно
func (e *testEnv) do(t *testing.T, method, path, body string, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID > 0 {
		addAuthCookie(t, req, userID, testSecret)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}
