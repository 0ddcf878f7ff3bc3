package handlers

import (
	"KeyGuardian/internal/access"
	"KeyGuardian/internal/config"
	"KeyGuardian/internal/middleware"
	"KeyGuardian/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	verifier *service.VerificationService,
	gate *access.Gate,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, verifier, logger, config)
	secretHandler := NewSecretHandler(gate, logger)
	categoryHandler := NewCategoryHandler(gate, logger)
	auditHandler := NewAuditHandler(gate, logger)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/logout", userHandler.Logout)
	r.Get("/api/user/verify/{token}", userHandler.Verify)
	r.Post("/api/user/verify/resend", userHandler.ResendVerification)

	// Всё остальное только для аутентифицированного пользователя
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/user/me", userHandler.Me)

		r.Route("/api/secrets", func(r chi.Router) {
			r.Get("/", secretHandler.List)
			r.Post("/", secretHandler.Add)
			r.Get("/grouped", secretHandler.Grouped)
			r.Patch("/{id}", secretHandler.Rename)
			r.Delete("/{id}", secretHandler.Delete)
			r.Post("/{id}/reveal", secretHandler.Reveal)
			r.Post("/{id}/revoke", secretHandler.Revoke)
			r.Put("/{id}/expiration", secretHandler.SetExpiration)
			r.Put("/{id}/category", secretHandler.SetCategory)
		})

		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.List)
			r.Post("/", categoryHandler.Create)
			r.Patch("/{id}", categoryHandler.Rename)
			r.Delete("/{id}", categoryHandler.Delete)
		})

		r.Get("/api/audit", auditHandler.List)
	})

	return &Handler{Router: r}
}
