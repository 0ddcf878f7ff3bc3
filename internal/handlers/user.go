package handlers

import (
	"KeyGuardian/internal/config"
	"KeyGuardian/internal/middleware"
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler: регистрация, вход и подтверждение email.
type UserHandler struct {
	UserService *service.UserService
	Verifier    *service.VerificationService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, verifier *service.VerificationService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Verifier: verifier, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, EmailVerified: u.EmailVerified}
}

// Register создаёт пользователя и отправляет ссылку подтверждения.
// Сессия не выдаётся, пока email не подтверждён.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("failed to set auth cookie", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.Logger.Infow("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Verify погашает токен из ссылки подтверждения.
func (h *UserHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.Verifier.Consume(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

// ResendVerification отвечает 202 независимо от того, существует ли адрес.
func (h *UserHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.UserService.ResendVerification(r.Context(), req.Email); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"result": "if the address is registered and unverified, a new link was sent"})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.UserService.Get(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}
