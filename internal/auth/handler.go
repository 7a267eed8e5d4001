package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/haven-app/haven/internal/platform/httpx"
	"github.com/haven-app/haven/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleAuth)
	r.Post("/logout", h.handleLogout)
}

type authRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Name     *string `json:"name"`
	IsLogin  bool    `json:"isLogin"`
}

// handleAuth serves both login and registration, discriminated by isLogin.
func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	if req.IsLogin {
		h.login(w, r, req)
		return
	}
	h.register(w, r, req)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, req authRequest) {
	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "User not found")
		case errors.Is(err, shared.ErrInvalidCredentials):
			httpx.Error(w, http.StatusUnauthorized, "Invalid password")
		default:
			h.logger.Error("authenticate failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.establishSession(w, r, user.ID, user.Email)
	httpx.JSON(w, http.StatusOK, user.Summarize())
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request, req authRequest) {
	user, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			httpx.Error(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error("register failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// New accounts are logged in immediately.
	h.establishSession(w, r, user.ID, user.Email)
	httpx.JSON(w, http.StatusOK, user.Summarize())
}

func (h *Handler) establishSession(w http.ResponseWriter, r *http.Request, userID int64, email string) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		return
	}
	sess.SetUser(userID, email)
	expiresAt := time.Now().Add(h.sessionManager.TTL())
	if err := h.service.RegisterSession(r.Context(), sess.ID, userID, expiresAt, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
