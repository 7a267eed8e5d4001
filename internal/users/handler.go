package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haven-app/haven/internal/platform/httpx"
	"github.com/haven-app/haven/internal/shared"
)

// Handler wires HTTP endpoints for the user profile.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers profile routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showProfile)
	r.Put("/", h.updateProfile)
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

func (h *Handler) showProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Resolve(r.Context())
	if err != nil {
		h.respondResolveError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user.Summarize())
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), req.Name, req.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUnauthorized):
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("profile update failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, user.Summarize())
}

func (h *Handler) respondResolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "User not found")
	default:
		h.logger.Error("resolve user failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
