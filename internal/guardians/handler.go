package guardians

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/haven-app/haven/internal/platform/httpx"
	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
)

// Handler wires HTTP endpoints for guardian management.
type Handler struct {
	logger  *slog.Logger
	service *Service
	users   *users.Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, userService *users.Service) *Handler {
	return &Handler{logger: logger, service: service, users: userService}
}

// MountRoutes registers guardian routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), owner)
	if err != nil {
		h.logger.Error("list guardians failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if list == nil {
		list = []Guardian{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}

	var fields Fields
	if err := httpx.DecodeJSON(r, &fields); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	guardian, err := h.service.Create(r.Context(), owner, fields)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guardian)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid guardian ID")
		return
	}

	var fields Fields
	if err := httpx.DecodeJSON(r, &fields); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	guardian, err := h.service.Update(r.Context(), owner, id, fields)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, guardian)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolveOwner(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid guardian ID")
		return
	}

	if err := h.service.Delete(r.Context(), owner, id); err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// resolveOwner runs the session -> user gate shared by every guardian route.
func (h *Handler) resolveOwner(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	owner, err := h.users.Resolve(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUnauthorized):
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("resolve user failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		}
		return nil, false
	}
	return owner, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, shared.ErrLimitExceeded):
		httpx.Error(w, http.StatusBadRequest, "Maximum number of guardians reached")
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "Guardian not found")
	case errors.Is(err, shared.ErrForbidden):
		httpx.Error(w, http.StatusForbidden, "Forbidden")
	default:
		h.logger.Error("guardian operation failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
