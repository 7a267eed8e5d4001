package alerts

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/haven-app/haven/internal/platform/httpx"
	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
)

// Handler wires HTTP endpoints for alert dispatch and location sharing.
type Handler struct {
	logger     *slog.Logger
	dispatcher *Dispatcher
	users      *users.Service
	cooldown   *Cooldown
}

// NewHandler constructs a Handler instance. The cooldown may be nil.
func NewHandler(logger *slog.Logger, dispatcher *Dispatcher, userService *users.Service, cooldown *Cooldown) *Handler {
	return &Handler{logger: logger, dispatcher: dispatcher, users: userService, cooldown: cooldown}
}

// MountAlertRoutes registers the panic-button endpoint.
func (h *Handler) MountAlertRoutes(r chi.Router) {
	r.Post("/", h.dispatchAlert)
}

// MountShareLocationRoutes registers the authenticated location share endpoint.
func (h *Handler) MountShareLocationRoutes(r chi.Router) {
	r.Post("/", h.shareLocation)
}

type alertRequest struct {
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	Guardians []Contact `json:"guardians"`
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// dispatchAlert stays callable without a session so the panic button works
// from a logged-out device. When a session is present the guardian list is
// re-resolved server-side and the posted list is ignored.
func (h *Handler) dispatchAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	contacts := req.Guardians
	cooldownKey := "ip:" + clientIP(r)
	if sess := shared.SessionFromContext(r.Context()); sess.Authenticated() {
		owner, err := h.users.Resolve(r.Context())
		if err == nil {
			resolved, err := h.dispatcher.GuardiansFor(r.Context(), owner)
			if err != nil {
				h.logger.Error("resolve guardians failed", slog.Any("error", err))
				httpx.Error(w, http.StatusInternalServerError, "Failed to send alert")
				return
			}
			contacts = resolved
			cooldownKey = "user:" + strconv.FormatInt(owner.ID, 10)
		}
	}

	if err := h.cooldown.Acquire(r.Context(), cooldownKey); err != nil {
		if errors.Is(err, ErrCooldownActive) {
			httpx.Error(w, http.StatusTooManyRequests, "Please wait before sending another alert")
			return
		}
		h.logger.Warn("cooldown check failed", slog.Any("error", err))
	}

	if _, err := h.dispatcher.Dispatch(r.Context(), req.Latitude, req.Longitude, contacts); err != nil {
		h.cooldown.Release(r.Context(), cooldownKey)
		if errors.Is(err, shared.ErrValidation) {
			httpx.Error(w, http.StatusBadRequest, "Missing required information")
			return
		}
		httpx.Error(w, http.StatusInternalServerError, "Failed to send alert")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Alert sent successfully to guardians!"})
}

// clientIP drops the ephemeral port from direct connections so one host
// maps to one cooldown key. The RealIP middleware already rewrites
// RemoteAddr to a bare address when forwarding headers are present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func (h *Handler) shareLocation(w http.ResponseWriter, r *http.Request) {
	owner, err := h.users.Resolve(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrUnauthorized):
			httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("resolve user failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	var req locationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.dispatcher.ShareLocation(r.Context(), owner, req.Latitude, req.Longitude); err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			httpx.Error(w, http.StatusBadRequest, "Missing required information")
		case errors.Is(err, shared.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "No guardians found")
		default:
			h.logger.Error("share location failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Location shared successfully!"})
}
