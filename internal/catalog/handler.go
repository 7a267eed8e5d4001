package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haven-app/haven/internal/platform/httpx"
)

// Handler serves the public product catalog.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListActive(r.Context())
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if products == nil {
		products = []Product{}
	}
	httpx.JSON(w, http.StatusOK, products)
}
