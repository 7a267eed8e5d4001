package cart

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/haven-app/haven/internal/catalog"
	"github.com/haven-app/haven/internal/platform/httpx"
	"github.com/haven-app/haven/internal/shared"
)

// Handler re-prices client carts against the catalog. Cart state itself
// stays client-local; this endpoint only verifies prices and totals.
type Handler struct {
	logger  *slog.Logger
	catalog *catalog.Service
	printer *message.Printer
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, catalogService *catalog.Service) *Handler {
	return &Handler{
		logger:  logger,
		catalog: catalogService,
		printer: message.NewPrinter(language.English),
	}
}

// MountRoutes registers cart routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/quote", h.quote)
}

type quoteRequest struct {
	Items []quoteItem `json:"items"`
}

type quoteItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type quoteResponse struct {
	Items          Cart    `json:"items"`
	Total          float64 `json:"total"`
	TotalItems     int     `json:"totalItems"`
	FormattedTotal string  `json:"formattedTotal"`
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	priced := Cart{}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			httpx.Error(w, http.StatusBadRequest, "Quantity must be at least 1")
			return
		}
		product, err := h.catalog.Get(r.Context(), line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				httpx.Error(w, http.StatusBadRequest, "Unknown product in cart")
				return
			}
			h.logger.Error("price lookup failed", slog.Any("error", err))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		priced = append(priced, Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  line.Quantity,
		})
	}

	httpx.JSON(w, http.StatusOK, quoteResponse{
		Items:          priced,
		Total:          priced.Total(),
		TotalItems:     priced.TotalItems(),
		FormattedTotal: h.printer.Sprintf("₹%.2f", priced.Total()),
	})
}
