package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haven-app/haven/internal/shared"
)

type stubRepo struct {
	products []Product
	err      error
}

func (s *stubRepo) ListActive(ctx context.Context) ([]Product, error) {
	return s.products, s.err
}

func (s *stubRepo) Get(ctx context.Context, id int64) (*Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func newRouter(repo Repository) chi.Router {
	h := NewHandler(slog.New(slog.DiscardHandler), NewService(repo))
	r := chi.NewRouter()
	r.Route("/api/products", h.MountRoutes)
	return r
}

func TestListProducts(t *testing.T) {
	router := newRouter(&stubRepo{products: []Product{
		{ID: 1, Name: "Pepper Spray", Price: 254, Image: "/img/pepper-spray.webp", IsActive: true},
		{ID: 2, Name: "Self-Defense Keychain", Price: 305, Image: "/img/keychain.jpg", IsActive: true},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Pepper Spray", got[0].Name)
	assert.InDelta(t, 254, got[0].Price, 1e-9)
}

func TestListProductsEmptyIsArray(t *testing.T) {
	router := newRouter(&stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestListProductsFailure(t *testing.T) {
	router := newRouter(&stubRepo{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRejectsNonPositiveID(t *testing.T) {
	svc := NewService(&stubRepo{})
	_, err := svc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
