package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/closet/internal/catalog"
)

// DefaultShopWait is how long the shop endpoint waits for its sections.
const DefaultShopWait = 3 * time.Second

// CatalogHandler serves the public catalog reads.
type CatalogHandler struct {
	Catalog  *catalog.Service
	ShopWait time.Duration
}

// Recent handles GET /api/inventory/recent.
func (h *CatalogHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	items, err := h.Catalog.RecentInventory(r.Context(), limit)
	if err != nil {
		catalogError(w, r, err)
		return
	}
	jsonData(w, http.StatusOK, items)
}

// Sold handles GET /api/inventory/sold.
func (h *CatalogHandler) Sold(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.SoldInventory(r.Context())
	if err != nil {
		catalogError(w, r, err)
		return
	}
	jsonData(w, http.StatusOK, items)
}

// Products handles GET /api/storefront/products.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.StorefrontProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		catalogError(w, r, err)
		return
	}
	jsonData(w, http.StatusOK, products)
}

// Brands handles GET /api/brands.
func (h *CatalogHandler) Brands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.Catalog.ListBrands(r.Context())
	if err != nil {
		catalogError(w, r, err)
		return
	}
	jsonData(w, http.StatusOK, brands)
}

// Shop handles GET /api/shop. Sections fail or stay loading independently,
// so the response is always 200.
func (h *CatalogHandler) Shop(w http.ResponseWriter, r *http.Request) {
	wait := h.ShopWait
	if wait <= 0 {
		wait = DefaultShopWait
	}
	jsonData(w, http.StatusOK, h.Catalog.Shop(r.Context(), wait))
}
