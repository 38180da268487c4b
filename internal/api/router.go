package api

import (
	"net/http"
	"time"

	"github.com/erazemk/closet/internal/analytics"
	"github.com/erazemk/closet/internal/catalog"
	"github.com/erazemk/closet/internal/store"
)

// Deps are the services the API is built on.
type Deps struct {
	Catalog     *catalog.Service
	Store       *store.SQLStore
	Analytics   analytics.Sink
	TokenSecret string
	ShopWait    time.Duration
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	if d.Analytics == nil {
		d.Analytics = analytics.Nop{}
	}

	mux := http.NewServeMux()

	catalogHandler := &CatalogHandler{Catalog: d.Catalog, ShopWait: d.ShopWait}
	itemsHandler := &ItemsHandler{Store: d.Store, Catalog: d.Catalog, Analytics: d.Analytics}
	eventsHandler := &EventsHandler{Store: d.Store, Analytics: d.Analytics}

	intake := IntakeMiddleware(d.TokenSecret)

	// Public reads.
	mux.HandleFunc("GET /api/shop", catalogHandler.Shop)
	mux.HandleFunc("GET /api/inventory/recent", catalogHandler.Recent)
	mux.HandleFunc("GET /api/inventory/sold", catalogHandler.Sold)
	mux.HandleFunc("GET /api/storefront/products", catalogHandler.Products)
	mux.HandleFunc("GET /api/brands", catalogHandler.Brands)
	mux.HandleFunc("GET /api/images/{id}", itemsHandler.GetImage)
	mux.HandleFunc("POST /api/events", eventsHandler.Track)

	// Intake writes.
	mux.Handle("POST /api/items", intake(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}/status", intake(http.HandlerFunc(itemsHandler.SetStatus)))
	mux.Handle("PUT /api/items/{id}/display", intake(http.HandlerFunc(itemsHandler.SetDisplay)))
	mux.Handle("PUT /api/items/{id}/image", intake(http.HandlerFunc(itemsHandler.UploadImage)))

	return mux
}
