package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/closet/internal/analytics"
	"github.com/erazemk/closet/internal/catalog"
	"github.com/erazemk/closet/internal/imaging"
	"github.com/erazemk/closet/internal/model"
	"github.com/erazemk/closet/internal/store"
)

// ItemsHandler handles intake writes and image reads.
type ItemsHandler struct {
	Store     *store.SQLStore
	Catalog   *catalog.Service
	Analytics analytics.Sink
}

type createItemRequest struct {
	Name          string   `json:"name"`
	Brand         *string  `json:"brand"`
	Size          *string  `json:"size"`
	Category      *string  `json:"category"`
	BrandCategory *string  `json:"brand_category"`
	CostPrice     *float64 `json:"cost_price"`
	AskingPrice   *float64 `json:"asking_price"`
	Status        string   `json:"status"`
	ClosetDisplay *string  `json:"closet_display"`
	Notes         *string  `json:"notes"`
}

type statusRequest struct {
	Status    string     `json:"status"`
	SalePrice *float64   `json:"sale_price"`
	SoldAt    *time.Time `json:"sold_at"`
}

type displayRequest struct {
	ClosetDisplay *string `json:"closet_display"`
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}
	if req.Status == "" {
		req.Status = model.StatusForSale
	}
	if !model.ValidStatus(req.Status) || req.Status == model.StatusSold {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if req.ClosetDisplay != nil && !model.ValidDisplay(*req.ClosetDisplay) {
		jsonError(w, http.StatusBadRequest, "invalid closet_display")
		return
	}
	if !validPrice(req.CostPrice) || !validPrice(req.AskingPrice) {
		jsonError(w, http.StatusBadRequest, priceRangeMessage)
		return
	}

	row, err := h.Store.CreateItem(r.Context(), store.NewItem{
		Name:          req.Name,
		Brand:         req.Brand,
		Size:          req.Size,
		Category:      req.Category,
		BrandCategory: req.BrandCategory,
		CostPrice:     req.CostPrice,
		AskingPrice:   req.AskingPrice,
		Status:        req.Status,
		ClosetDisplay: req.ClosetDisplay,
		Notes:         req.Notes,
	})
	if err != nil {
		slog.Error("creating item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	h.invalidate(r)
	jsonData(w, http.StatusCreated, catalog.ToPublicItem(*row))
}

// SetStatus handles PUT /api/items/{id}/status. Moving an item to sold
// records the sale and reports a purchase; re-marking a sold item only
// corrects the sale fields.
func (h *ItemsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !model.ValidStatus(req.Status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if !validPrice(req.SalePrice) {
		jsonError(w, http.StatusBadRequest, priceRangeMessage)
		return
	}

	var err error
	var newSale bool
	if req.Status == model.StatusSold {
		var soldAt time.Time
		if req.SoldAt != nil {
			soldAt = *req.SoldAt
		}
		newSale, err = h.Store.MarkSold(r.Context(), id, req.SalePrice, soldAt)
	} else {
		err = h.Store.UpdateItemStatus(r.Context(), id, req.Status)
	}
	if !h.writeResult(w, r, err) {
		return
	}

	row, err := h.Store.GetItem(r.Context(), id)
	if err != nil || row == nil {
		slog.Error("reloading item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to load item")
		return
	}

	if row.Status == model.StatusSold {
		sold := catalog.ToSoldItem(*row)
		if newSale {
			h.Analytics.Track(r.Context(), analytics.PurchaseEvent(sold))
		}
		jsonData(w, http.StatusOK, sold)
		return
	}
	jsonData(w, http.StatusOK, catalog.ToPublicItem(*row))
}

// SetDisplay handles PUT /api/items/{id}/display. A null display clears
// it, which listings show as not for sale.
func (h *ItemsHandler) SetDisplay(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req displayRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClosetDisplay != nil && !model.ValidDisplay(*req.ClosetDisplay) {
		jsonError(w, http.StatusBadRequest, "invalid closet_display")
		return
	}

	err := h.Store.SetClosetDisplay(r.Context(), id, req.ClosetDisplay)
	if !h.writeResult(w, r, err) {
		return
	}
	jsonData(w, http.StatusOK, map[string]any{"id": id, "closet_display": req.ClosetDisplay})
}

// UploadImage handles PUT /api/items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	photo, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	imageID, err := h.Store.AddItemImage(r.Context(), id, photo.Listing, photo.Thumbnail, photo.MIME)
	if !h.writeResult(w, r, err) {
		return
	}
	jsonData(w, http.StatusCreated, map[string]string{"id": imageID, "url": store.ImageURL(imageID)})
}

// GetImage handles GET /api/images/{id}. ?size=thumb serves the thumbnail.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	thumb := r.URL.Query().Get("size") == "thumb"

	data, mime, err := h.Store.GetImage(r.Context(), r.PathValue("id"), thumb)
	if err != nil {
		slog.Error("getting image", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "image not found")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.Write(data)
}

// writeResult reports a failed write and returns false, or invalidates
// cached reads and returns true.
func (h *ItemsHandler) writeResult(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		h.invalidate(r)
		return true
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, "item not found")
	default:
		slog.Error("intake write failed", "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
	}
	return false
}

func (h *ItemsHandler) invalidate(r *http.Request) {
	if err := h.Catalog.Invalidate(r.Context()); err != nil {
		slog.Warn("invalidating catalog cache", "error", err)
	}
}

const priceRangeMessage = "prices must be between 0 and 99999999.99"

func validPrice(p *float64) bool {
	return p == nil || (*p >= 0 && *p <= store.MaxPrice)
}
