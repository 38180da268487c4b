package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/closet/internal/analytics"
	"github.com/erazemk/closet/internal/catalog"
	"github.com/erazemk/closet/internal/model"
	"github.com/erazemk/closet/internal/store"
)

// maxEventItems bounds the items a single checkout event may name.
const maxEventItems = 50

// EventsHandler forwards storefront analytics events.
type EventsHandler struct {
	Store     *store.SQLStore
	Analytics analytics.Sink
}

type eventRequest struct {
	Event   string   `json:"event"`
	URL     string   `json:"url"`
	ItemIDs []string `json:"item_ids"`
}

// Track handles POST /api/events. Item events are valued from the store,
// not from client-supplied prices. Purchase is rejected: it is emitted by
// the server when an item is sold.
func (h *EventsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name, ok := analytics.ParseName(req.Event)
	if !ok {
		jsonError(w, http.StatusBadRequest, "unknown event")
		return
	}
	if name == analytics.Purchase {
		// Sales are reported when intake marks an item sold.
		jsonError(w, http.StatusBadRequest, "purchase events are recorded on sale")
		return
	}
	if len(req.ItemIDs) > maxEventItems {
		jsonError(w, http.StatusBadRequest, "too many items")
		return
	}

	var e analytics.Event
	if name == analytics.PageView {
		e = analytics.PageViewEvent(req.URL)
	} else {
		if len(req.ItemIDs) == 0 {
			jsonError(w, http.StatusBadRequest, "item_ids required")
			return
		}
		rows, err := h.loadItems(r, req.ItemIDs)
		if err != nil {
			slog.Error("loading event items", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to load items")
			return
		}
		if rows == nil {
			jsonError(w, http.StatusBadRequest, "unknown item")
			return
		}
		e = itemEvent(name, rows)
		e.SourceURL = req.URL
	}

	h.Analytics.Track(r.Context(), e)
	jsonData(w, http.StatusAccepted, map[string]string{"event_id": e.ID})
}

// loadItems returns the rows for ids, or nil if any is missing.
func (h *EventsHandler) loadItems(r *http.Request, ids []string) ([]model.InventoryRow, error) {
	rows := make([]model.InventoryRow, 0, len(ids))
	for _, id := range ids {
		row, err := h.Store.GetItem(r.Context(), id)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

func itemEvent(name analytics.Name, rows []model.InventoryRow) analytics.Event {
	switch name {
	case analytics.ViewContent:
		return analytics.ViewContentEvent(catalog.ToPublicItem(rows[0]))
	case analytics.AddToCart:
		return analytics.AddToCartEvent(catalog.ToPublicItem(rows[0]))
	}

	items := make([]model.PublicInventoryItem, len(rows))
	for i, row := range rows {
		items[i] = catalog.ToPublicItem(row)
	}
	return analytics.InitiateCheckoutEvent(items)
}
