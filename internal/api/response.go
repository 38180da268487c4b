package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/closet/internal/catalog"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonData wraps a successful result in the {"data": ...} envelope.
func jsonData(w http.ResponseWriter, status int, data any) {
	jsonResponse(w, status, map[string]any{"data": data})
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// catalogError maps a catalog failure onto a response. Failed upstream
// queries are 502; a request whose client went away gets nothing.
func catalogError(w http.ResponseWriter, r *http.Request, err error) {
	var qe *catalog.QueryError
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		slog.Debug("request abandoned", "path", r.URL.Path, "error", err)
	case errors.Is(err, catalog.ErrInvalidLimit):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &qe):
		slog.Error("catalog query failed", "op", qe.Op, "error", qe.Err)
		jsonError(w, http.StatusBadGateway, qe.Error())
	default:
		slog.Error("catalog request failed", "path", r.URL.Path, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
