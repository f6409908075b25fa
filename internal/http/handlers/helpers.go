package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/jsephandrade/canteen-order-service/internal/orders"
	"github.com/jsephandrade/canteen-order-service/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

func parseIntWithBounds(value string, fallback, min, max int) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	if parsed < min {
		return min
	}
	if parsed > max {
		return max
	}
	return parsed
}

func decodeJSON(r *http.Request, out any) error {
	defer io.Copy(io.Discard, r.Body)
	return json.NewDecoder(r.Body).Decode(out)
}

// writeServiceError maps façade failures onto the response envelope:
// missing records become 404s, everything else surfaces as an upstream
// failure and gets logged.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, orders.ErrOrderNotFound) {
		response.Error(w, http.StatusNotFound, "ORDER_NOT_FOUND", err.Error())
		return
	}
	h.Logger.Error("order operation failed", zap.String("op", op), zap.Error(err))
	response.Error(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Order backend request failed")
}
