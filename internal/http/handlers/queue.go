package handlers

import (
	"net/http"

	"github.com/jsephandrade/canteen-order-service/internal/orders"
	"github.com/jsephandrade/canteen-order-service/pkg/response"
)

func (h *Handler) OrderQueue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	snapshot, err := h.Orders.OrderQueue(r.Context(), orders.QueueParams{
		Station: query.Get("station"),
		Channel: query.Get("channel"),
	})
	if err != nil {
		h.writeServiceError(w, "queue", err)
		return
	}
	response.Success(w, snapshot)
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Orders.OrderHistory(r.Context(), listParamsFromQuery(r))
	if err != nil {
		h.writeServiceError(w, "history", err)
		return
	}
	response.Success(w, history)
}

func (h *Handler) GenerateOrderNumber(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	prefix := query.Get("prefix")
	if prefix == "" {
		prefix = h.Config.OrderNumberPrefix
	}
	generated, err := h.Orders.GenerateOrderNumber(r.Context(), orders.NumberParams{
		Prefix:  prefix,
		Channel: query.Get("channel"),
		Type:    query.Get("type"),
	})
	if err != nil {
		h.writeServiceError(w, "generateNumber", err)
		return
	}
	response.Success(w, generated)
}
