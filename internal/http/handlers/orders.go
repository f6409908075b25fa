package handlers

import (
	"net/http"

	"github.com/jsephandrade/canteen-order-service/internal/orders"
	"github.com/jsephandrade/canteen-order-service/pkg/response"
)

func listParamsFromQuery(r *http.Request) orders.ListParams {
	query := r.URL.Query()
	return orders.ListParams{
		Status:  query.Get("status"),
		Channel: query.Get("channel"),
		Search:  query.Get("search"),
		Page:    parseIntWithBounds(query.Get("page"), 1, 1, 10000),
		Limit:   parseIntWithBounds(query.Get("limit"), 20, 1, 200),
	}
}

func (h *Handler) OrdersList(w http.ResponseWriter, r *http.Request) {
	list, pagination, err := h.Orders.ListOrders(r.Context(), listParamsFromQuery(r))
	if err != nil {
		h.writeServiceError(w, "list", err)
		return
	}
	response.Page(w, list, pagination)
}

func (h *Handler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")
	if id == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Order id is required")
		return
	}
	order, err := h.Orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, "detail", err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) OrderCreate(w http.ResponseWriter, r *http.Request) {
	var data orders.Raw
	if err := decodeJSON(r, &data); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order payload")
		return
	}
	order, err := h.Orders.CreateOrder(r.Context(), data)
	if err != nil {
		h.writeServiceError(w, "create", err)
		return
	}
	response.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    order,
	})
}

func (h *Handler) OrderStatusUpdate(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")

	var body struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}

	extra := orders.Raw{}
	if body.Reason != "" {
		extra["reason"] = body.Reason
	}
	order, err := h.Orders.UpdateOrderStatus(r.Context(), id, body.Status, extra)
	if err != nil {
		h.writeServiceError(w, "status", err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) OrderCancel(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")

	var body struct {
		Reason string `json:"reason"`
	}
	// Reason is optional; an empty body cancels without one.
	_ = decodeJSON(r, &body)

	order, err := h.Orders.CancelOrder(r.Context(), id, body.Reason)
	if err != nil {
		h.writeServiceError(w, "cancel", err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) OrderAutoFlowUpdate(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")

	var update orders.AutoFlowUpdate
	if err := decodeJSON(r, &update); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid auto-flow payload")
		return
	}
	order, err := h.Orders.UpdateOrderAutoFlow(r.Context(), id, update)
	if err != nil {
		h.writeServiceError(w, "autoflow", err)
		return
	}
	response.Success(w, order)
}

func (h *Handler) OrderItemStateUpdate(w http.ResponseWriter, r *http.Request) {
	orderID := readPathString(r, "id")
	itemID := readPathString(r, "itemId")

	var update orders.ItemStateUpdate
	if err := decodeJSON(r, &update); err != nil || update.State == "" {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Item state is required")
		return
	}
	order, item, err := h.Orders.UpdateOrderItemState(r.Context(), orderID, itemID, update)
	if err != nil {
		h.writeServiceError(w, "itemState", err)
		return
	}
	response.Success(w, map[string]any{
		"order": order,
		"item":  item,
	})
}

func (h *Handler) OrderPayment(w http.ResponseWriter, r *http.Request) {
	orderID := readPathString(r, "id")

	var data orders.Raw
	if err := decodeJSON(r, &data); err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment payload")
		return
	}
	result, err := h.Orders.ProcessPayment(r.Context(), orderID, data)
	if err != nil {
		h.writeServiceError(w, "payment", err)
		return
	}
	response.Success(w, result)
}
