package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Drij77/ecommerce-graphql-api/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), CallerFromContext(r.Context()))
	if err != nil {
		respondError(r, w, err)
		return
	}

	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), CallerFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapOrder(order))
}

type createOrderRequest struct {
	Items []orderLineRequest `json:"items"`
}

type orderLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	input := service.CreateOrderInput{Items: make([]service.OrderLineInput, len(req.Items))}
	for i, line := range req.Items {
		input.Items[i] = service.OrderLineInput{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
	}

	order, err := h.orders.CreateOrder(r.Context(), CallerFromContext(r.Context()), input)
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapOrder(order))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorCode(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), CallerFromContext(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapOrder(order))
}
