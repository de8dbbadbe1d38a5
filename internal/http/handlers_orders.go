package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"backoffice/internal/services"
)

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	if _, err := s.orders.CreateOrder(r.Context(), in); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusCreated, "Order created successfully")
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid order ID"})
		return
	}

	var in services.UpdateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	if err := s.orders.UpdateOrder(r.Context(), id, in); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusOK, "Order updated successfully")
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid order ID"})
		return
	}

	if err := s.orders.DeleteOrder(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateRequestTags(r)
	respondSuccess(w, http.StatusOK, "Order deleted successfully")
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListOrders(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (s *Server) handleListPendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.ListPendingOrders(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}
