package api

import (
	"net/http"

	"cubograf/m/internal/validation"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req validation.OrderPayload
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	order, warnings, err := h.svc.CreateOrder(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	resp := map[string]any{"success": true, "order": order}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "ID de ordem inválido")
		return
	}
	var req validation.OrderPayload
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	order, err := h.svc.UpdateOrder(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, r, err, failure{notFound: "Ordem não encontrada"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
}
