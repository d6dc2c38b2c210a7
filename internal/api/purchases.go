package api

import (
	"net/http"
	"strings"

	"cubograf/m/internal/validation"
)

func (h *Handler) listPurchases(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.svc.ListPurchases(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

func (h *Handler) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req validation.PurchasePayload
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	res, err := h.svc.CreatePurchase(r.Context(), &req, currentUser(r))
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	resp := map[string]any{"success": true, "compra": res.Purchase}
	if res.Payable != nil {
		resp["conta"] = res.Payable
	}
	if res.Entry != nil {
		resp["financial_entry"] = res.Entry
	}
	if len(res.Warnings) > 0 {
		resp["warning"] = strings.Join(res.Warnings, "; ")
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) updatePurchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "ID de compra inválido")
		return
	}
	var req validation.PurchasePatch
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	purchase, err := h.svc.UpdatePurchase(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, r, err, failure{notFound: "Compra não encontrada"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "compra": purchase})
}
