package api

import (
	"net/http"

	"cubograf/m/internal/validation"
)

var payableFailure = failure{invalid: "Campos obrigatórios faltando", notFound: "Conta não encontrada"}

func (h *Handler) listPayables(w http.ResponseWriter, r *http.Request) {
	payables, err := h.svc.ListPayables(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err, payableFailure)
		return
	}
	respondJSON(w, http.StatusOK, payables)
}

func (h *Handler) createPayable(w http.ResponseWriter, r *http.Request) {
	var req validation.PayablePayload
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	payable, warnings, err := h.svc.CreatePayable(r.Context(), &req, currentUser(r))
	if err != nil {
		h.respondServiceError(w, r, err, payableFailure)
		return
	}
	resp := map[string]any{"success": true, "conta": payable}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) updatePayable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "ID de conta inválido")
		return
	}
	var req validation.PayablePatch
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	payable, warnings, err := h.svc.UpdatePayable(r.Context(), id, &req, currentUser(r))
	if err != nil {
		h.respondServiceError(w, r, err, failure{notFound: payableFailure.notFound})
		return
	}
	resp := map[string]any{"success": true, "conta": payable}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) deletePayable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "ID de conta inválido")
		return
	}
	warnings, err := h.svc.DeletePayable(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, payableFailure)
		return
	}
	resp := map[string]any{"success": true, "message": "Conta excluída com sucesso"}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) payPayable(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "ID de conta inválido")
		return
	}
	payable, err := h.svc.PayPayable(r.Context(), id, currentUser(r))
	if err != nil {
		h.respondServiceError(w, r, err, payableFailure)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "conta": payable})
}
