package api

import (
	"fmt"
	"net/http"
	"strconv"

	"cubograf/m/domain"
	"cubograf/m/internal/validation"
)

// queryPeriod reads mes and ano from the query string. When required is
// false, missing values default to the current month.
func (h *Handler) queryPeriod(w http.ResponseWriter, r *http.Request, required bool) (domain.Period, bool) {
	q := r.URL.Query()
	mes, ano := q.Get("mes"), q.Get("ano")
	if required && (mes == "" || ano == "") {
		respondError(w, http.StatusBadRequest, "Mês e ano são obrigatórios")
		return domain.Period{}, false
	}
	current := h.svc.CurrentPeriod()
	month, year := current.Month, current.Year
	var err error
	if mes != "" {
		if month, err = strconv.Atoi(mes); err != nil {
			respondError(w, http.StatusBadRequest, "Parâmetros inválidos", "mes deve ser numérico")
			return domain.Period{}, false
		}
	}
	if ano != "" {
		if year, err = strconv.Atoi(ano); err != nil {
			respondError(w, http.StatusBadRequest, "Parâmetros inválidos", "ano deve ser numérico")
			return domain.Period{}, false
		}
	}
	p, err := domain.NewPeriod(year, month)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Parâmetros inválidos", err.Error())
		return domain.Period{}, false
	}
	return p, true
}

func (h *Handler) financialSummary(w http.ResponseWriter, r *http.Request) {
	p, ok := h.queryPeriod(w, r, false)
	if !ok {
		return
	}
	summary, err := h.svc.FinancialSummary(r.Context(), p)
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.queryPeriod(w, r, false)
	if !ok {
		return
	}
	stats, err := h.svc.DashboardStats(r.Context(), p)
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

type transferRequest struct {
	SourceMonth validation.Int `json:"mes_origem"`
	SourceYear  validation.Int `json:"ano_origem"`
	TargetMonth validation.Int `json:"mes_destino"`
	TargetYear  validation.Int `json:"ano_destino"`
}

func (h *Handler) transferOrders(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	if !req.SourceMonth.Provided || !req.SourceYear.Provided || !req.TargetMonth.Provided || !req.TargetYear.Provided {
		respondError(w, http.StatusBadRequest, "Todos os campos de período são obrigatórios")
		return
	}
	src, err := domain.NewPeriod(req.SourceYear.Value, req.SourceMonth.Value)
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	dst, err := domain.NewPeriod(req.TargetYear.Value, req.TargetMonth.Value)
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	moved, err := h.svc.TransferOrders(r.Context(), src, dst)
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Transferidos %d pedidos", len(moved)),
		"pedidos": moved,
	})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.queryPeriod(w, r, true)
	if !ok {
		return
	}
	payments, err := h.svc.ListPayments(r.Context(), p)
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	respondJSON(w, http.StatusOK, payments)
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req validation.PaymentPayload
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	payment, err := h.svc.CreatePayment(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, r, err, failure{invalid: "Campos obrigatórios faltando"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "pagamento": payment})
}

func (h *Handler) updatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "ID de pagamento inválido")
		return
	}
	var req validation.PaymentPayload
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	payment, err := h.svc.UpdatePayment(r.Context(), id, &req)
	if err != nil {
		h.respondServiceError(w, r, err, failure{invalid: "Campos obrigatórios faltando", notFound: "Pagamento não encontrado"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "pagamento": payment})
}

type closeMonthRequest struct {
	Month validation.Int `json:"mes"`
	Year  validation.Int `json:"ano"`
}

func (h *Handler) closeMonth(w http.ResponseWriter, r *http.Request) {
	var req closeMonthRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadJSON(w, err)
		return
	}
	if !req.Month.Provided || !req.Year.Provided {
		respondError(w, http.StatusBadRequest, "Mês e ano são obrigatórios")
		return
	}
	closing, err := h.svc.CloseMonth(r.Context(), domain.Period{Year: req.Year.Value, Month: req.Month.Value})
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Mês encerrado com sucesso",
		"fechamento": closing,
	})
}

func (h *Handler) exportBalancete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.queryPeriod(w, r, true)
	if !ok {
		return
	}
	b, err := h.svc.ExportBalancete(r.Context(), p, currentUser(r))
	if err != nil {
		h.respondServiceError(w, r, err, failure{})
		return
	}
	if r.URL.Query().Get("formato") != "csv" {
		respondJSON(w, http.StatusOK, b)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="balancete-%s.csv"`, p))
	w.WriteHeader(http.StatusOK)
	if err := b.WriteCSV(w); err != nil {
		h.log.Error().Err(err).Msg("write balancete csv")
	}
}
