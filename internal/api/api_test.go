package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cubograf/m/domain"
	"cubograf/m/internal/api"
	"cubograf/m/internal/auth"
	"cubograf/m/internal/metrics"
	"cubograf/m/internal/service"
	"cubograf/m/internal/store"
	"cubograf/m/internal/testutil"
)

type env struct {
	t      *testing.T
	router http.Handler
	store  *store.Store
	auth   *auth.Manager
}

func newEnv(t *testing.T, opts ...func(*api.Options)) *env {
	t.Helper()
	st := store.New(testutil.NewDB(t))
	m := metrics.New()
	svc := service.New(st, zerolog.Nop(), m)
	svc.SetClock(func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) })
	mgr := auth.NewManager(st.Users, st.Sessions, "test-secret", time.Hour, false)

	o := api.Options{CORSOrigins: []string{"*"}, LoginRate: 100, LoginBurst: 100}
	for _, fn := range opts {
		fn(&o)
	}
	return &env{t: t, router: api.New(svc, mgr, m, zerolog.Nop(), o).Router(), store: st, auth: mgr}
}

func (e *env) session(username, role string) *http.Cookie {
	e.t.Helper()
	ctx := context.Background()
	_, err := e.auth.CreateUser(ctx, username, "pw-"+username, role)
	require.NoError(e.t, err)
	_, signed, err := e.auth.Login(ctx, username, "pw-"+username)
	require.NoError(e.t, err)
	return &http.Cookie{Name: auth.CookieName, Value: signed}
}

func (e *env) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestAPIRequiresSession(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/api/orders", "/api/compras", "/api/dashboard/stats", "/api/unknown"} {
		rec := e.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, "Unauthorized", decode(t, rec)["error"])
	}
}

func TestSellerIsRejectedFromAdminRoutes(t *testing.T) {
	e := newEnv(t)
	seller := e.session("rui", domain.RoleSeller)

	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/orders", "", seller).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/dashboard/stats", "", seller).Code)
	for _, path := range []string{"/api/compras", "/api/contas_pagar", "/api/financeiro/dados", "/api/balancete/export?mes=3&ano=2024"} {
		assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, path, "", seller).Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodPost, "/api/encerrar_mes", `{"mes":3,"ano":2024}`, seller).Code)
}

func TestCreateOrder(t *testing.T) {
	e := newEnv(t)
	seller := e.session("rui", domain.RoleSeller)

	rec := e.do(http.MethodPost, "/api/orders",
		`{"cliente":"Ana","vendedor":"Rui","material":"lona, adesivo","valor_total":1000,"custo":400}`, seller)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	order := body["order"].(map[string]any)
	assert.Equal(t, 500.0, order["valor_entrada"])
	assert.Equal(t, 500.0, order["valor_restante"])
	assert.Equal(t, 600.0, order["valor_estimado_lucro"])
	assert.Equal(t, []any{"lona", "adesivo"}, order["material"])
	assert.NotContains(t, body, "warnings")

	rec = e.do(http.MethodGet, "/api/orders", "", seller)
	var orders []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
}

func TestCreateOrderValidation(t *testing.T) {
	e := newEnv(t)
	seller := e.session("rui", domain.RoleSeller)

	rec := e.do(http.MethodPost, "/api/orders", `{"cliente":"Ana","valor_total":-5}`, seller)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Dados inválidos", body["error"])
	assert.Contains(t, body["details"], "Valor total deve ser maior que zero")

	rec = e.do(http.MethodPost, "/api/orders", "", seller)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []any{"Nenhum dado recebido"}, decode(t, rec)["details"])
}

func TestUpdateOrderNotFound(t *testing.T) {
	e := newEnv(t)
	seller := e.session("rui", domain.RoleSeller)

	rec := e.do(http.MethodPut, "/api/orders/77", `{"cliente":"Ana","vendedor":"Rui","material":"lona","valor_total":10}`, seller)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPut, "/api/orders/abc", `{}`, seller).Code)
}

func TestFinancialSummaryForMonth(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)

	rec := e.do(http.MethodPost, "/api/orders",
		`{"cliente":"Ana","vendedor":"Rui","material":"lona","valor_total":1000,"custo":250,"data":"2024-03-10","status":"Finalizada"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodGet, "/api/financeiro/dados?mes=3&ano=2024", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 1000.0, body["receita_total"])
	assert.Equal(t, 250.0, body["custos_total"])
	assert.Equal(t, 750.0, body["lucro_liquido"])
	assert.Equal(t, map[string]any{"ano": 2024.0, "mes": 3.0}, body["periodo"])

	rec = e.do(http.MethodGet, "/api/financeiro/dados?mes=4&ano=2024", "", admin)
	assert.Equal(t, 0.0, decode(t, rec)["receita_total"])

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/financeiro/dados?mes=13&ano=2024", "", admin).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/financeiro/dados?mes=mar", "", admin).Code)
}

func TestPurchaseCreatesPayable(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)

	rec := e.do(http.MethodPost, "/api/compras", `{"item":"Tinta","fornecedor":"ACME","valor":"150,00","data":"2024-03-02"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Compra #1 - Tinta", body["conta"].(map[string]any)["descricao"])
	assert.Contains(t, body, "financial_entry")

	rec = e.do(http.MethodPut, "/api/compras/1", `{"observacao":"entregue"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "entregue", decode(t, rec)["compra"].(map[string]any)["observacao"])
}

func TestPayPayableTwice(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)

	rec := e.do(http.MethodPost, "/api/contas_pagar",
		`{"descricao":"Aluguel","valor":1200,"vencimento":"2024-03-10","categoria":"Fixas","forma_pagamento":"Boleto"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(http.MethodPost, "/api/contas_pagar/1/pagar", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pago", decode(t, rec)["conta"].(map[string]any)["status"])

	rec = e.do(http.MethodPost, "/api/contas_pagar/1/pagar", "", admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Conta já está paga", decode(t, rec)["error"])

	entries, err := e.store.Financial.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/contas_pagar/99/pagar", "", admin).Code)
}

func TestPayableStatusOnlyChangesThroughPayment(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)
	create := `{"descricao":"Aluguel","valor":1200,"vencimento":"2024-03-10","categoria":"Fixas","forma_pagamento":"Boleto"}`
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/contas_pagar", create, admin).Code)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/contas_pagar", create, admin).Code)

	rec := e.do(http.MethodPut, "/api/contas_pagar/2", `{"status":"Pago"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	pending, err := e.store.Payables.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.PayablePending, pending.Status)

	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/contas_pagar/1/pagar", "", admin).Code)
	rec = e.do(http.MethodPut, "/api/contas_pagar/1", `{"status":"Pendente"}`, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Conta já está paga", decode(t, rec)["error"])
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/contas_pagar/1/pagar", "", admin).Code)

	entries, err := e.store.Financial.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPayableValidationAndDelete(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)

	rec := e.do(http.MethodPost, "/api/contas_pagar", `{"descricao":"Luz"}`, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Campos obrigatórios faltando", body["error"])
	assert.Equal(t, []any{
		"Campo 'Valor' é obrigatório",
		"Campo 'Data de Vencimento' é obrigatório",
		"Campo 'Categoria' é obrigatório",
		"Campo 'Forma de Pagamento' é obrigatório",
	}, body["details"])

	rec = e.do(http.MethodPost, "/api/contas_pagar",
		`{"descricao":"Luz","valor":90,"vencimento":"2024-03-20","categoria":"Fixas","forma_pagamento":"PIX"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodPut, "/api/contas_pagar/1", `{"valor":95}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode(t, rec)["conta"].(map[string]any)["atualizado_por"])

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/api/contas_pagar/1", "", admin).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/api/contas_pagar/1", "", admin).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPut, "/api/contas_pagar/1", `{"valor":1}`, admin).Code)
}

func TestCloseMonthRollsDecemberOver(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)

	for _, body := range []string{
		`{"cliente":"A","vendedor":"V","material":"x","valor_total":800,"custo":300,"data":"2024-12-02","status":"Finalizada"}`,
		`{"cliente":"B","vendedor":"V","material":"x","valor_total":100,"data":"2024-12-20","status":"Em Produção"}`,
	} {
		require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/orders", body, admin).Code)
	}

	rec := e.do(http.MethodPost, "/api/encerrar_mes", `{"mes":12,"ano":2024}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	closing := decode(t, rec)["fechamento"].(map[string]any)
	assert.Equal(t, 800.0, closing["total_receitas"])
	assert.Equal(t, 1.0, closing["ordens_transferidas"])

	open, err := e.store.Orders.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", open.Date)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/encerrar_mes", `{"mes":12}`, admin).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/encerrar_mes", `{"mes":0,"ano":2024}`, admin).Code)
}

func TestTransferOrders(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/orders",
		`{"cliente":"A","vendedor":"V","material":"x","valor_total":100,"data":"2024-03-05"}`, admin).Code)

	rec := e.do(http.MethodPost, "/api/financeiro/transferir",
		`{"mes_origem":"3","ano_origem":"2024","mes_destino":"5","ano_destino":"2024"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "Transferidos 1 pedidos", body["message"])

	rec = e.do(http.MethodPost, "/api/financeiro/transferir", `{"mes_origem":"3"}`, admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Todos os campos de período são obrigatórios", decode(t, rec)["error"])
}

func TestPayments(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/financeiro/pagamentos", "", admin).Code)

	rec := e.do(http.MethodPost, "/api/financeiro/pagamentos", `{"data":"2024-03-05","cliente":"Ana","valor":200,"status":"Recebido"}`, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(http.MethodGet, "/api/financeiro/pagamentos?mes=3&ano=2024", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var payments []domain.FinancialEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
	assert.Len(t, payments, 1)

	rec = e.do(http.MethodPut, "/api/financeiro/pagamentos/55", `{"data":"2024-03-05","cliente":"Ana","valor":200,"status":"Recebido"}`, admin)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Pagamento não encontrado", decode(t, rec)["error"])
}

func TestBalanceteExport(t *testing.T) {
	e := newEnv(t)
	admin := e.session("admin", domain.RoleAdmin)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/orders",
		`{"cliente":"Ana","vendedor":"V","material":"x","valor_total":300,"data":"2024-03-05","status":"Finalizada"}`, admin).Code)

	rec := e.do(http.MethodGet, "/api/balancete/export?mes=3&ano=2024", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "admin", body["gerado_por"])
	assert.Equal(t, 300.0, body["totais"].(map[string]any)["saldo"])

	rec = e.do(http.MethodGet, "/api/balancete/export?mes=3&ano=2024&formato=csv", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "entrada,2024-03-05,Ordem #1 - Ana,300.00")

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodGet, "/api/balancete/export", "", admin).Code)
}

func postForm(e *env, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginPagesFlow(t *testing.T) {
	e := newEnv(t)
	_, err := e.auth.CreateUser(context.Background(), "ana", "segredo", domain.RoleAdmin)
	require.NoError(t, err)

	home := e.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusFound, home.Code)
	assert.Equal(t, "/login", home.Header().Get("Location"))

	page := e.do(http.MethodGet, "/login", "", nil)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `name="username"`)

	bad := postForm(e, url.Values{"username": {"ana"}, "password": {"errada"}})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.Contains(t, bad.Body.String(), "Usuário ou senha incorretos")

	ok := postForm(e, url.Values{"username": {"ana"}, "password": {"segredo"}})
	require.Equal(t, http.StatusFound, ok.Code)
	cookies := ok.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.True(t, cookie.HttpOnly)

	dash := e.do(http.MethodGet, "/", "", cookie)
	assert.Equal(t, http.StatusOK, dash.Code)
	assert.Contains(t, dash.Body.String(), "ana")

	out := e.do(http.MethodGet, "/logout", "", cookie)
	assert.Equal(t, http.StatusFound, out.Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/orders", "", cookie).Code)
}

func TestLoginIsRateLimited(t *testing.T) {
	e := newEnv(t, func(o *api.Options) {
		o.LoginRate = 0.001
		o.LoginBurst = 1
	})
	form := url.Values{"username": {"x"}, "password": {"y"}}

	assert.Equal(t, http.StatusUnauthorized, postForm(e, form).Code)
	assert.Equal(t, http.StatusTooManyRequests, postForm(e, form).Code)
}

func TestLoginLimitIgnoresForwardedHeaders(t *testing.T) {
	e := newEnv(t, func(o *api.Options) {
		o.LoginRate = 0.001
		o.LoginBurst = 1
	})
	form := url.Values{"username": {"x"}, "password": {"y"}}

	var codes []int
	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Real-IP", ip)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestLoginLimitPerForwardedClientBehindProxy(t *testing.T) {
	e := newEnv(t, func(o *api.Options) {
		o.LoginRate = 0.001
		o.LoginBurst = 1
		o.TrustProxy = true
	})
	form := url.Values{"username": {"x"}, "password": {"y"}}

	attempt := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		e.router.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusUnauthorized, attempt("10.0.0.1"))
	assert.Equal(t, http.StatusUnauthorized, attempt("10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, attempt("10.0.0.1"))
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/health", "", nil).Code)

	rec := e.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cubo_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
