package api

import (
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"cubograf/m/domain"
	"cubograf/m/internal/auth"
	"cubograf/m/internal/metrics"
	"cubograf/m/internal/service"
	"cubograf/m/internal/store"
	"cubograf/m/internal/validation"
)

// Options tunes the HTTP layer.
type Options struct {
	CORSOrigins []string
	LoginRate   float64
	LoginBurst  int
	// TrustProxy takes the client address from X-Real-IP/X-Forwarded-For.
	// Only set it behind a proxy that overwrites those headers.
	TrustProxy bool
}

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	svc     *service.Service
	auth    *auth.Manager
	metrics *metrics.Metrics
	log     zerolog.Logger
	limiter *loginLimiter
	pages   *template.Template
	origins []string
	proxied bool
}

// New constructs a Handler.
func New(svc *service.Service, mgr *auth.Manager, m *metrics.Metrics, log zerolog.Logger, opts Options) *Handler {
	return &Handler{
		svc:     svc,
		auth:    mgr,
		metrics: m,
		log:     log.With().Str("component", "api").Logger(),
		limiter: newLoginLimiter(opts.LoginRate, opts.LoginBurst),
		pages:   template.Must(template.ParseFS(templateFS, "templates/*.html")),
		origins: opts.CORSOrigins,
		proxied: opts.TrustProxy,
	}
}

// Router wires up the pages and the JSON API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if h.proxied {
		r.Use(middleware.RealIP)
	}
	r.Use(hlog.NewHandler(h.log))
	r.Use(requestIDLogger)
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(h.metrics.Instrument)
	r.Use(cors.Handler(h.corsOptions()))
	r.Use(h.auth.Load)

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Get("/login", h.loginPage)
	r.With(h.limiter.Handler).Post("/login", h.login)
	r.Get("/logout", h.logout)
	r.With(auth.RequirePage).Get("/", h.index)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusNotFound, "Rota não encontrada")
		})

		r.Get("/orders", h.listOrders)
		r.Post("/orders", h.createOrder)
		r.Put("/orders/{id}", h.updateOrder)
		r.Get("/dashboard/stats", h.dashboardStats)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Route("/compras", func(r chi.Router) {
				r.Get("/", h.listPurchases)
				r.Post("/", h.createPurchase)
				r.Put("/{id}", h.updatePurchase)
			})

			r.Route("/contas_pagar", func(r chi.Router) {
				r.Get("/", h.listPayables)
				r.Post("/", h.createPayable)
				r.Put("/{id}", h.updatePayable)
				r.Delete("/{id}", h.deletePayable)
				r.Post("/{id}/pagar", h.payPayable)
			})

			r.Route("/financeiro", func(r chi.Router) {
				r.Get("/dados", h.financialSummary)
				r.Post("/transferir", h.transferOrders)
				r.Get("/pagamentos", h.listPayments)
				r.Post("/pagamentos", h.createPayment)
				r.Put("/pagamentos/{id}", h.updatePayment)
			})

			r.Post("/encerrar_mes", h.closeMonth)
			r.Get("/balancete/export", h.exportBalancete)
		})
	})

	return r
}

func (h *Handler) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	for _, origin := range h.origins {
		if origin == "*" {
			// Browsers refuse credentials with a wildcard origin.
			opts.AllowCredentials = false
		}
	}
	return opts
}

// requestIDLogger adds the chi request id to the request logger.
func requestIDLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			log := zerolog.Ctx(r.Context())
			log.UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("request_id", id)
			})
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func currentUser(r *http.Request) string {
	s, _ := auth.FromContext(r.Context())
	return s.Username
}

// Helpers

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

var errEmptyBody = errors.New("empty request body")

func decodeJSON(r *http.Request, dest interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dest)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string, details ...string) {
	respondJSON(w, status, errorBody{Error: message, Details: details})
}

func respondBadJSON(w http.ResponseWriter, err error) {
	detail := err.Error()
	if errors.Is(err, errEmptyBody) {
		detail = "Nenhum dado recebido"
	}
	respondError(w, http.StatusBadRequest, "Dados inválidos", detail)
}

// failure holds the messages a handler shows for the expected error kinds.
type failure struct {
	invalid  string
	notFound string
}

var defaultFailure = failure{invalid: "Dados inválidos", notFound: "Registro não encontrado"}

// respondServiceError maps service and store errors to HTTP replies.
// Unexpected errors are logged and their text returned in details.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, f failure) {
	if f.invalid == "" {
		f.invalid = defaultFailure.invalid
	}
	if f.notFound == "" {
		f.notFound = defaultFailure.notFound
	}
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		respondError(w, http.StatusBadRequest, f.invalid, verrs...)
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, f.notFound)
	case errors.Is(err, service.ErrAlreadyPaid):
		respondError(w, http.StatusBadRequest, "Conta já está paga")
	case errors.Is(err, domain.ErrInvalidMonth):
		respondError(w, http.StatusBadRequest, "Parâmetros inválidos", err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "Erro ao processar dados", err.Error())
	}
}
