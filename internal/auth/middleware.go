package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"cubograf/m/domain"
)

type ctxKey struct{}

func WithSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session attached by Load, if there is one.
func FromContext(ctx context.Context) (domain.Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(domain.Session)
	return s, ok
}

// Load attaches the session behind the request cookie to the context. It
// never rejects a request; the Require middlewares do.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		s, err := m.Resolve(r.Context(), cookie.Value)
		if err != nil {
			if err != ErrNoSession {
				hlog.FromRequest(r).Error().Err(err).Msg("resolve session")
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

// RequireUser rejects requests without a session with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session is missing or not an admin with 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok || !s.IsAdmin() {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage sends visitors without a session to the login page.
func RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
