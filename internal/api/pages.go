package api

import (
	"embed"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"

	"cubograf/m/internal/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageData struct {
	Error    string
	Username string
	IsAdmin  bool
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.pages.ExecuteTemplate(w, name, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", name).Msg("render page")
	}
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	s, _ := auth.FromContext(r.Context())
	h.render(w, r, http.StatusOK, "index.html", pageData{Username: s.Username, IsAdmin: s.IsAdmin()})
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "login.html", pageData{})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.html", pageData{Error: "Formulário inválido"})
		return
	}
	username := r.PostForm.Get("username")
	log := hlog.FromRequest(r).With().Str("username", username).Logger()

	_, signed, err := h.auth.Login(r.Context(), username, r.PostForm.Get("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Warn().Msg("login rejected")
		h.render(w, r, http.StatusUnauthorized, "login.html", pageData{Error: "Usuário ou senha incorretos"})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		h.render(w, r, http.StatusInternalServerError, "login.html", pageData{Error: "Erro ao processar login"})
		return
	}
	log.Info().Msg("login")
	h.auth.SetCookie(w, signed)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("logout")
		}
	}
	h.auth.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
