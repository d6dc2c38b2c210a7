// Package auth handles users, login sessions and the cookie that carries them.
//
// A session is a row in the sessions table keyed by a random token. The
// cookie holds that token inside an HS256 signed JWT so tampered or expired
// cookies are rejected before the store is consulted.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"cubograf/m/domain"
	"cubograf/m/internal/store"
)

// CookieName is the name of the session cookie.
const CookieName = "cubo_session"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no valid session")
	ErrInvalidRole        = errors.New("role must be admin or vendedor")
)

type Manager struct {
	users    store.UserRepository
	sessions store.SessionRepository
	secret   []byte
	ttl      time.Duration
	secure   bool
	now      func() time.Time
}

func NewManager(users store.UserRepository, sessions store.SessionRepository, secret string, ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		secure:   secureCookie,
		now:      time.Now,
	}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hashed), nil
}

// CreateUser stores a new user with a hashed password.
func (m *Manager) CreateUser(ctx context.Context, username, password, role string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, errors.New("username and password are required")
	}
	if role != domain.RoleAdmin && role != domain.RoleSeller {
		return domain.User{}, ErrInvalidRole
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         role,
		CreatedAt:    m.now().UTC().Format(time.RFC3339),
	}
	if err := m.users.Create(ctx, &u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Login checks the credentials and opens a session. It returns the session
// and the signed value to put in the cookie.
func (m *Manager) Login(ctx context.Context, username, password string) (domain.Session, string, error) {
	user, err := m.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return domain.Session{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Session{}, "", ErrInvalidCredentials
	}

	now := m.now().UTC()
	s := domain.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now.Format(time.RFC3339),
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return domain.Session{}, "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.Token,
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return domain.Session{}, "", errors.Wrap(err, "sign session")
	}
	return s, signed, nil
}

func (m *Manager) parse(signed string) (*claims, error) {
	token, err := jwt.ParseWithClaims(signed, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}
	c, ok := token.Claims.(*claims)
	if !ok || c.ID == "" {
		return nil, ErrNoSession
	}
	return c, nil
}

// Resolve returns the live session behind a signed cookie value.
func (m *Manager) Resolve(ctx context.Context, signed string) (domain.Session, error) {
	c, err := m.parse(signed)
	if err != nil {
		return domain.Session{}, err
	}
	s, err := m.sessions.Get(ctx, c.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrNoSession
	}
	return s, err
}

// Logout deletes the session behind the cookie value, if any.
func (m *Manager) Logout(ctx context.Context, signed string) error {
	c, err := m.parse(signed)
	if err != nil {
		return nil
	}
	return m.sessions.Delete(ctx, c.ID)
}

// Purge deletes sessions older than the session lifetime.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	cutoff := m.now().UTC().Add(-m.ttl).Format(time.RFC3339)
	return m.sessions.DeleteBefore(ctx, cutoff)
}

func (m *Manager) SetCookie(w http.ResponseWriter, signed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
