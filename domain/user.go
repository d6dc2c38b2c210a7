package domain

const (
	RoleAdmin  = "admin"
	RoleSeller = "vendedor"
)

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	CreatedAt    string `json:"created_at,omitempty" db:"created_at"`
}

// Session is the server side state behind a login cookie.
type Session struct {
	Token     string `db:"token"`
	UserID    int64  `db:"user_id"`
	Username  string `db:"username"`
	Role      string `db:"role"`
	CreatedAt string `db:"created_at"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}
