package models

import "time"

// RoleAdmin is the backend role that unlocks the admin pages. Any other
// role is treated as an employee.
const RoleAdmin = "admin"

// Session is the server-side record behind the session cookie. It holds
// the backend access token and the role returned at login.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsAdmin reports whether the session belongs to an administrator
func (s *Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// HomePath is where a freshly logged-in user lands
func (s *Session) HomePath() string {
	return HomePathForRole(s.Role)
}

// HomePathForRole maps a backend role to its dashboard
func HomePathForRole(role string) string {
	if role == RoleAdmin {
		return "/admin"
	}
	return "/employee"
}
