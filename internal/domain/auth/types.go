package auth

// Package auth contains domain-level types for actors, sessions and the ownership guard.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleGuest:
		return true
	default:
		return false
	}
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (token subject)
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Actor is the verified caller of an alert operation.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the actor bypasses ownership checks.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest returns true if the session role is guest.
func (s Session) IsGuest() bool { return s.Role == RoleGuest }

// Actor returns the caller represented by the session.
func (s Session) Actor() Actor { return Actor{ID: s.UserID, Role: s.Role} }
