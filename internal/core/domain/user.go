package domain

import (
	"strings"
	"time"
)

// Role is the authorization level attached to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is one of the enumerated roles.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models an account managed by the API.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DeletedUser is the projection returned after a delete.
type DeletedUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Snapshot projects u to the fields exposed after deletion.
func (u *User) Snapshot() *DeletedUser {
	return &DeletedUser{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *Role
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil
}

// Normalized returns a copy with trimmed name and canonical email.
func (p UserPatch) Normalized() UserPatch {
	out := p
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		out.Name = &name
	}
	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		out.Email = &email
	}
	return out
}

// Apply merges the patch into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identity is the verified claim set attached to an authenticated request.
type Identity struct {
	UserID    int64
	Role      Role
	TokenID   string
	ExpiresAt time.Time
}
