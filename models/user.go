package models

import "time"

// User roles
const (
	RoleClientAdmin = "client_admin"
	RoleSuperAdmin  = "super_admin"
)

// Actor is the authenticated identity passed into mutating operations. The
// email is snapshotted into audit entries because user records can change.
type Actor struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// User represents an admin panel account. The password hash never leaves
// the server.
type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
