package domain

import "time"

// User roles. Admins moderate submissions and manage users.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an authenticated actor. PasswordHash never leaves the
// infrastructure layer in API responses.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	LastLogin    *time.Time

	// BusinessCount is a read-side annotation for the admin user list.
	BusinessCount int
}
