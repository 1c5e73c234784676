package model

import "time"

// Role values stored in users.role.  New accounts default to RoleCustomer;
// RoleAdmin is granted only at seed time or through the gated bootstrap
// endpoint.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User mirrors a row of the `users` table.  Username and email are
// globally unique (enforced by UNIQUE constraints in the schema).  The
// password hash never leaves the repository layer; handlers respond with
// the PublicUser projection instead.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FullName     string    // users.full_name
	Phone        string    // users.phone
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// PublicUser is the JSON projection of a user returned by the API.  It
// deliberately omits the password hash and timestamps.
type PublicUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Role     string `json:"role,omitempty"`
}

// Public returns the API projection of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     u.Role,
	}
}
