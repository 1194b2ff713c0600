package model

import "time"

// RoleOwner is the role claim carried by every access token. Each account
// is its own tenant.
const RoleOwner = "OWNER"

// User is an account of the bookings office. Every owner-scoped row
// (schedules, magazines, bookings, ...) references users.id.
//
// Fields:
//
//	ID           – primary key identifier.
//	Email        – unique, stored lower-cased.
//	PasswordHash – bcrypt hash.
//	Role         – always OWNER for now.
//	IsActive     – inactive accounts cannot log in.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
