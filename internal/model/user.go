package model

import "time"

// User represents an application user record as stored in the `users`
// table. Username and email are each unique across all rows; email is
// stored lowercase so lookups are case-insensitive. IsDeleted marks the
// account as deactivated without removing the row: soft-deleted users
// keep their data but can no longer authenticate.
//
// Fields:
//  ID           – primary key identifier of the user.
//  GUID         – stable external identifier (opaque, never reused).
//  Username     – unique login name.
//  Email        – unique email address, lowercase.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  LastLogin    – timestamp of last login (nil until first login).
//  IsDeleted    – soft-delete flag.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	GUID         string     // users.guid
	Username     string     // users.username
	Email        string     // users.email
	Name         string     // users.name
	PasswordHash string     // users.password_hash
	LastLogin    *time.Time // users.last_login (nullable)
	IsDeleted    bool       // users.is_deleted
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}
