// Package models defines the persisted record types of the tutoring client.
package models

import "time"

// Role classifies an account.
type Role string

const (
	RoleStudent Role = "student"
	RoleCoach   Role = "coach"
)

// User is an identity and credential record.
//
// ID is assigned at creation and never reused. Username is unique across the
// roster (case-sensitive). PasswordHash holds a hex SHA-256 digest of the
// current password; cleartext is never stored. LastLogin carries the moment
// of the most recent login, or nil for an account that never logged in.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"passwordHash"`
	Role         Role       `json:"role"`
	IsFirstLogin bool       `json:"isFirstLogin"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	LoginCount   int        `json:"loginCount,omitempty"`
}
