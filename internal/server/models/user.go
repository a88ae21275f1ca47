package models

import "time"

// User is an account identified by its normalized email. ResetToken is only
// present while a password recovery request is pending.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	ResetToken   *string
	CreatedAt    time.Time
}
