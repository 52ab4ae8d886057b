package models

import "time"

// PasswordReset is a single-use reset key. Rows are never deleted: a consumed
// key keeps is_used=true forever, an expired one simply fails verification.
type PasswordReset struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ResetKey  string    `json:"-"` // Never expose in JSON
	IsUsed    bool      `json:"is_used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetVerify struct {
	Email       string `json:"email" binding:"required,email"`
	ResetKey    string `json:"reset_key" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}
