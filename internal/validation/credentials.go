// Package validation holds input validation rules for user-supplied
// credentials.
package validation

import (
	"fmt"

	"dilse/internal/models"
)

const (
	MaxNicknameLen = 30
	MaxPasswordLen = 128
)

// ValidateNickname checks a trimmed nickname against the signup rules. Any
// non-empty nickname is welcome; uniqueness is enforced by the database and
// the length cap just keeps the bcrypt input and UI rendering bounded.
func ValidateNickname(nickname string) error {
	if len(nickname) > MaxNicknameLen {
		return models.NewValidationError(fmt.Sprintf("Nickname too long (max %d characters)", MaxNicknameLen))
	}
	return nil
}

// ValidatePassword checks a password against the signup rules. Any non-empty
// password is accepted; bcrypt silently truncates past 72 bytes so the cap
// rejects input that would not be fully hashed anyway.
func ValidatePassword(password string) error {
	if len(password) > MaxPasswordLen {
		return models.NewValidationError(fmt.Sprintf("Password must not exceed %d characters", MaxPasswordLen))
	}
	return nil
}
