// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an anonymous identity: a unique nickname plus a password hash.
// Only the opaque id and the nickname are ever serialized; the password hash
// never leaves the server. Users are immutable after signup.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Nickname  string    `gorm:"uniqueIndex;not null" json:"nickname"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
