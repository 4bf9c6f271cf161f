// Package model defines domain entities for the application.
package model

import "time"

// DefaultUserImage is the placeholder profile picture filename.
const DefaultUserImage = "user.png"

// User represents a registered account that can own restaurants.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ImageFile    string    `json:"image_file"`
	CreatedAt    time.Time `json:"created_at"`
}
