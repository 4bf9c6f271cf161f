// Package form provides per-use-case input validation.
// Each schema validates submitted values and either yields a clean payload
// or a set of field-scoped error messages for re-rendering the form.
package form

import (
	"context"
	"regexp"

	"github.com/tableside/tableside/internal/model"
)

// Errors maps field names to user-facing validation messages.
type Errors map[string]string

// Add records a message for a field, keeping the first message per field.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Has reports whether a field already failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for a field, or the empty string.
func (e Errors) Get(field string) string {
	return e[field]
}

// Any reports whether any field failed validation.
func (e Errors) Any() bool {
	return len(e) > 0
}

// UserDirectory is the narrow persistence view used for uniqueness checks
// on registration and profile edits.
type UserDirectory interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// RestaurantDirectory is the narrow persistence view used for uniqueness
// checks on restaurant names.
type RestaurantDirectory interface {
	GetRestaurantByName(ctx context.Context, name string) (*model.Restaurant, error)
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validEmail reports whether the address has a plausible mailbox@domain shape.
func validEmail(email string) bool {
	return emailRegex.MatchString(email)
}
