package form

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/repository"
)

// Registration is the sign-up form.
type Registration struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ParseRegistration reads a Registration from submitted form values.
func ParseRegistration(r *http.Request) *Registration {
	return &Registration{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
}

// Validate checks field constraints and username/email uniqueness.
func (f *Registration) Validate(ctx context.Context, users UserDirectory) (Errors, error) {
	errs := Errors{}

	usernameLen := utf8.RuneCountInString(f.Username)
	switch {
	case f.Username == "":
		errs.Add("username", "Username is required")
	case usernameLen < 2 || usernameLen > 15:
		errs.Add("username", "Username must be between 2 and 15 characters")
	}

	switch {
	case f.Email == "":
		errs.Add("email", "Email is required")
	case !validEmail(f.Email):
		errs.Add("email", "Enter a valid email address")
	}

	if f.Password == "" {
		errs.Add("password", "Password is required")
	}

	switch {
	case f.ConfirmPassword == "":
		errs.Add("confirm_password", "Please confirm your password")
	case f.ConfirmPassword != f.Password:
		errs.Add("confirm_password", "Passwords must match")
	}

	if !errs.Has("username") {
		taken, err := usernameTaken(ctx, users, f.Username, "")
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", "The username is already taken")
		}
	}

	if !errs.Has("email") {
		taken, err := emailTaken(ctx, users, f.Email, "")
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", "The email is already taken")
		}
	}

	return errs, nil
}

// Login is the sign-in form. It performs no persistence checks; credential
// verification happens in the account service so that unknown emails and
// wrong passwords are indistinguishable.
type Login struct {
	Email    string
	Password string
	Remember bool
}

// ParseLogin reads a Login from submitted form values.
func ParseLogin(r *http.Request) *Login {
	return &Login{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
		Remember: r.PostFormValue("remember") != "",
	}
}

// Validate checks the static field constraints.
func (f *Login) Validate() Errors {
	errs := Errors{}

	switch {
	case f.Email == "":
		errs.Add("email", "Email is required")
	case !validEmail(f.Email):
		errs.Add("email", "Enter a valid email address")
	}

	if f.Password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

// UpdateAccount is the profile edit form. The user being edited is passed
// explicitly so their current username and email are exempt from their own
// uniqueness checks.
type UpdateAccount struct {
	Username string
	Email    string
}

// ParseUpdateAccount reads an UpdateAccount from submitted form values.
func ParseUpdateAccount(r *http.Request) *UpdateAccount {
	return &UpdateAccount{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}
}

// Validate checks field constraints and uniqueness, exempting current's
// own values.
func (f *UpdateAccount) Validate(ctx context.Context, users UserDirectory, current *model.User) (Errors, error) {
	errs := Errors{}

	usernameLen := utf8.RuneCountInString(f.Username)
	switch {
	case f.Username == "":
		errs.Add("username", "Username is required")
	case usernameLen < 2 || usernameLen > 15:
		errs.Add("username", "Username must be between 2 and 15 characters")
	}

	switch {
	case f.Email == "":
		errs.Add("email", "Email is required")
	case !validEmail(f.Email):
		errs.Add("email", "Enter a valid email address")
	}

	if !errs.Has("username") && f.Username != current.Username {
		taken, err := usernameTaken(ctx, users, f.Username, current.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("username", "The username is already taken")
		}
	}

	if !errs.Has("email") && f.Email != current.Email {
		taken, err := emailTaken(ctx, users, f.Email, current.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", "The email is already taken")
		}
	}

	return errs, nil
}

func usernameTaken(ctx context.Context, users UserDirectory, username, exemptID string) (bool, error) {
	user, err := users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.ID != exemptID, nil
}

func emailTaken(ctx context.Context, users UserDirectory, email, exemptID string) (bool, error) {
	user, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.ID != exemptID, nil
}
