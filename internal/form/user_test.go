package form

import (
	"context"
	"testing"

	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/repository"
)

// stubDirectory serves canned users and restaurants for uniqueness checks.
type stubDirectory struct {
	users       []*model.User
	restaurants []*model.Restaurant
}

func (s *stubDirectory) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubDirectory) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubDirectory) GetRestaurantByName(_ context.Context, name string) (*model.Restaurant, error) {
	for _, r := range s.restaurants {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, repository.ErrRestaurantNotFound
}

func TestRegistration_Validate(t *testing.T) {
	ctx := context.Background()
	dir := &stubDirectory{
		users: []*model.User{
			{ID: "u1", Username: "existing", Email: "taken@example.com"},
		},
	}

	tests := []struct {
		name       string
		form       Registration
		wantFields []string
	}{
		{
			name: "valid",
			form: Registration{Username: "newuser", Email: "new@example.com", Password: "secret", ConfirmPassword: "secret"},
		},
		{
			name:       "missing everything",
			form:       Registration{},
			wantFields: []string{"username", "email", "password", "confirm_password"},
		},
		{
			name:       "username too short",
			form:       Registration{Username: "a", Email: "new@example.com", Password: "secret", ConfirmPassword: "secret"},
			wantFields: []string{"username"},
		},
		{
			name:       "username too long",
			form:       Registration{Username: "abcdefghijklmnop", Email: "new@example.com", Password: "secret", ConfirmPassword: "secret"},
			wantFields: []string{"username"},
		},
		{
			// 15 characters but 18 bytes; the limit is on characters.
			name: "multibyte username counts characters",
			form: Registration{Username: "José María Peña", Email: "new@example.com", Password: "secret", ConfirmPassword: "secret"},
		},
		{
			name:       "invalid email",
			form:       Registration{Username: "newuser", Email: "not-an-email", Password: "secret", ConfirmPassword: "secret"},
			wantFields: []string{"email"},
		},
		{
			name:       "password mismatch",
			form:       Registration{Username: "newuser", Email: "new@example.com", Password: "secret", ConfirmPassword: "other"},
			wantFields: []string{"confirm_password"},
		},
		{
			name:       "username taken",
			form:       Registration{Username: "existing", Email: "new@example.com", Password: "secret", ConfirmPassword: "secret"},
			wantFields: []string{"username"},
		},
		{
			name:       "email taken",
			form:       Registration{Username: "newuser", Email: "taken@example.com", Password: "secret", ConfirmPassword: "secret"},
			wantFields: []string{"email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := tt.form.Validate(ctx, dir)
			if err != nil {
				t.Fatalf("Validate returned error: %v", err)
			}
			assertFields(t, errs, tt.wantFields)
		})
	}
}

func TestUpdateAccount_Validate_ExemptsOwnValues(t *testing.T) {
	ctx := context.Background()
	current := &model.User{ID: "u1", Username: "myself", Email: "me@example.com"}
	dir := &stubDirectory{
		users: []*model.User{
			current,
			{ID: "u2", Username: "other", Email: "other@example.com"},
		},
	}

	// Resubmitting unchanged values must pass
	unchanged := UpdateAccount{Username: "myself", Email: "me@example.com"}
	errs, err := unchanged.Validate(ctx, dir, current)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if errs.Any() {
		t.Errorf("unchanged values should validate, got %v", errs)
	}

	// Taking another user's username must fail
	conflict := UpdateAccount{Username: "other", Email: "me@example.com"}
	errs, err = conflict.Validate(ctx, dir, current)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !errs.Has("username") {
		t.Error("expected username conflict error")
	}

	// Taking another user's email must fail
	conflict = UpdateAccount{Username: "myself", Email: "other@example.com"}
	errs, err = conflict.Validate(ctx, dir, current)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if !errs.Has("email") {
		t.Error("expected email conflict error")
	}
}

func TestLogin_Validate(t *testing.T) {
	tests := []struct {
		name       string
		form       Login
		wantFields []string
	}{
		{name: "valid", form: Login{Email: "me@example.com", Password: "secret"}},
		{name: "missing email", form: Login{Password: "secret"}, wantFields: []string{"email"}},
		{name: "bad email", form: Login{Email: "nope", Password: "secret"}, wantFields: []string{"email"}},
		{name: "missing password", form: Login{Email: "me@example.com"}, wantFields: []string{"password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFields(t, tt.form.Validate(), tt.wantFields)
		})
	}
}

func assertFields(t *testing.T, errs Errors, want []string) {
	t.Helper()

	if len(errs) != len(want) {
		t.Fatalf("expected errors on %v, got %v", want, errs)
	}
	for _, field := range want {
		if !errs.Has(field) {
			t.Errorf("expected error on field %q, got %v", field, errs)
		}
	}
}
