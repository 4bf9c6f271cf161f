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

// Restaurant is the add/edit restaurant form. On edit, the restaurant being
// edited is passed to Validate so its own name is exempt from the
// uniqueness check.
type Restaurant struct {
	Name string
	Type string
}

// ParseRestaurant reads a Restaurant from submitted form values.
func ParseRestaurant(r *http.Request) *Restaurant {
	return &Restaurant{
		Name: strings.TrimSpace(r.PostFormValue("name")),
		Type: r.PostFormValue("type"),
	}
}

// RestaurantType returns the validated type. Only meaningful after a
// Validate call that returned no errors.
func (f *Restaurant) RestaurantType() model.RestaurantType {
	return model.RestaurantType(f.Type)
}

// Validate checks field constraints and name uniqueness. current may be nil
// (creation) or the restaurant being edited.
func (f *Restaurant) Validate(ctx context.Context, restaurants RestaurantDirectory, current *model.Restaurant) (Errors, error) {
	errs := Errors{}

	nameLen := utf8.RuneCountInString(f.Name)
	switch {
	case f.Name == "":
		errs.Add("name", "Name is required")
	case nameLen < 4 || nameLen > 17:
		errs.Add("name", "Name must be between 4 and 17 characters")
	}

	if !model.RestaurantType(f.Type).IsValid() {
		errs.Add("type", "Choose a restaurant type")
	}

	exemptID := ""
	if current != nil {
		exemptID = current.ID
	}

	if !errs.Has("name") && (current == nil || f.Name != current.Name) {
		existing, err := restaurants.GetRestaurantByName(ctx, f.Name)
		if err != nil && !errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != exemptID {
			errs.Add("name", "The name is already taken, please choose another one")
		}
	}

	return errs, nil
}
