package form

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tableside/tableside/internal/model"
)

// pricePattern accepts plain decimal numbers only. ParseFloat alone is too
// permissive here: it accepts NaN, Inf and hex-float syntax, none of which
// belong in a stored price.
var pricePattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// MenuItem is the add/edit menu item form.
type MenuItem struct {
	Name        string
	Course      string
	Description string
	Price       string
}

// ParseMenuItem reads a MenuItem from submitted form values.
func ParseMenuItem(r *http.Request) *MenuItem {
	return &MenuItem{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Course:      r.PostFormValue("course"),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Price:       strings.TrimSpace(r.PostFormValue("price")),
	}
}

// ItemCourse returns the validated course. Only meaningful after a
// Validate call that returned no errors.
func (f *MenuItem) ItemCourse() model.Course {
	return model.Course(f.Course)
}

// NormalizedPrice returns the price as a fixed two-decimal string.
// Only meaningful after a Validate call that returned no errors.
func (f *MenuItem) NormalizedPrice() string {
	value, err := strconv.ParseFloat(f.Price, 64)
	if err != nil {
		return model.DefaultPrice
	}
	return fmt.Sprintf("%.2f", value)
}

// Validate checks the static field constraints. Price must be a plain
// decimal number >= 0.
func (f *MenuItem) Validate() Errors {
	errs := Errors{}

	nameLen := utf8.RuneCountInString(f.Name)
	switch {
	case f.Name == "":
		errs.Add("name", "Name is required")
	case nameLen < 4 || nameLen > 20:
		errs.Add("name", "Name must be between 4 and 20 characters")
	}

	if !model.Course(f.Course).IsValid() {
		errs.Add("course", "Choose a course")
	}

	switch {
	case f.Description == "":
		errs.Add("description", "Description is required")
	case utf8.RuneCountInString(f.Description) < 4:
		errs.Add("description", "Description must be at least 4 characters")
	}

	if f.Price == "" {
		errs.Add("price", "Price is required")
	} else if !pricePattern.MatchString(f.Price) {
		errs.Add("price", "Enter a valid price")
	} else if value, err := strconv.ParseFloat(f.Price, 64); err != nil {
		errs.Add("price", "Enter a valid price")
	} else if value < 0 {
		errs.Add("price", "The price must be 0 or above")
	}

	return errs
}
