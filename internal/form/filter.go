package form

import (
	"net/http"
	"strings"
)

// Filter is the restaurant name search form on the browse page.
type Filter struct {
	Name string
}

// ParseFilter reads a Filter from submitted form values.
func ParseFilter(r *http.Request) *Filter {
	return &Filter{Name: strings.TrimSpace(r.PostFormValue("name"))}
}

// Validate requires a non-empty search term. An empty submission falls
// through to the unfiltered listing.
func (f *Filter) Validate() Errors {
	errs := Errors{}
	if f.Name == "" {
		errs.Add("name", "Enter a restaurant name to search for")
	}
	return errs
}
