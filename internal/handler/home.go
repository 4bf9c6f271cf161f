package handler

import (
	"errors"
	"net/http"

	"github.com/tableside/tableside/internal/form"
	"github.com/tableside/tableside/internal/service"
)

// HomeHandler serves the public browse page.
type HomeHandler struct {
	render      *Renderer
	restaurants *service.RestaurantService
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(render *Renderer, restaurants *service.RestaurantService) *HomeHandler {
	return &HomeHandler{render: render, restaurants: restaurants}
}

// homePage is the template data for the browse page.
type homePage struct {
	Result *service.BrowseResult
	Filter *form.Filter
	Errors form.Errors
}

// Home lists every restaurant grouped by type.
//
// GET /
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	result, err := h.restaurants.Browse(r.Context(), "")
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "index.html", "", homePage{
		Result: result,
		Filter: &form.Filter{},
		Errors: form.Errors{},
	})
}

// Filter narrows the browse page by a name fragment. A search matching
// nothing sends the visitor back to the full listing with a notice.
//
// POST /
func (h *HomeHandler) Filter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	f := form.ParseFilter(r)
	if errs := f.Validate(); errs.Any() {
		result, err := h.restaurants.Browse(r.Context(), "")
		if err != nil {
			h.render.ServerErrorPage(w, r, err)
			return
		}
		h.render.Render(w, r, http.StatusOK, "index.html", "", homePage{
			Result: result,
			Filter: f,
			Errors: errs,
		})
		return
	}

	result, err := h.restaurants.Browse(r.Context(), f.Name)
	if err != nil {
		if errors.Is(err, service.ErrNoMatches) {
			h.render.Flash(r, "No restaurant with that name was found", "info")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "index.html", "", homePage{
		Result: result,
		Filter: f,
		Errors: form.Errors{},
	})
}
