package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tableside/tableside/internal/form"
	"github.com/tableside/tableside/internal/imagestore"
	"github.com/tableside/tableside/internal/middleware"
	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/repository"
	"github.com/tableside/tableside/internal/service"
)

// RestaurantHandler serves restaurant creation, editing and deletion.
type RestaurantHandler struct {
	render      *Renderer
	restaurants *service.RestaurantService
	images      *imagestore.Store
	directory   form.RestaurantDirectory
	maxUpload   int64
}

// NewRestaurantHandler creates a new RestaurantHandler.
func NewRestaurantHandler(render *Renderer, restaurants *service.RestaurantService, images *imagestore.Store, repo *repository.Repository, maxUpload int64) *RestaurantHandler {
	return &RestaurantHandler{
		render:      render,
		restaurants: restaurants,
		images:      images,
		directory:   repo,
		maxUpload:   maxUpload,
	}
}

// restaurantPage is the template data for the add/edit restaurant forms.
type restaurantPage struct {
	Form       *form.Restaurant
	Errors     form.Errors
	Types      []model.RestaurantType
	Restaurant *model.Restaurant
}

// AddRestaurantForm shows the restaurant creation form.
//
// GET /add_restaurant
func (h *RestaurantHandler) AddRestaurantForm(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, http.StatusOK, "add_restaurant.html", " - New Restaurant", restaurantPage{
		Form:   &form.Restaurant{},
		Errors: form.Errors{},
		Types:  model.RestaurantTypes,
	})
}

// AddRestaurant creates a restaurant owned by the acting user.
//
// POST /add_restaurant
func (h *RestaurantHandler) AddRestaurant(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	imageFile, fieldError, err := saveUpload(r, h.images, imagestore.KindRestaurant, h.maxUpload)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	f := form.ParseRestaurant(r)
	errs, err := f.Validate(r.Context(), h.directory, nil)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}
	if fieldError != "" {
		errs.Add("picture", fieldError)
	}
	if errs.Any() {
		discardUpload(h.images, imagestore.KindRestaurant, imageFile)
		h.render.Render(w, r, http.StatusOK, "add_restaurant.html", " - New Restaurant", restaurantPage{
			Form:   f,
			Errors: errs,
			Types:  model.RestaurantTypes,
		})
		return
	}

	restaurant, err := h.restaurants.CreateRestaurant(r.Context(), user, service.CreateRestaurantInput{
		Name:      f.Name,
		Type:      f.RestaurantType(),
		ImageFile: imageFile,
	})
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNameExists) {
			discardUpload(h.images, imagestore.KindRestaurant, imageFile)
			errs.Add("name", "The name is already taken, please choose another one")
			h.render.Render(w, r, http.StatusOK, "add_restaurant.html", " - New Restaurant", restaurantPage{
				Form:   f,
				Errors: errs,
				Types:  model.RestaurantTypes,
			})
			return
		}
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Flash(r, "Your restaurant has been created", "success")
	http.Redirect(w, r, "/"+restaurant.ID+"/menu", http.StatusFound)
}

// EditRestaurantForm shows the edit form pre-filled with the current values.
// Non-owners are sent back to the menu with a notice.
//
// GET /{restaurantID}/edit_restaurant
func (h *RestaurantHandler) EditRestaurantForm(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := h.ownedRestaurant(w, r)
	if !ok {
		return
	}

	h.render.Render(w, r, http.StatusOK, "edit_restaurant.html", " - Edit Restaurant", restaurantPage{
		Form:       &form.Restaurant{Name: restaurant.Name, Type: string(restaurant.Type)},
		Errors:     form.Errors{},
		Types:      model.RestaurantTypes,
		Restaurant: restaurant,
	})
}

// EditRestaurant applies a restaurant edit. The restaurant's current name
// passes its own uniqueness check unchanged.
//
// POST /{restaurantID}/edit_restaurant
func (h *RestaurantHandler) EditRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := h.ownedRestaurant(w, r)
	if !ok {
		return
	}

	imageFile, fieldError, err := saveUpload(r, h.images, imagestore.KindRestaurant, h.maxUpload)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	f := form.ParseRestaurant(r)
	errs, err := f.Validate(r.Context(), h.directory, restaurant)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}
	if fieldError != "" {
		errs.Add("picture", fieldError)
	}
	if errs.Any() {
		discardUpload(h.images, imagestore.KindRestaurant, imageFile)
		h.render.Render(w, r, http.StatusOK, "edit_restaurant.html", " - Edit Restaurant", restaurantPage{
			Form:       f,
			Errors:     errs,
			Types:      model.RestaurantTypes,
			Restaurant: restaurant,
		})
		return
	}

	if err := h.restaurants.UpdateRestaurant(r.Context(), restaurant, service.UpdateRestaurantInput{
		Name:      f.Name,
		Type:      f.RestaurantType(),
		ImageFile: imageFile,
	}); err != nil {
		if errors.Is(err, service.ErrRestaurantNameExists) {
			discardUpload(h.images, imagestore.KindRestaurant, imageFile)
			errs.Add("name", "The name is already taken, please choose another one")
			h.render.Render(w, r, http.StatusOK, "edit_restaurant.html", " - Edit Restaurant", restaurantPage{
				Form:       f,
				Errors:     errs,
				Types:      model.RestaurantTypes,
				Restaurant: restaurant,
			})
			return
		}
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Flash(r, "The restaurant has been updated", "success")
	http.Redirect(w, r, "/"+restaurant.ID+"/menu", http.StatusFound)
}

// DeleteRestaurant removes a restaurant together with its menu items and
// stored images.
//
// GET/POST /{restaurantID}/delete_restaurant
func (h *RestaurantHandler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := h.ownedRestaurant(w, r)
	if !ok {
		return
	}

	if err := h.restaurants.DeleteRestaurant(r.Context(), restaurant); err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Flash(r, "The restaurant has been deleted", "success")
	http.Redirect(w, r, "/", http.StatusFound)
}

// ownedRestaurant loads the routed restaurant and enforces ownership.
// Missing restaurants get the 404 page; non-owners are redirected to the
// public menu with a notice. The boolean reports whether the caller may
// proceed.
func (h *RestaurantHandler) ownedRestaurant(w http.ResponseWriter, r *http.Request) (*model.Restaurant, bool) {
	restaurant, err := h.restaurants.GetRestaurant(r.Context(), chi.URLParam(r, "restaurantID"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			h.render.NotFoundPage(w, r)
			return nil, false
		}
		h.render.ServerErrorPage(w, r, err)
		return nil, false
	}

	if !service.CanModify(middleware.UserFromContext(r.Context()), restaurant.OwnerID) {
		h.render.Flash(r, "Only the owner can manage this restaurant", "danger")
		http.Redirect(w, r, "/"+restaurant.ID+"/menu", http.StatusFound)
		return nil, false
	}

	return restaurant, true
}
