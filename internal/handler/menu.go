package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tableside/tableside/internal/form"
	"github.com/tableside/tableside/internal/imagestore"
	"github.com/tableside/tableside/internal/middleware"
	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/service"
)

// MenuHandler serves menu pages and menu item management.
type MenuHandler struct {
	render      *Renderer
	restaurants *service.RestaurantService
	menus       *service.MenuService
	images      *imagestore.Store
	maxUpload   int64
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(render *Renderer, restaurants *service.RestaurantService, menus *service.MenuService, images *imagestore.Store, maxUpload int64) *MenuHandler {
	return &MenuHandler{
		render:      render,
		restaurants: restaurants,
		menus:       menus,
		images:      images,
		maxUpload:   maxUpload,
	}
}

// menuPage is the template data for the public and owner menu views.
type menuPage struct {
	Restaurant *model.Restaurant
	Sections   []service.CourseSection
	IsOwner    bool
}

// Menu shows a restaurant's menu grouped by course. Anyone may view it;
// owners additionally see management controls.
//
// GET /{restaurantID}/menu
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := h.routedRestaurant(w, r)
	if !ok {
		return
	}

	sections, err := h.menus.Menu(r.Context(), restaurant.ID)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "menu.html", " - "+restaurant.Name, menuPage{
		Restaurant: restaurant,
		Sections:   sections,
		IsOwner:    service.CanModify(middleware.UserFromContext(r.Context()), restaurant.OwnerID),
	})
}

// ClientMenu shows the print-friendly menu without management controls.
// Only the owner may view it; everyone else lands on the regular menu.
//
// GET /{restaurantID}/client_menu
func (h *MenuHandler) ClientMenu(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := h.routedRestaurant(w, r)
	if !ok {
		return
	}

	if !service.CanModify(middleware.UserFromContext(r.Context()), restaurant.OwnerID) {
		http.Redirect(w, r, "/"+restaurant.ID+"/menu", http.StatusFound)
		return
	}

	sections, err := h.menus.Menu(r.Context(), restaurant.ID)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Render(w, r, http.StatusOK, "client_menu.html", " - "+restaurant.Name, menuPage{
		Restaurant: restaurant,
		Sections:   sections,
		IsOwner:    true,
	})
}

// itemPage is the template data for the add/edit item forms.
type itemPage struct {
	Form       *form.MenuItem
	Errors     form.Errors
	Courses    []model.Course
	Restaurant *model.Restaurant
	Item       *model.MenuItem
}

// AddItemForm shows the menu item creation form.
//
// GET /{restaurantID}/add_item
func (h *MenuHandler) AddItemForm(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := h.ownedRestaurant(w, r)
	if !ok {
		return
	}

	h.render.Render(w, r, http.StatusOK, "add_item.html", " - New Item", itemPage{
		Form:       &form.MenuItem{},
		Errors:     form.Errors{},
		Courses:    model.Courses,
		Restaurant: restaurant,
	})
}

// AddItem creates a menu item and keeps the owner on the form so several
// items can be added in a row.
//
// POST /{restaurantID}/add_item
func (h *MenuHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	restaurant, ok := h.ownedRestaurant(w, r)
	if !ok {
		return
	}

	imageFile, fieldError, err := saveUpload(r, h.images, imagestore.KindItem, h.maxUpload)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	f := form.ParseMenuItem(r)
	errs := f.Validate()
	if fieldError != "" {
		errs.Add("picture", fieldError)
	}
	if errs.Any() {
		discardUpload(h.images, imagestore.KindItem, imageFile)
		h.render.Render(w, r, http.StatusOK, "add_item.html", " - New Item", itemPage{
			Form:       f,
			Errors:     errs,
			Courses:    model.Courses,
			Restaurant: restaurant,
		})
		return
	}

	item, err := h.menus.AddItem(r.Context(), restaurant, service.AddItemInput{
		Name:        f.Name,
		Course:      f.ItemCourse(),
		Description: f.Description,
		Price:       f.NormalizedPrice(),
		ImageFile:   imageFile,
	})
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Flash(r, item.Name+" has been added to the menu", "success")
	http.Redirect(w, r, "/"+restaurant.ID+"/add_item", http.StatusFound)
}

// EditItemForm shows the edit form pre-filled with the current values.
//
// GET /{restaurantID}/{itemID}/edit_menu_item
func (h *MenuHandler) EditItemForm(w http.ResponseWriter, r *http.Request) {
	restaurant, item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	h.render.Render(w, r, http.StatusOK, "edit_item.html", " - Edit Item", itemPage{
		Form: &form.MenuItem{
			Name:        item.Name,
			Course:      string(item.Course),
			Description: item.Description,
			Price:       item.Price,
		},
		Errors:     form.Errors{},
		Courses:    model.Courses,
		Restaurant: restaurant,
		Item:       item,
	})
}

// EditItem applies a menu item edit. The posting date never changes.
//
// POST /{restaurantID}/{itemID}/edit_menu_item
func (h *MenuHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	restaurant, item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	imageFile, fieldError, err := saveUpload(r, h.images, imagestore.KindItem, h.maxUpload)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	f := form.ParseMenuItem(r)
	errs := f.Validate()
	if fieldError != "" {
		errs.Add("picture", fieldError)
	}
	if errs.Any() {
		discardUpload(h.images, imagestore.KindItem, imageFile)
		h.render.Render(w, r, http.StatusOK, "edit_item.html", " - Edit Item", itemPage{
			Form:       f,
			Errors:     errs,
			Courses:    model.Courses,
			Restaurant: restaurant,
			Item:       item,
		})
		return
	}

	if err := h.menus.UpdateItem(r.Context(), item, service.UpdateItemInput{
		Name:        f.Name,
		Course:      f.ItemCourse(),
		Description: f.Description,
		Price:       f.NormalizedPrice(),
		ImageFile:   imageFile,
	}); err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Flash(r, "The menu item has been updated", "success")
	http.Redirect(w, r, "/"+restaurant.ID+"/menu", http.StatusFound)
}

// DeleteItem removes a menu item and its stored image.
//
// GET/POST /{restaurantID}/{itemID}/delete_menu_item
func (h *MenuHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	restaurant, item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := h.menus.DeleteItem(r.Context(), item); err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	h.render.Flash(r, item.Name+" has been removed from the menu", "success")
	http.Redirect(w, r, "/"+restaurant.ID+"/menu", http.StatusFound)
}

// routedRestaurant loads the restaurant named in the route, rendering the
// 404 page when it does not exist.
func (h *MenuHandler) routedRestaurant(w http.ResponseWriter, r *http.Request) (*model.Restaurant, bool) {
	restaurant, err := h.restaurants.GetRestaurant(r.Context(), chi.URLParam(r, "restaurantID"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			h.render.NotFoundPage(w, r)
			return nil, false
		}
		h.render.ServerErrorPage(w, r, err)
		return nil, false
	}
	return restaurant, true
}

// ownedRestaurant is routedRestaurant plus the ownership check. Non-owners
// are sent to the public menu with a notice.
func (h *MenuHandler) ownedRestaurant(w http.ResponseWriter, r *http.Request) (*model.Restaurant, bool) {
	restaurant, ok := h.routedRestaurant(w, r)
	if !ok {
		return nil, false
	}

	if !service.CanModify(middleware.UserFromContext(r.Context()), restaurant.OwnerID) {
		h.render.Flash(r, "Only the owner can manage this restaurant", "danger")
		http.Redirect(w, r, "/"+restaurant.ID+"/menu", http.StatusFound)
		return nil, false
	}

	return restaurant, true
}

// ownedItem resolves the routed restaurant and item, enforcing ownership
// and that the item belongs to that restaurant.
func (h *MenuHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*model.Restaurant, *model.MenuItem, bool) {
	restaurant, ok := h.ownedRestaurant(w, r)
	if !ok {
		return nil, nil, false
	}

	item, err := h.menus.GetItem(r.Context(), restaurant.ID, chi.URLParam(r, "itemID"))
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			h.render.NotFoundPage(w, r)
			return nil, nil, false
		}
		h.render.ServerErrorPage(w, r, err)
		return nil, nil, false
	}

	return restaurant, item, true
}
