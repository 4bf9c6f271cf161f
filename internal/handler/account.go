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

// AccountHandler serves the account page and profile edits.
type AccountHandler struct {
	render      *Renderer
	accounts    *service.AccountService
	restaurants *service.RestaurantService
	images      *imagestore.Store
	users       form.UserDirectory
	maxUpload   int64
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(render *Renderer, accounts *service.AccountService, restaurants *service.RestaurantService, images *imagestore.Store, repo *repository.Repository, maxUpload int64) *AccountHandler {
	return &AccountHandler{
		render:      render,
		accounts:    accounts,
		restaurants: restaurants,
		images:      images,
		users:       repo,
		maxUpload:   maxUpload,
	}
}

// accountPage is the template data for the account view.
type accountPage struct {
	Account     *model.User
	Restaurants []*model.Restaurant
	IsSelf      bool
}

// Account shows a user's profile and the restaurants they own.
//
// GET /{accountID}/account
func (h *AccountHandler) Account(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetUser(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.render.NotFoundPage(w, r)
			return
		}
		h.render.ServerErrorPage(w, r, err)
		return
	}

	owned, err := h.restaurants.ListRestaurantsByOwner(r.Context(), account.ID)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	user := middleware.UserFromContext(r.Context())
	h.render.Render(w, r, http.StatusOK, "account.html", " - Account", accountPage{
		Account:     account,
		Restaurants: owned,
		IsSelf:      user != nil && user.ID == account.ID,
	})
}

// profilePage is the template data for the profile edit form.
type profilePage struct {
	Form   *form.UpdateAccount
	Errors form.Errors
	User   *model.User
}

// EditProfileForm shows the profile edit form pre-filled with the current
// values.
//
// GET /edit_profile
func (h *AccountHandler) EditProfileForm(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	h.render.Render(w, r, http.StatusOK, "edit_profile.html", " - Edit Profile", profilePage{
		Form:   &form.UpdateAccount{Username: user.Username, Email: user.Email},
		Errors: form.Errors{},
		User:   user,
	})
}

// EditProfile applies a profile edit. The user's current username and email
// pass their own uniqueness checks unchanged.
//
// POST /edit_profile
func (h *AccountHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	imageFile, fieldError, err := saveUpload(r, h.images, imagestore.KindProfile, h.maxUpload)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}

	f := form.ParseUpdateAccount(r)
	errs, err := f.Validate(r.Context(), h.users, user)
	if err != nil {
		h.render.ServerErrorPage(w, r, err)
		return
	}
	if fieldError != "" {
		errs.Add("picture", fieldError)
	}
	if errs.Any() {
		discardUpload(h.images, imagestore.KindProfile, imageFile)
		h.render.Render(w, r, http.StatusOK, "edit_profile.html", " - Edit Profile", profilePage{Form: f, Errors: errs, User: user})
		return
	}

	previousImage := user.ImageFile
	if err := h.accounts.UpdateProfile(r.Context(), user, service.UpdateProfileInput{
		Username:  f.Username,
		Email:     f.Email,
		ImageFile: imageFile,
	}); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameExists):
			errs.Add("username", "The username is already taken")
		case errors.Is(err, service.ErrEmailExists):
			errs.Add("email", "The email is already taken")
		default:
			h.render.ServerErrorPage(w, r, err)
			return
		}
		discardUpload(h.images, imagestore.KindProfile, imageFile)
		h.render.Render(w, r, http.StatusOK, "edit_profile.html", " - Edit Profile", profilePage{Form: f, Errors: errs, User: user})
		return
	}

	if imageFile != "" && imageFile != previousImage {
		if err := h.images.Remove(imagestore.KindProfile, previousImage); err != nil {
			h.render.ServerErrorPage(w, r, err)
			return
		}
	}

	h.render.Flash(r, "Your account has been updated", "success")
	http.Redirect(w, r, "/"+user.ID+"/account", http.StatusFound)
}
