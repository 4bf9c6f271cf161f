package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tableside/tableside/internal/handler/dto"
	"github.com/tableside/tableside/internal/middleware"
	"github.com/tableside/tableside/internal/service"
)

// APIHandler serves the public JSON export endpoints.
type APIHandler struct {
	logger      *slog.Logger
	restaurants *service.RestaurantService
	menus       *service.MenuService
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(logger *slog.Logger, restaurants *service.RestaurantService, menus *service.MenuService) *APIHandler {
	return &APIHandler{logger: logger, restaurants: restaurants, menus: menus}
}

// Restaurants exports every restaurant.
//
// GET /restaurants/JSON
func (h *APIHandler) Restaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurants.ListRestaurants(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RestaurantsResponse{Restaurants: dto.NewRestaurants(restaurants)})
}

// Restaurant exports a single restaurant.
//
// GET /restaurant/{restaurantID}/JSON
func (h *APIHandler) Restaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.restaurants.GetRestaurant(r.Context(), chi.URLParam(r, "restaurantID"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "restaurant not found"})
			return
		}
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RestaurantResponse{Restaurant: dto.NewRestaurant(restaurant)})
}

// MenuItems exports a restaurant's menu items.
//
// GET /restaurant/{restaurantID}/menuItem/JSON
func (h *APIHandler) MenuItems(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.restaurants.GetRestaurant(r.Context(), chi.URLParam(r, "restaurantID"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "restaurant not found"})
			return
		}
		h.serverError(w, r, err)
		return
	}

	items, err := h.menus.ListItems(r.Context(), restaurant.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MenuItemsResponse{MenuItems: dto.NewMenuItems(items)})
}

func (h *APIHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("internal error",
		"request_id", middleware.GetRequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
}
