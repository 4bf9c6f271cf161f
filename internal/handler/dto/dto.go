// Package dto defines the JSON projections served by the export endpoints.
// They deliberately omit owner identifiers, emails and anything else a
// public consumer has no business seeing.
package dto

import (
	"time"

	"github.com/tableside/tableside/internal/model"
)

// Restaurant is the public JSON projection of a restaurant.
type Restaurant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// NewRestaurant projects a restaurant model.
func NewRestaurant(r *model.Restaurant) Restaurant {
	return Restaurant{
		ID:   r.ID,
		Name: r.Name,
		Type: string(r.Type),
	}
}

// NewRestaurants projects a slice of restaurant models.
func NewRestaurants(restaurants []*model.Restaurant) []Restaurant {
	out := make([]Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, NewRestaurant(r))
	}
	return out
}

// MenuItem is the public JSON projection of a menu item.
type MenuItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Course       string    `json:"course"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	DatePosted   time.Time `json:"date_posted"`
	RestaurantID string    `json:"restaurant_id"`
}

// NewMenuItem projects a menu item model.
func NewMenuItem(i *model.MenuItem) MenuItem {
	return MenuItem{
		ID:           i.ID,
		Name:         i.Name,
		Course:       string(i.Course),
		Description:  i.Description,
		Price:        i.Price,
		DatePosted:   i.DatePosted,
		RestaurantID: i.RestaurantID,
	}
}

// NewMenuItems projects a slice of menu item models.
func NewMenuItems(items []*model.MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, i := range items {
		out = append(out, NewMenuItem(i))
	}
	return out
}

// RestaurantsResponse wraps the full restaurant listing.
type RestaurantsResponse struct {
	Restaurants []Restaurant `json:"restaurants"`
}

// RestaurantResponse wraps a single restaurant.
type RestaurantResponse struct {
	Restaurant Restaurant `json:"restaurant"`
}

// MenuItemsResponse wraps a restaurant's menu items.
type MenuItemsResponse struct {
	MenuItems []MenuItem `json:"menuItems"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
