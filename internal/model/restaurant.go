package model

import "time"

// DefaultRestaurantImage is the placeholder restaurant picture filename.
const DefaultRestaurantImage = "restaurant.png"

// RestaurantType categorizes a restaurant for browsing.
type RestaurantType string

const (
	TypeFastFood RestaurantType = "Fast food"
	TypeSeaFood  RestaurantType = "Sea Food"
	TypeCasual   RestaurantType = "Casual"
	TypeBakery   RestaurantType = "Bakery"
)

// RestaurantTypes lists all valid types in display order.
var RestaurantTypes = []RestaurantType{TypeFastFood, TypeSeaFood, TypeCasual, TypeBakery}

// IsValid checks if the restaurant type is one of the known categories.
func (t RestaurantType) IsValid() bool {
	switch t {
	case TypeFastFood, TypeSeaFood, TypeCasual, TypeBakery:
		return true
	}
	return false
}

// Restaurant represents a restaurant owned by exactly one user.
type Restaurant struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	ImageFile string         `json:"image_file"`
	Type      RestaurantType `json:"type"`
	OwnerID   string         `json:"-"`
	CreatedAt time.Time      `json:"created_at"`
}
