package model

import "time"

// DefaultMenuItemImage is the placeholder menu item picture filename.
const DefaultMenuItemImage = "food.png"

// DefaultPrice is the stored price when none is provided.
const DefaultPrice = "0.00"

// Course categorizes a menu item within a restaurant's menu.
type Course string

const (
	CourseEntree    Course = "Entree"
	CourseAppetizer Course = "Appetizer"
	CourseDessert   Course = "Dessert"
)

// Courses lists all valid courses in menu display order.
var Courses = []Course{CourseEntree, CourseAppetizer, CourseDessert}

// IsValid checks if the course is one of the known categories.
func (c Course) IsValid() bool {
	switch c {
	case CourseEntree, CourseAppetizer, CourseDessert:
		return true
	}
	return false
}

// MenuItem represents a dish belonging to exactly one restaurant.
// Price is stored as a fixed two-decimal string.
type MenuItem struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Name         string    `json:"name"`
	Course       Course    `json:"course"`
	Description  string    `json:"description"`
	Price        string    `json:"price"`
	ImageFile    string    `json:"image_file"`
	DatePosted   time.Time `json:"date_posted"`
}
