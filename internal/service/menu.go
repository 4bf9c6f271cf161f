package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tableside/tableside/internal/imagestore"
	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/repository"
)

// ErrMenuItemNotFound is returned when a menu item does not exist.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuService handles menu item use cases.
type MenuService struct {
	repo   *repository.Repository
	images *imagestore.Store
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo *repository.Repository, images *imagestore.Store) *MenuService {
	return &MenuService{repo: repo, images: images}
}

// CourseSection groups a restaurant's menu items for one course.
type CourseSection struct {
	Course model.Course
	Items  []*model.MenuItem
}

// Menu returns a restaurant's items grouped by course in display order.
func (s *MenuService) Menu(ctx context.Context, restaurantID string) ([]CourseSection, error) {
	sections := make([]CourseSection, 0, len(model.Courses))
	for _, course := range model.Courses {
		items, err := s.repo.ListMenuItemsByCourse(ctx, restaurantID, course)
		if err != nil {
			return nil, fmt.Errorf("list %s items: %w", course, err)
		}
		sections = append(sections, CourseSection{Course: course, Items: items})
	}
	return sections, nil
}

// AddItemInput defines input for adding a menu item.
// Fields are assumed validated by the menu item form; Price is a
// normalized two-decimal string.
type AddItemInput struct {
	Name        string
	Course      model.Course
	Description string
	Price       string
	ImageFile   string
}

// AddItem creates a menu item on the restaurant.
func (s *MenuService) AddItem(ctx context.Context, restaurant *model.Restaurant, input AddItemInput) (*model.MenuItem, error) {
	imageFile := input.ImageFile
	if imageFile == "" {
		imageFile = model.DefaultMenuItemImage
	}
	price := input.Price
	if price == "" {
		price = model.DefaultPrice
	}

	item := &model.MenuItem{
		ID:           ulid.Make().String(),
		RestaurantID: restaurant.ID,
		Name:         input.Name,
		Course:       input.Course,
		Description:  input.Description,
		Price:        price,
		ImageFile:    imageFile,
		DatePosted:   time.Now().UTC(),
	}

	if err := s.repo.CreateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}

	return item, nil
}

// UpdateItemInput defines input for editing a menu item.
// ImageFile is empty when the picture is unchanged.
type UpdateItemInput struct {
	Name        string
	Course      model.Course
	Description string
	Price       string
	ImageFile   string
}

// UpdateItem applies a validated edit. When the image is replaced, the
// superseded file is removed afterwards. DatePosted never changes.
func (s *MenuService) UpdateItem(ctx context.Context, item *model.MenuItem, input UpdateItemInput) error {
	previousImage := item.ImageFile

	updated := *item
	updated.Name = input.Name
	updated.Course = input.Course
	updated.Description = input.Description
	updated.Price = input.Price
	if input.ImageFile != "" {
		updated.ImageFile = input.ImageFile
	}

	if err := s.repo.UpdateMenuItem(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("update menu item: %w", err)
	}

	if input.ImageFile != "" && input.ImageFile != previousImage {
		if err := s.images.Remove(imagestore.KindItem, previousImage); err != nil {
			return fmt.Errorf("remove superseded image: %w", err)
		}
	}

	*item = updated
	return nil
}

// DeleteItem removes a menu item and its stored image.
func (s *MenuService) DeleteItem(ctx context.Context, item *model.MenuItem) error {
	if err := s.repo.DeleteMenuItem(ctx, item.ID); err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("delete menu item: %w", err)
	}

	if err := s.images.Remove(imagestore.KindItem, item.ImageFile); err != nil {
		return fmt.Errorf("remove item image: %w", err)
	}

	return nil
}

// GetItem retrieves a menu item by ID, checking it belongs to the
// given restaurant.
func (s *MenuService) GetItem(ctx context.Context, restaurantID, itemID string) (*model.MenuItem, error) {
	item, err := s.repo.GetMenuItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	if item.RestaurantID != restaurantID {
		return nil, ErrMenuItemNotFound
	}

	return item, nil
}

// ListItems retrieves all of a restaurant's menu items.
func (s *MenuService) ListItems(ctx context.Context, restaurantID string) ([]*model.MenuItem, error) {
	return s.repo.ListMenuItems(ctx, restaurantID)
}
