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

// Service errors for restaurants.
var (
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrRestaurantNameExists = errors.New("restaurant name already exists")
	// ErrNoMatches signals that a name filter produced zero results.
	ErrNoMatches = errors.New("no restaurants match the filter")
)

// RestaurantService handles restaurant use cases.
type RestaurantService struct {
	repo   *repository.Repository
	images *imagestore.Store
}

// NewRestaurantService creates a new RestaurantService.
func NewRestaurantService(repo *repository.Repository, images *imagestore.Store) *RestaurantService {
	return &RestaurantService{repo: repo, images: images}
}

// TypeBucket groups browse results for one restaurant type.
type TypeBucket struct {
	Type        model.RestaurantType
	Restaurants []*model.Restaurant
}

// Count returns the number of restaurants in the bucket.
func (b TypeBucket) Count() int {
	return len(b.Restaurants)
}

// BrowseResult is the home page listing partitioned into the four fixed
// type buckets.
type BrowseResult struct {
	Buckets  []TypeBucket
	Filtered bool
}

// Total returns the number of restaurants across all buckets.
func (r *BrowseResult) Total() int {
	total := 0
	for _, b := range r.Buckets {
		total += len(b.Restaurants)
	}
	return total
}

// Browse lists restaurants, optionally filtered by a case-insensitive name
// fragment, partitioned by type. A filter matching nothing returns
// ErrNoMatches so the handler can redirect with a notice.
func (s *RestaurantService) Browse(ctx context.Context, filter string) (*BrowseResult, error) {
	var (
		restaurants []*model.Restaurant
		err         error
	)

	if filter != "" {
		restaurants, err = s.repo.ListRestaurantsByName(ctx, filter)
	} else {
		restaurants, err = s.repo.ListRestaurants(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	if filter != "" && len(restaurants) == 0 {
		return nil, ErrNoMatches
	}

	result := &BrowseResult{Filtered: filter != ""}
	for _, typ := range model.RestaurantTypes {
		result.Buckets = append(result.Buckets, TypeBucket{Type: typ})
	}
	for _, restaurant := range restaurants {
		for i := range result.Buckets {
			if result.Buckets[i].Type == restaurant.Type {
				result.Buckets[i].Restaurants = append(result.Buckets[i].Restaurants, restaurant)
				break
			}
		}
	}

	return result, nil
}

// CreateRestaurantInput defines input for creating a restaurant.
// Fields are assumed validated by the restaurant form.
type CreateRestaurantInput struct {
	Name      string
	Type      model.RestaurantType
	ImageFile string
}

// CreateRestaurant creates a restaurant owned by the acting user.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, owner *model.User, input CreateRestaurantInput) (*model.Restaurant, error) {
	imageFile := input.ImageFile
	if imageFile == "" {
		imageFile = model.DefaultRestaurantImage
	}

	restaurant := &model.Restaurant{
		ID:        ulid.Make().String(),
		Name:      input.Name,
		ImageFile: imageFile,
		Type:      input.Type,
		OwnerID:   owner.ID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateRestaurant(ctx, restaurant); err != nil {
		if errors.Is(err, repository.ErrRestaurantNameExists) {
			return nil, ErrRestaurantNameExists
		}
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	return restaurant, nil
}

// UpdateRestaurantInput defines input for editing a restaurant.
// ImageFile is empty when the picture is unchanged.
type UpdateRestaurantInput struct {
	Name      string
	Type      model.RestaurantType
	ImageFile string
}

// UpdateRestaurant applies a validated edit. When the image is replaced,
// the superseded file is removed afterwards.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, restaurant *model.Restaurant, input UpdateRestaurantInput) error {
	previousImage := restaurant.ImageFile

	updated := *restaurant
	updated.Name = input.Name
	updated.Type = input.Type
	if input.ImageFile != "" {
		updated.ImageFile = input.ImageFile
	}

	if err := s.repo.UpdateRestaurant(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrRestaurantNameExists) {
			return ErrRestaurantNameExists
		}
		return fmt.Errorf("update restaurant: %w", err)
	}

	if input.ImageFile != "" && input.ImageFile != previousImage {
		if err := s.images.Remove(imagestore.KindRestaurant, previousImage); err != nil {
			return fmt.Errorf("remove superseded image: %w", err)
		}
	}

	*restaurant = updated
	return nil
}

// DeleteRestaurant removes a restaurant; its menu items go with it via the
// cascading foreign key. Stored images for the restaurant and its items
// are cleaned up afterwards.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	items, err := s.repo.ListMenuItems(ctx, restaurant.ID)
	if err != nil {
		return fmt.Errorf("list menu items: %w", err)
	}

	if err := s.repo.DeleteRestaurant(ctx, restaurant.ID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return ErrRestaurantNotFound
		}
		return fmt.Errorf("delete restaurant: %w", err)
	}

	if err := s.images.Remove(imagestore.KindRestaurant, restaurant.ImageFile); err != nil {
		return fmt.Errorf("remove restaurant image: %w", err)
	}
	for _, item := range items {
		if err := s.images.Remove(imagestore.KindItem, item.ImageFile); err != nil {
			return fmt.Errorf("remove item image: %w", err)
		}
	}

	return nil
}

// GetRestaurant retrieves a restaurant by ID.
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*model.Restaurant, error) {
	restaurant, err := s.repo.GetRestaurantByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

// ListRestaurants retrieves all restaurants.
func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	return s.repo.ListRestaurants(ctx)
}

// ListRestaurantsByOwner retrieves the restaurants a user owns.
func (s *RestaurantService) ListRestaurantsByOwner(ctx context.Context, ownerID string) ([]*model.Restaurant, error) {
	return s.repo.ListRestaurantsByOwner(ctx, ownerID)
}
