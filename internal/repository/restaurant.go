package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tableside/tableside/internal/model"
)

// Common errors for restaurant repository operations.
var (
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrRestaurantNameExists = errors.New("restaurant name already exists")
)

// CreateRestaurant inserts a new restaurant into the database.
func (r *Repository) CreateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	query := `
		INSERT INTO restaurants (id, name, image_file, type, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		restaurant.ID,
		restaurant.Name,
		restaurant.ImageFile,
		restaurant.Type,
		restaurant.OwnerID,
		restaurant.CreatedAt,
	)

	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrRestaurantNameExists
		}
		return fmt.Errorf("failed to create restaurant: %w", err)
	}

	return nil
}

// GetRestaurantByID retrieves a restaurant by its ID.
func (r *Repository) GetRestaurantByID(ctx context.Context, id string) (*model.Restaurant, error) {
	query := `
		SELECT id, name, image_file, type, owner_id, created_at
		FROM restaurants
		WHERE id = $1
	`

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant by ID: %w", err)
	}

	return restaurant, nil
}

// GetRestaurantByName retrieves a restaurant by its exact name.
// Used by the validation layer for uniqueness pre-checks.
func (r *Repository) GetRestaurantByName(ctx context.Context, name string) (*model.Restaurant, error) {
	query := `
		SELECT id, name, image_file, type, owner_id, created_at
		FROM restaurants
		WHERE name = $1
	`

	restaurant, err := scanRestaurant(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to get restaurant by name: %w", err)
	}

	return restaurant, nil
}

// ListRestaurants retrieves all restaurants ordered by creation time.
func (r *Repository) ListRestaurants(ctx context.Context) ([]*model.Restaurant, error) {
	query := `
		SELECT id, name, image_file, type, owner_id, created_at
		FROM restaurants
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// ListRestaurantsByName retrieves restaurants whose name contains the
// given fragment, case-insensitively.
func (r *Repository) ListRestaurantsByName(ctx context.Context, fragment string) ([]*model.Restaurant, error) {
	query := `
		SELECT id, name, image_file, type, owner_id, created_at
		FROM restaurants
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// ListRestaurantsByOwner retrieves all restaurants owned by a user.
func (r *Repository) ListRestaurantsByOwner(ctx context.Context, ownerID string) ([]*model.Restaurant, error) {
	query := `
		SELECT id, name, image_file, type, owner_id, created_at
		FROM restaurants
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants by owner: %w", err)
	}
	defer rows.Close()

	return collectRestaurants(rows)
}

// UpdateRestaurant updates a restaurant's name, type and image.
func (r *Repository) UpdateRestaurant(ctx context.Context, restaurant *model.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $2, type = $3, image_file = $4
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		restaurant.ID,
		restaurant.Name,
		restaurant.Type,
		restaurant.ImageFile,
	)

	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return ErrRestaurantNameExists
		}
		return fmt.Errorf("failed to update restaurant: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}

	return nil
}

// DeleteRestaurant removes a restaurant. Its menu items are removed by
// the ON DELETE CASCADE foreign key, so no orphan rows remain.
func (r *Repository) DeleteRestaurant(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete restaurant: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrRestaurantNotFound
	}

	return nil
}

func scanRestaurant(row pgx.Row) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := row.Scan(
		&restaurant.ID,
		&restaurant.Name,
		&restaurant.ImageFile,
		&restaurant.Type,
		&restaurant.OwnerID,
		&restaurant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func collectRestaurants(rows pgx.Rows) ([]*model.Restaurant, error) {
	restaurants := make([]*model.Restaurant, 0)
	for rows.Next() {
		restaurant, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, restaurant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read restaurants: %w", err)
	}
	return restaurants, nil
}
