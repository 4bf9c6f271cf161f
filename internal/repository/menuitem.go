package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tableside/tableside/internal/model"
)

// ErrMenuItemNotFound is returned when a menu item does not exist.
var ErrMenuItemNotFound = errors.New("menu item not found")

// CreateMenuItem inserts a new menu item into the database.
func (r *Repository) CreateMenuItem(ctx context.Context, item *model.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, restaurant_id, name, course, description, price, image_file, date_posted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.RestaurantID,
		item.Name,
		item.Course,
		item.Description,
		item.Price,
		item.ImageFile,
		item.DatePosted,
	)

	if err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}

	return nil
}

// GetMenuItemByID retrieves a menu item by its ID.
func (r *Repository) GetMenuItemByID(ctx context.Context, id string) (*model.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, course, description, price, image_file, date_posted
		FROM menu_items
		WHERE id = $1
	`

	item, err := scanMenuItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item by ID: %w", err)
	}

	return item, nil
}

// ListMenuItems retrieves all menu items for a restaurant in posting order.
func (r *Repository) ListMenuItems(ctx context.Context, restaurantID string) ([]*model.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, course, description, price, image_file, date_posted
		FROM menu_items
		WHERE restaurant_id = $1
		ORDER BY date_posted
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	defer rows.Close()

	return collectMenuItems(rows)
}

// ListMenuItemsByCourse retrieves a restaurant's menu items for one course.
func (r *Repository) ListMenuItemsByCourse(ctx context.Context, restaurantID string, course model.Course) ([]*model.MenuItem, error) {
	query := `
		SELECT id, restaurant_id, name, course, description, price, image_file, date_posted
		FROM menu_items
		WHERE restaurant_id = $1 AND course = $2
		ORDER BY date_posted
	`

	rows, err := r.pool.Query(ctx, query, restaurantID, course)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items by course: %w", err)
	}
	defer rows.Close()

	return collectMenuItems(rows)
}

// UpdateMenuItem updates a menu item's editable fields.
// DatePosted is immutable and never touched.
func (r *Repository) UpdateMenuItem(ctx context.Context, item *model.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $2, course = $3, description = $4, price = $5, image_file = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Name,
		item.Course,
		item.Description,
		item.Price,
		item.ImageFile,
	)

	if err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}

	return nil
}

// DeleteMenuItem removes a menu item.
func (r *Repository) DeleteMenuItem(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrMenuItemNotFound
	}

	return nil
}

// CountMenuItems returns the number of menu items for a restaurant.
func (r *Repository) CountMenuItems(ctx context.Context, restaurantID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM menu_items WHERE restaurant_id = $1`,
		restaurantID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count menu items: %w", err)
	}
	return count, nil
}

func scanMenuItem(row pgx.Row) (*model.MenuItem, error) {
	var item model.MenuItem
	err := row.Scan(
		&item.ID,
		&item.RestaurantID,
		&item.Name,
		&item.Course,
		&item.Description,
		&item.Price,
		&item.ImageFile,
		&item.DatePosted,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func collectMenuItems(rows pgx.Rows) ([]*model.MenuItem, error) {
	items := make([]*model.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}
	return items, nil
}
