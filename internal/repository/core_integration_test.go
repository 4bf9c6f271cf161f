//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tableside/tableside/internal/model"
	"github.com/tableside/tableside/internal/testutil"
)

func TestIntegrationUserRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueName("alice"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.Username != user.Username {
		t.Errorf("Username mismatch: got %q, want %q", retrieved.Username, user.Username)
	}
	if retrieved.Email != user.Email {
		t.Errorf("Email mismatch: got %q, want %q", retrieved.Email, user.Email)
	}
	if retrieved.ImageFile != model.DefaultUserImage {
		t.Errorf("ImageFile mismatch: got %q, want %q", retrieved.ImageFile, model.DefaultUserImage)
	}

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Errorf("ID mismatch via email lookup: got %q, want %q", byEmail.ID, user.ID)
	}

	byUsername, err := repo.GetUserByUsername(ctx, user.Username)
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if byUsername.ID != user.ID {
		t.Errorf("ID mismatch via username lookup: got %q, want %q", byUsername.ID, user.ID)
	}
}

func TestIntegrationUserRepository_DuplicateUsername(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)

	name := testutil.UniqueName("bob")
	first := testutil.NewTestUser(t, name)
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	second := testutil.NewTestUser(t, name)
	second.Email = testutil.UniqueName("other") + "@example.com"

	if err := repo.CreateUser(ctx, second); !errors.Is(err, ErrUsernameExists) {
		t.Errorf("Expected ErrUsernameExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)

	first := testutil.NewTestUser(t, testutil.UniqueName("carol"))
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	second := testutil.NewTestUser(t, testutil.UniqueName("carla"))
	second.Email = first.Email

	if err := repo.CreateUser(ctx, second); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_Update(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)

	user := testutil.NewTestUser(t, testutil.UniqueName("dora"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	user.Username = testutil.UniqueName("dora-renamed")
	user.ImageFile = "abcd1234.png"
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if retrieved.Username != user.Username {
		t.Errorf("Username mismatch: got %q, want %q", retrieved.Username, user.Username)
	}
	if retrieved.ImageFile != "abcd1234.png" {
		t.Errorf("ImageFile mismatch: got %q", retrieved.ImageFile)
	}
}

func TestIntegrationRestaurantRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	owner := createTestOwner(t, ctx, repo)

	restaurant := testutil.NewTestRestaurant(t, testutil.UniqueName("Trattoria"), owner.ID)
	if err := repo.CreateRestaurant(ctx, restaurant); err != nil {
		t.Fatalf("CreateRestaurant failed: %v", err)
	}

	retrieved, err := repo.GetRestaurantByID(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("GetRestaurantByID failed: %v", err)
	}
	if retrieved.Name != restaurant.Name {
		t.Errorf("Name mismatch: got %q, want %q", retrieved.Name, restaurant.Name)
	}
	if retrieved.OwnerID != owner.ID {
		t.Errorf("OwnerID mismatch: got %q, want %q", retrieved.OwnerID, owner.ID)
	}

	byName, err := repo.GetRestaurantByName(ctx, restaurant.Name)
	if err != nil {
		t.Fatalf("GetRestaurantByName failed: %v", err)
	}
	if byName.ID != restaurant.ID {
		t.Errorf("ID mismatch via name lookup: got %q, want %q", byName.ID, restaurant.ID)
	}
}

func TestIntegrationRestaurantRepository_DuplicateName(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	owner := createTestOwner(t, ctx, repo)

	name := testutil.UniqueName("Pizza Hut")
	first := testutil.NewTestRestaurant(t, name, owner.ID)
	if err := repo.CreateRestaurant(ctx, first); err != nil {
		t.Fatalf("CreateRestaurant (first) failed: %v", err)
	}

	second := testutil.NewTestRestaurant(t, name, owner.ID)
	if err := repo.CreateRestaurant(ctx, second); !errors.Is(err, ErrRestaurantNameExists) {
		t.Errorf("Expected ErrRestaurantNameExists, got: %v", err)
	}
}

func TestIntegrationRestaurantRepository_ListByName(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	owner := createTestOwner(t, ctx, repo)

	match := testutil.NewTestRestaurant(t, "Blue Harbor Grill", owner.ID)
	other := testutil.NewTestRestaurant(t, "Corner Bakery", owner.ID)
	for _, restaurant := range []*model.Restaurant{match, other} {
		if err := repo.CreateRestaurant(ctx, restaurant); err != nil {
			t.Fatalf("CreateRestaurant failed: %v", err)
		}
	}

	// Matching is case-insensitive on a substring.
	results, err := repo.ListRestaurantsByName(ctx, "harbor")
	if err != nil {
		t.Fatalf("ListRestaurantsByName failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(results))
	}
	if results[0].ID != match.ID {
		t.Errorf("ID mismatch: got %q, want %q", results[0].ID, match.ID)
	}

	none, err := repo.ListRestaurantsByName(ctx, "zzz-no-such-place")
	if err != nil {
		t.Fatalf("ListRestaurantsByName (miss) failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no matches, got %d", len(none))
	}
}

func TestIntegrationRestaurantRepository_ListByOwner(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	owner := createTestOwner(t, ctx, repo)
	stranger := createTestOwner(t, ctx, repo)

	mine := testutil.NewTestRestaurant(t, testutil.UniqueName("Mine"), owner.ID)
	theirs := testutil.NewTestRestaurant(t, testutil.UniqueName("Theirs"), stranger.ID)
	for _, restaurant := range []*model.Restaurant{mine, theirs} {
		if err := repo.CreateRestaurant(ctx, restaurant); err != nil {
			t.Fatalf("CreateRestaurant failed: %v", err)
		}
	}

	results, err := repo.ListRestaurantsByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListRestaurantsByOwner failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 restaurant, got %d", len(results))
	}
	if results[0].ID != mine.ID {
		t.Errorf("ID mismatch: got %q, want %q", results[0].ID, mine.ID)
	}
}

func TestIntegrationRestaurantRepository_DeleteCascades(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	owner := createTestOwner(t, ctx, repo)

	restaurant := testutil.NewTestRestaurant(t, testutil.UniqueName("Doomed"), owner.ID)
	if err := repo.CreateRestaurant(ctx, restaurant); err != nil {
		t.Fatalf("CreateRestaurant failed: %v", err)
	}

	item := testutil.NewTestMenuItem(t, "Last Supper", restaurant.ID)
	if err := repo.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("CreateMenuItem failed: %v", err)
	}

	if err := repo.DeleteRestaurant(ctx, restaurant.ID); err != nil {
		t.Fatalf("DeleteRestaurant failed: %v", err)
	}

	if _, err := repo.GetRestaurantByID(ctx, restaurant.ID); !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("Expected ErrRestaurantNotFound, got: %v", err)
	}

	// The cascade must leave no orphaned items behind.
	if _, err := repo.GetMenuItemByID(ctx, item.ID); !errors.Is(err, ErrMenuItemNotFound) {
		t.Errorf("Expected ErrMenuItemNotFound after cascade, got: %v", err)
	}
}

func TestIntegrationMenuItemRepository_CreateAndList(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	owner := createTestOwner(t, ctx, repo)

	restaurant := testutil.NewTestRestaurant(t, testutil.UniqueName("Bistro"), owner.ID)
	if err := repo.CreateRestaurant(ctx, restaurant); err != nil {
		t.Fatalf("CreateRestaurant failed: %v", err)
	}

	entree := testutil.NewTestMenuItem(t, "Roast Chicken", restaurant.ID)
	dessert := testutil.NewTestMenuItem(t, "Tiramisu", restaurant.ID)
	dessert.Course = model.CourseDessert
	dessert.Price = "6.50"
	for _, item := range []*model.MenuItem{entree, dessert} {
		if err := repo.CreateMenuItem(ctx, item); err != nil {
			t.Fatalf("CreateMenuItem failed: %v", err)
		}
	}

	all, err := repo.ListMenuItems(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("ListMenuItems failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(all))
	}

	desserts, err := repo.ListMenuItemsByCourse(ctx, restaurant.ID, model.CourseDessert)
	if err != nil {
		t.Fatalf("ListMenuItemsByCourse failed: %v", err)
	}
	if len(desserts) != 1 {
		t.Fatalf("Expected 1 dessert, got %d", len(desserts))
	}
	if desserts[0].Price != "6.50" {
		t.Errorf("Price mismatch: got %q, want %q", desserts[0].Price, "6.50")
	}

	count, err := repo.CountMenuItems(ctx, restaurant.ID)
	if err != nil {
		t.Fatalf("CountMenuItems failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Count mismatch: got %d, want 2", count)
	}
}

func TestIntegrationMenuItemRepository_UpdateKeepsDatePosted(t *testing.T) {
	ctx, repo := newCoreTestEnv(t)
	owner := createTestOwner(t, ctx, repo)

	restaurant := testutil.NewTestRestaurant(t, testutil.UniqueName("Diner"), owner.ID)
	if err := repo.CreateRestaurant(ctx, restaurant); err != nil {
		t.Fatalf("CreateRestaurant failed: %v", err)
	}

	item := testutil.NewTestMenuItem(t, "Pancakes", restaurant.ID)
	item.DatePosted = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.CreateMenuItem(ctx, item); err != nil {
		t.Fatalf("CreateMenuItem failed: %v", err)
	}

	item.Name = "Blueberry Pancakes"
	item.Price = "11.00"
	if err := repo.UpdateMenuItem(ctx, item); err != nil {
		t.Fatalf("UpdateMenuItem failed: %v", err)
	}

	retrieved, err := repo.GetMenuItemByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetMenuItemByID failed: %v", err)
	}
	if retrieved.Name != "Blueberry Pancakes" {
		t.Errorf("Name mismatch: got %q", retrieved.Name)
	}
	if !retrieved.DatePosted.Equal(item.DatePosted) {
		t.Errorf("DatePosted changed: got %v, want %v", retrieved.DatePosted, item.DatePosted)
	}
}

func createTestOwner(t *testing.T, ctx context.Context, repo *Repository) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, testutil.UniqueName("owner"))
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return user
}

func newCoreTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetCoreSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset core schema: %v", err)
	}

	return ctx, repo
}
