package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/store"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := store.CreateUser(ctx, db, "dup@example.com", "hash-a", "First"); err != nil {
		t.Fatalf("Create user: %v", err)
	}

	_, err := store.CreateUser(ctx, db, "dup@example.com", "hash-b", "Second")
	if !errors.Is(err, database.ErrEmailTaken) {
		t.Errorf("Expected ErrEmailTaken, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	created, err := store.CreateUser(ctx, db, "lookup@example.com", "hash", "Lookup")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, db, "lookup@example.com")
	if err != nil {
		t.Fatalf("Get user by email: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("Expected user id %d, got %d", created.ID, got.ID)
	}

	_, err = store.GetUserByEmail(ctx, db, "missing@example.com")
	if !errors.Is(err, database.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user, err := store.CreateUser(ctx, db, "profile@example.com", "hash", "Before")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	updated, err := store.UpdateProfile(ctx, db, user.ID, "After", "+84 90 123 4567")
	if err != nil {
		t.Fatalf("Update profile: %v", err)
	}
	if updated.Name != "After" {
		t.Errorf("Expected name After, got %s", updated.Name)
	}
	if updated.Phone != "+84 90 123 4567" {
		t.Errorf("Expected phone to be set, got %q", updated.Phone)
	}
}

func TestSetAvatarReturnsPreviousKey(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user, err := store.CreateUser(ctx, db, "avatar@example.com", "hash", "Ava")
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}

	previous, err := store.SetAvatar(ctx, db, user.ID, "first.png")
	if err != nil {
		t.Fatalf("Set avatar: %v", err)
	}
	if previous != "" {
		t.Errorf("Expected no previous avatar, got %q", previous)
	}

	previous, err = store.SetAvatar(ctx, db, user.ID, "second.png")
	if err != nil {
		t.Fatalf("Set avatar again: %v", err)
	}
	if previous != "first.png" {
		t.Errorf("Expected previous key first.png, got %q", previous)
	}

	got, err := store.GetUser(ctx, db, user.ID)
	if err != nil {
		t.Fatalf("Get user: %v", err)
	}
	if got.AvatarURL != "second.png" {
		t.Errorf("Expected avatar_url second.png, got %q", got.AvatarURL)
	}
}
