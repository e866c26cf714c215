package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safar/food-order/internal/database"
	"github.com/safar/food-order/internal/models"
)

const userColumns = `
	id, email, password_hash, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(avatar_url, ''),
	created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *models.User) error {
	return row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Phone,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

// CreateUser registers a new account. A duplicate email surfaces as
// ErrEmailTaken rather than a raw constraint violation.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, name string) (*models.User, error) {
	user := &models.User{}

	query := `
		INSERT INTO users (email, password_hash, name, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns

	if err := scanUser(db.QueryRowContext(ctx, query, email, passwordHash, name), user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, database.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func GetUser(ctx context.Context, db *sql.DB, id int64) (*models.User, error) {
	user := &models.User{}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	if err := scanUser(db.QueryRowContext(ctx, query, id), user); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	if err := scanUser(db.QueryRowContext(ctx, query, email), user); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// UpdateProfile sets the mutable profile fields.
func UpdateProfile(ctx context.Context, db *sql.DB, userID int64, name, phone string) (*models.User, error) {
	user := &models.User{}

	query := `
		UPDATE users
		SET name = $1, phone = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3
		RETURNING ` + userColumns

	if err := scanUser(db.QueryRowContext(ctx, query, name, phone, userID), user); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return user, nil
}

// SetAvatar records the storage key of the user's avatar and returns the key
// it replaced so the caller can delete the old blob.
func SetAvatar(ctx context.Context, db *sql.DB, userID int64, avatarKey string) (string, error) {
	var previous sql.NullString

	query := `
		UPDATE users u
		SET avatar_url = $1, updated_at = NOW()
		FROM (SELECT avatar_url FROM users WHERE id = $2) old
		WHERE u.id = $2
		RETURNING old.avatar_url`

	err := db.QueryRowContext(ctx, query, avatarKey, userID).Scan(&previous)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", database.ErrUserNotFound
		}
		return "", fmt.Errorf("set avatar: %w", err)
	}

	return previous.String, nil
}
