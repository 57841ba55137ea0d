package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskdeck/taskdeck-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	query := `SELECT user_id, username, password_hash, email, created_at
			  FROM users WHERE username = $1`

	err := r.db.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// Create inserts the user row together with its empty profile row so later
// profile-image updates always have a row to hit. Both inserts run in one
// transaction.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO users (user_id, username, password_hash, email)
			  VALUES ($1, $2, $3, $4)
			  RETURNING user_id, username, password_hash, email, created_at`

	var savedUser model.User
	err = tx.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.Email,
	).Scan(
		&savedUser.ID, &savedUser.Username, &savedUser.PasswordHash, &savedUser.Email, &savedUser.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, model.ErrDuplicate
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO user_profiles (user_id) VALUES ($1)`, savedUser.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to commit user creation: %w", err)
	}

	return savedUser, nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	var profile model.Profile
	query := `SELECT u.email, u.username, up.profile_image_url
			  FROM users u LEFT JOIN user_profiles up ON u.user_id = up.user_id
			  WHERE u.user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.Email, &profile.Username, &profile.ProfileImageURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, model.ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("failed to get user profile: %w", err)
	}

	return profile, nil
}

func (r *UserRepository) UpdateProfileImageURL(ctx context.Context, userID uuid.UUID, imageURL string) error {
	query := `UPDATE user_profiles SET profile_image_url = $1 WHERE user_id = $2`

	tag, err := r.db.Exec(ctx, query, imageURL, userID)
	if err != nil {
		return fmt.Errorf("failed to update profile image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoRowsAffected
	}

	return nil
}
