package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/logger"
	"github.com/taskdeck/taskdeck-server/internal/model"
)

// Auth implements login, registration and profile operations.
type Auth struct {
	users   model.UserStore
	storage model.Storage
	tokens  model.TokenManager
	logger  *logger.Logger
}

func NewAuth(
	users model.UserStore,
	storage model.Storage,
	tokens model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:   users,
		storage: storage,
		tokens:  tokens,
		logger:  logger,
	}
}

// Login verifies the credentials against the stored bcrypt hash and returns
// a fresh signed token. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, username, password string) (string, error) {
	a.logger.Debug("Auth service: processing login",
		"username", username)

	user, err := a.users.GetByUsername(ctx, username)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown username",
			"username", username)
		return "", apierrors.NewInvalidCredentials()
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by username: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		a.logger.Info("Auth service: password mismatch",
			"username", username)
		return "", apierrors.NewInvalidCredentials()
	}

	tokenString, err := a.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login successful",
		"username", username)

	return tokenString, nil
}

// Register creates a new user with a bcrypt-hashed password and an empty
// profile row.
func (a *Auth) Register(ctx context.Context, username, password, email string) (model.User, error) {
	a.logger.Debug("Auth service: processing registration",
		"username", username)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		CreatedAt:    time.Now(),
	}

	savedUser, err := a.users.Create(ctx, user)
	if errors.Is(err, model.ErrDuplicate) {
		a.logger.Info("Auth service: username already taken",
			"username", username)
		return model.User{}, apierrors.NewUserAlreadyExists()
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered",
		"username", username)

	return savedUser, nil
}

// Profile returns the user's profile. When an image reference is present the
// raw bytes are fetched from the object store and inlined as a base64 data
// URI so the client needs no extra round trip.
func (a *Auth) Profile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	profile, err := a.users.GetProfile(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Profile{}, apierrors.NewUserNotFound()
	}
	if err != nil {
		return model.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	if profile.ProfileImageURL != nil && *profile.ProfileImageURL != "" {
		obj, err := a.storage.Download(ctx, profileImageKey(userID))
		if err != nil {
			return model.Profile{}, fmt.Errorf("failed to fetch profile image: %w", err)
		}
		defer obj.Close()

		data, err := io.ReadAll(obj)
		if err != nil {
			return model.Profile{}, fmt.Errorf("failed to read profile image: %w", err)
		}

		inlined := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
		profile.ProfileImageURL = &inlined
	}

	return profile, nil
}

// UploadProfileImage decodes the base64 image payload, stores it under the
// user's fixed object key and records the public URL on the profile row.
func (a *Auth) UploadProfileImage(ctx context.Context, userID uuid.UUID, imageData string) (string, error) {
	a.logger.Debug("Auth service: processing profile image upload",
		"user_id", userID)

	imageBytes, err := decodeImageData(imageData)
	if err != nil {
		return "", apierrors.NewInvalidImageData()
	}

	key := profileImageKey(userID)
	if err := a.storage.Upload(ctx, key, bytes.NewReader(imageBytes), int64(len(imageBytes)), "image/jpeg"); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	imageURL := a.storage.URL(key)

	err = a.users.UpdateProfileImageURL(ctx, userID, imageURL)
	if errors.Is(err, model.ErrNoRowsAffected) {
		a.logger.Error("Auth service: profile row missing on image update",
			"user_id", userID)
		return "", apierrors.NewProfileUpdateFailed()
	}
	if err != nil {
		return "", fmt.Errorf("failed to update profile image url: %w", err)
	}

	a.logger.Info("Auth service: profile image uploaded",
		"user_id", userID,
		"image_url", imageURL)

	return imageURL, nil
}

// decodeImageData strips the "data:image/jpeg;base64," prefix and decodes
// the remainder.
func decodeImageData(imageData string) ([]byte, error) {
	parts := strings.SplitN(imageData, ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("missing data uri prefix")
	}

	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}

	return decoded, nil
}

func profileImageKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile_images/%s.jpg", userID)
}
