package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-server/internal/api/rest/middleware"
	"github.com/taskdeck/taskdeck-server/internal/api/rest/response"
	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/logger"
	"github.com/taskdeck/taskdeck-server/internal/model"
	"github.com/taskdeck/taskdeck-server/internal/validation"
)

// AuthService defines login, registration and profile operations.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password, email string) (model.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (model.Profile, error)
	UploadProfileImage(ctx context.Context, userID uuid.UUID, imageData string) (string, error)
}

// Auth handles the authentication and profile endpoints.
type Auth struct {
	service AuthService
	logger  *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(service AuthService, logger *logger.Logger) *Auth {
	return &Auth{service: service, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// Login verifies credentials and sets the auth cookie.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, h.logger, apierrors.NewInvalidJSON())
		return
	}

	if err := validation.ValidateLogin(req.Username, req.Password); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	tokenString, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	http.SetCookie(w, response.AuthCookie(tokenString))
	response.Message(w, http.StatusOK, "Login successful.")
}

// Logout clears the auth cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
func (h *Auth) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, response.ClearCookie())
	response.Message(w, http.StatusOK, "Logout successful.")
}

// Register creates a new user account.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, h.logger, apierrors.NewInvalidJSON())
		return
	}

	if err := validation.ValidateLogin(req.Username, req.Password); err != nil {
		response.Error(w, h.logger, err)
		return
	}
	if req.Email == "" {
		response.Error(w, h.logger, apierrors.NewMissingEmail())
		return
	}

	if _, err := h.service.Register(r.Context(), req.Username, req.Password, req.Email); err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.Message(w, http.StatusCreated, "User registered successfully.")
}

// Profile returns the authenticated user's profile, with the stored image
// inlined as a data URI when present.
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewInvalidCredentials())
		return
	}

	profile, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"email":             profile.Email,
		"username":          profile.Username,
		"profile_image_url": profile.ProfileImageURL,
	})
}

type uploadImageRequest struct {
	Image string `json:"image"`
}

// UploadProfileImage stores a new profile image and records its URL.
func (h *Auth) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Error(w, h.logger, apierrors.NewInvalidCredentials())
		return
	}

	var req uploadImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, h.logger, apierrors.NewInvalidJSON())
		return
	}
	if req.Image == "" {
		response.Error(w, h.logger, apierrors.NewMissingImageData())
		return
	}

	imageURL, err := h.service.UploadProfileImage(r.Context(), userID, req.Image)
	if err != nil {
		response.Error(w, h.logger, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message":   "Profile image uploaded successfully.",
		"image_url": imageURL,
	})
}
