package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/model"
	"github.com/taskdeck/taskdeck-server/internal/testutil"
)

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetProfile(ctx context.Context, userID uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockUserStore) UpdateProfileImageURL(ctx context.Context, userID uuid.UUID, imageURL string) error {
	args := m.Called(ctx, userID, imageURL)
	return args.Error(0)
}

// MockStorage mocks the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// MockTokenManager mocks the TokenManager interface
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) Issue(userID uuid.UUID, username string) (string, error) {
	args := m.Called(userID, username)
	return args.String(0), args.Error(1)
}

func (m *MockTokenManager) Verify(tokenString string) (model.Claims, error) {
	args := m.Called(tokenString)
	return args.Get(0).(model.Claims), args.Error(1)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuth_Login(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		users := &MockUserStore{}
		tokens := &MockTokenManager{}
		a := NewAuth(users, nil, tokens, testutil.MakeNoopLogger())

		users.On("GetByUsername", ctx, "marge").Return(model.User{
			ID:           userID,
			Username:     "marge",
			PasswordHash: hashPassword(t, "password1"),
		}, nil)
		tokens.On("Issue", userID, "marge").Return("signed-token", nil)

		tokenString, err := a.Login(ctx, "marge", "password1")
		require.NoError(t, err)
		assert.Equal(t, "signed-token", tokenString)
	})

	t.Run("unknown username", func(t *testing.T) {
		users := &MockUserStore{}
		a := NewAuth(users, nil, &MockTokenManager{}, testutil.MakeNoopLogger())

		users.On("GetByUsername", ctx, "nobody").Return(model.User{}, model.ErrNotFound)

		_, err := a.Login(ctx, "nobody", "password1")
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.Status)
		assert.Equal(t, "Invalid username or password", apiErr.Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := &MockUserStore{}
		a := NewAuth(users, nil, &MockTokenManager{}, testutil.MakeNoopLogger())

		users.On("GetByUsername", ctx, "marge").Return(model.User{
			ID:           userID,
			Username:     "marge",
			PasswordHash: hashPassword(t, "password1"),
		}, nil)

		_, err := a.Login(ctx, "marge", "wrongpass1")
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.Status)
	})

	t.Run("store failure", func(t *testing.T) {
		users := &MockUserStore{}
		a := NewAuth(users, nil, &MockTokenManager{}, testutil.MakeNoopLogger())

		users.On("GetByUsername", ctx, "marge").Return(model.User{}, errors.New("connection refused"))

		_, err := a.Login(ctx, "marge", "password1")
		require.Error(t, err)
		var apiErr *apierrors.APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

func TestAuth_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		users := &MockUserStore{}
		a := NewAuth(users, nil, &MockTokenManager{}, testutil.MakeNoopLogger())

		users.On("Create", ctx, mock.MatchedBy(func(u model.User) bool {
			return u.Username == "marge" && u.Email == "marge@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password1")) == nil
		})).Return(model.User{ID: uuid.New(), Username: "marge"}, nil)

		user, err := a.Register(ctx, "marge", "password1", "marge@example.com")
		require.NoError(t, err)
		assert.Equal(t, "marge", user.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users := &MockUserStore{}
		a := NewAuth(users, nil, &MockTokenManager{}, testutil.MakeNoopLogger())

		users.On("Create", ctx, mock.Anything).Return(model.User{}, model.ErrDuplicate)

		_, err := a.Register(ctx, "marge", "password1", "marge@example.com")
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 409, apiErr.Status)
		assert.Equal(t, "User already exists", apiErr.Message)
	})
}

func TestAuth_Profile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("without image", func(t *testing.T) {
		users := &MockUserStore{}
		a := NewAuth(users, nil, &MockTokenManager{}, testutil.MakeNoopLogger())

		users.On("GetProfile", ctx, userID).Return(model.Profile{
			Email:    "marge@example.com",
			Username: "marge",
		}, nil)

		profile, err := a.Profile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "marge", profile.Username)
		assert.Nil(t, profile.ProfileImageURL)
	})

	t.Run("image inlined as data uri", func(t *testing.T) {
		users := &MockUserStore{}
		storage := &MockStorage{}
		a := NewAuth(users, storage, &MockTokenManager{}, testutil.MakeNoopLogger())

		imageURL := "http://localhost:9000/b/profile_images/x.jpg"
		users.On("GetProfile", ctx, userID).Return(model.Profile{
			Email:           "marge@example.com",
			Username:        "marge",
			ProfileImageURL: &imageURL,
		}, nil)
		storage.On("Download", ctx, profileImageKey(userID)).
			Return(io.NopCloser(bytes.NewReader([]byte{0xff, 0xd8})), nil)

		profile, err := a.Profile(ctx, userID)
		require.NoError(t, err)
		require.NotNil(t, profile.ProfileImageURL)
		assert.Equal(t,
			"data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8}),
			*profile.ProfileImageURL)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := &MockUserStore{}
		a := NewAuth(users, nil, &MockTokenManager{}, testutil.MakeNoopLogger())

		users.On("GetProfile", ctx, userID).Return(model.Profile{}, model.ErrNotFound)

		_, err := a.Profile(ctx, userID)
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 404, apiErr.Status)
	})
}

func TestAuth_UploadProfileImage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	imageData := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))

	t.Run("success", func(t *testing.T) {
		users := &MockUserStore{}
		storage := &MockStorage{}
		a := NewAuth(users, storage, &MockTokenManager{}, testutil.MakeNoopLogger())

		key := profileImageKey(userID)
		storage.On("Upload", ctx, key, mock.Anything, int64(len("jpeg-bytes")), "image/jpeg").Return(nil)
		storage.On("URL", key).Return("http://localhost:9000/b/" + key)
		users.On("UpdateProfileImageURL", ctx, userID, "http://localhost:9000/b/"+key).Return(nil)

		imageURL, err := a.UploadProfileImage(ctx, userID, imageData)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/b/"+key, imageURL)
	})

	t.Run("malformed image data", func(t *testing.T) {
		a := NewAuth(&MockUserStore{}, &MockStorage{}, &MockTokenManager{}, testutil.MakeNoopLogger())

		_, err := a.UploadProfileImage(ctx, userID, "no-data-uri-prefix")
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 400, apiErr.Status)
		assert.Equal(t, "Invalid image data format", apiErr.Message)
	})

	t.Run("profile row missing", func(t *testing.T) {
		users := &MockUserStore{}
		storage := &MockStorage{}
		a := NewAuth(users, storage, &MockTokenManager{}, testutil.MakeNoopLogger())

		key := profileImageKey(userID)
		storage.On("Upload", ctx, key, mock.Anything, mock.Anything, "image/jpeg").Return(nil)
		storage.On("URL", key).Return("u")
		users.On("UpdateProfileImageURL", ctx, userID, "u").Return(model.ErrNoRowsAffected)

		_, err := a.UploadProfileImage(ctx, userID, imageData)
		var apiErr *apierrors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.Status)
		assert.Equal(t, "Failed to update profile image", apiErr.Message)
	})

	t.Run("upload failure", func(t *testing.T) {
		users := &MockUserStore{}
		storage := &MockStorage{}
		a := NewAuth(users, storage, &MockTokenManager{}, testutil.MakeNoopLogger())

		storage.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("minio down"))

		_, err := a.UploadProfileImage(ctx, userID, imageData)
		require.Error(t, err)
		var apiErr *apierrors.APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}
