package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-server/internal/api/rest/response"
	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/logger"
	"github.com/taskdeck/taskdeck-server/internal/model"
)

type contextKey string

const userIDKey contextKey = "user_id"

// SetUserID returns a context carrying the authenticated user id.
func SetUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID retrieves the authenticated user id from the context.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

// Authenticate validates the request token and injects the user id into the
// request context.
type Authenticate struct {
	tokens model.TokenManager
	logger *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, logger: logger}
}

// Handle extracts the token, verifies it and passes the request on with the
// user id bound to the context. Absence of a token is reported separately
// from an expired or invalid one.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.Authorize(r)
		if err != nil {
			response.Error(w, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetUserID(r.Context(), userID)))
	})
}

// Authorize extracts and verifies the request token and returns the user id.
// Handlers that must validate their payload before authenticating call this
// directly instead of sitting behind Handle.
func (m *Authenticate) Authorize(r *http.Request) (uuid.UUID, error) {
	tokenString, ok := ExtractToken(r.Header)
	if !ok {
		return uuid.Nil, apierrors.NewMissingAuthToken()
	}

	claims, err := m.tokens.Verify(tokenString)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return uuid.Nil, apierrors.NewTokenExpired()
		}
		return uuid.Nil, apierrors.NewTokenInvalid()
	}

	// A verified token without a user id claim still cannot
	// authenticate anyone.
	if claims.UserID == uuid.Nil {
		return uuid.Nil, apierrors.NewInvalidCredentials()
	}

	return claims.UserID, nil
}

// ExtractToken looks for the token in the `token` cookie first, then in a
// Bearer Authorization header. The second return value is false when neither
// is present.
func ExtractToken(headers http.Header) (string, bool) {
	if cookieHeader := headers.Get("Cookie"); cookieHeader != "" {
		for _, cookie := range strings.Split(cookieHeader, ";") {
			cookie = strings.TrimSpace(cookie)
			if value, found := strings.CutPrefix(cookie, "token="); found {
				return value, value != ""
			}
		}
	}

	if authHeader := headers.Get("Authorization"); authHeader != "" {
		if value, found := strings.CutPrefix(authHeader, "Bearer "); found {
			return value, value != ""
		}
	}

	return "", false
}
