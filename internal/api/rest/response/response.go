// Package response shapes the uniform JSON success and error payloads and
// the auth cookie every endpoint uses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/logger"
)

const cookieMaxAge = 86400

// JSON writes a success payload with the standard content type.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Message writes a `{"message": ...}` payload.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// Error writes a `{"error": ...}` payload. Errors outside the API taxonomy
// become an opaque 500 carrying a correlation id; the raw error is logged
// with the same id and never sent to the client.
func Error(w http.ResponseWriter, log *logger.Logger, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		errorID := uuid.NewString()
		log.Error("request failed with internal error",
			"error_id", errorID,
			"error", err.Error())
		apiErr = apierrors.NewInternal(errorID)
	}

	JSON(w, apiErr.Status, map[string]string{"error": apiErr.Message})
}

// AuthCookie returns the cookie carrying a freshly issued token.
func AuthCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearCookie returns the cookie that immediately expires the token.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
}
