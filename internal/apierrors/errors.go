// Package apierrors defines the error taxonomy surfaced at the API boundary.
// Every APIError maps to a single JSON error object {"error": "<message>"}
// with its HTTP status; message strings are part of the client contract and
// must stay stable.
package apierrors

import "fmt"

// APIError is an error with an HTTP status and a client-facing message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// New creates an APIError with the given status and message.
func New(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// Validation errors (400).

func NewInvalidJSON() *APIError {
	return New(400, "Invalid JSON format")
}

func NewMissingRequestBody() *APIError {
	return New(400, "Request body is required")
}

func NewMissingFields() *APIError {
	return New(400, "Username and password are required")
}

func NewInvalidUsername() *APIError {
	return New(400, "Username must be between 3 and 20 characters")
}

func NewInvalidPassword() *APIError {
	return New(400, "Password must be between 8 and 20 characters")
}

func NewPasswordNoDigit() *APIError {
	return New(400, "Password must contain at least one digit")
}

func NewPasswordNoLetter() *APIError {
	return New(400, "Password must contain at least one letter")
}

func NewMissingEmail() *APIError {
	return New(400, "Email is required")
}

func NewMissingDescription() *APIError {
	return New(400, "Description is required")
}

func NewInvalidDescription() *APIError {
	return New(400, "Description must be between 1 and 255 characters")
}

func NewInvalidDueDate() *APIError {
	return New(400, "Due date must be in YYYY-MM-DD format")
}

func NewDueDateInPast() *APIError {
	return New(400, "Due date cannot be in the past")
}

func NewInvalidTaskStatus() *APIError {
	return New(400, "Invalid task status")
}

func NewMissingTaskID() *APIError {
	return New(400, "Task ID is required")
}

func NewMissingImageData() *APIError {
	return New(400, "Missing image data")
}

func NewInvalidImageData() *APIError {
	return New(400, "Invalid image data format")
}

// Auth errors (401).

func NewInvalidCredentials() *APIError {
	return New(401, "Invalid username or password")
}

func NewMissingAuthToken() *APIError {
	return New(401, "Missing authentication token")
}

func NewTokenExpired() *APIError {
	return New(401, "JWT token has expired")
}

func NewTokenInvalid() *APIError {
	return New(401, "Invalid JWT token")
}

// Not found (404) and conflicts (409).

func NewUserNotFound() *APIError {
	return New(404, "User not found")
}

func NewTaskNotFound() *APIError {
	return New(404, "Task not found")
}

func NewTaskUpdateFailed() *APIError {
	return New(404, "Failed to update task")
}

func NewUserAlreadyExists() *APIError {
	return New(409, "User already exists")
}

// Dependency and internal errors (500). Raw detail is logged server-side
// only; the response carries a correlation id instead.

func NewProfileUpdateFailed() *APIError {
	return New(500, "Failed to update profile image")
}

func NewTaskCreationFailed() *APIError {
	return New(500, "Failed to create task")
}

func NewTaskDeletionFailed() *APIError {
	return New(500, "Failed to delete task")
}

func NewInternal(errorID string) *APIError {
	return New(500, fmt.Sprintf("Internal server error (error_id: %s)", errorID))
}
