// Package validation holds the pure input validators for login credentials
// and task fields. Checks run in a fixed order and the first violated rule
// determines the returned error.
package validation

import (
	"time"
	"unicode"

	"github.com/taskdeck/taskdeck-server/internal/apierrors"
	"github.com/taskdeck/taskdeck-server/internal/model"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
	minPasswordLength = 8
	maxPasswordLength = 20

	maxDescriptionLength = 255

	dueDateLayout = "2006-01-02"
)

// ValidateLogin checks login credentials: presence, username length,
// password length, then password character classes.
func ValidateLogin(username, password string) error {
	if username == "" || password == "" {
		return apierrors.NewMissingFields()
	}
	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return apierrors.NewInvalidUsername()
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return apierrors.NewInvalidPassword()
	}
	if !containsClass(password, unicode.IsDigit) {
		return apierrors.NewPasswordNoDigit()
	}
	if !containsClass(password, unicode.IsLetter) {
		return apierrors.NewPasswordNoLetter()
	}

	return nil
}

// ValidateTask checks a full task payload. The due date and status are
// optional; empty strings pass.
func ValidateTask(description, dueDate, status string) error {
	if err := ValidateDescription(description); err != nil {
		return err
	}
	if dueDate != "" {
		if err := ValidateDueDate(dueDate); err != nil {
			return err
		}
	}
	if status != "" && !model.TaskStatus(status).Valid() {
		return apierrors.NewInvalidTaskStatus()
	}

	return nil
}

// ValidateDescription checks presence and length of a task description.
func ValidateDescription(description string) error {
	if description == "" {
		return apierrors.NewMissingDescription()
	}
	if len(description) > maxDescriptionLength {
		return apierrors.NewInvalidDescription()
	}
	return nil
}

// ValidateDueDate checks the YYYY-MM-DD shape and rejects calendar dates
// before today.
func ValidateDueDate(dueDate string) error {
	_, err := ParseDueDate(dueDate)
	return err
}

// ValidateStatus checks membership in the status enum.
func ValidateStatus(status string) error {
	if !model.TaskStatus(status).Valid() {
		return apierrors.NewInvalidTaskStatus()
	}
	return nil
}

// ParseDueDate parses a YYYY-MM-DD due date and rejects dates before today.
func ParseDueDate(dueDate string) (time.Time, error) {
	parsed, err := time.Parse(dueDateLayout, dueDate)
	if err != nil {
		return time.Time{}, apierrors.NewInvalidDueDate()
	}

	// Calendar-date comparison: both sides rendered through the same
	// layout, so no wall-clock or zone arithmetic is involved.
	if parsed.Format(dueDateLayout) < time.Now().Format(dueDateLayout) {
		return time.Time{}, apierrors.NewDueDateInPast()
	}

	return parsed, nil
}

func containsClass(s string, class func(rune) bool) bool {
	for _, r := range s {
		if class(r) {
			return true
		}
	}
	return false
}
