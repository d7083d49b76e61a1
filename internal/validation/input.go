package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input limits shared by the handlers and services.
const (
	MinUsernameLength       = 3
	MaxUsernameLength       = 30
	MinDescriptionLength    = 10
	MaxDescriptionLength    = 3000
	MaxReasonLength         = 1000
	MaxNoteLength           = 2000
	MaxResolutionLength     = 3000
	MaxNameLength           = 100
	MaxContactNoLength      = 20
	MinAmount               = 0.0
	MaxAmount               = 10000000.0
	MaxLocationFieldLength  = 150
)

// ValidateLength checks the rune length of a string field.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty rejects blank values.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateAmount bounds monetary amounts.
func ValidateAmount(fieldName string, amount float64) error {
	if amount < MinAmount {
		return fmt.Errorf("%s cannot be negative", fieldName)
	}
	if amount > MaxAmount {
		return fmt.Errorf("%s exceeds the allowed maximum", fieldName)
	}
	return nil
}

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// ValidateEmail checks the email format.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("invalid email format")
	}

	local, domain := parts[0], parts[1]
	if len(local) == 0 || len(local) > 64 {
		return fmt.Errorf("email local part must be between 1 and 64 characters")
	}
	if len(domain) == 0 || len(domain) > 255 {
		return fmt.Errorf("email domain must be between 1 and 255 characters")
	}
	if !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("email local part contains invalid characters")
	}
	if !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("email domain has an invalid format")
	}

	return nil
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateUsername checks length and allowed characters.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if err := ValidateLength("username", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may only contain letters, digits, underscore, dot and dash")
	}
	return nil
}
