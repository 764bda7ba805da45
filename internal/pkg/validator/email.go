package validator

import (
	"errors"
	"strings"
)

// ValidateEmail checks the shape of an address before it is stored or looked
// up. It does not verify deliverability; tenants bring whatever addresses
// their identity provider issues.
func ValidateEmail(email string) error {
	if email == "" || len(email) > 254 {
		return errors.New("invalid email length")
	}
	if strings.ContainsAny(email, " \t\n") {
		return errors.New("invalid email format")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("invalid email format")
	}

	domain := parts[1]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return errors.New("invalid email domain")
	}

	return nil
}
