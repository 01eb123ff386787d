package validation

import (
	"fmt"
	"strings"
	"unicode"
)

const passwordSpecials = "@$!%*#?&^_-"

// ValidatePassword enforces the account password policy: at least 8
// characters with an upper-case letter, a lower-case letter, four digits and
// one of @$!%*#?&^_-.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	var upper, lower, special bool
	digits := 0
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digits++
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}

	if !upper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !lower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if digits < 4 {
		return fmt.Errorf("password must contain at least 4 digits")
	}
	if !special {
		return fmt.Errorf("password must contain at least one special character (%s)", passwordSpecials)
	}
	return nil
}
