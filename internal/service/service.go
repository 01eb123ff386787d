// Package service holds the business logic behind the HTTP handlers.
package service

import (
	"strings"

	"jobboard/internal/models"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   uint
	Role models.Role
}

// IsAdmin reports whether the actor bypasses ownership checks.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// cleanList trims entries and drops empty ones. A nil input stays nil.
func cleanList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
