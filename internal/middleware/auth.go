// Package middleware provides authentication, authorization and request plumbing for the HTTP layer.
package middleware

import (
	"context"
	"errors"
	"slices"
	"strings"

	"jobboard/internal/auth"
	"jobboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired.
const (
	LocalUserID = "userID"
	LocalRole   = "role"
	LocalClaims = "claims"
)

// TokenVerifier validates a session token.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// UserLookup loads the current state of an authenticated user.
type UserLookup func(ctx context.Context, id uint) (*models.User, error)

// RevocationCheck reports whether a token id has been revoked.
type RevocationCheck func(ctx context.Context, jti string) bool

// AuthConfig wires AuthRequired to its collaborators. Lookup and Revoked are optional.
type AuthConfig struct {
	Verifier TokenVerifier
	Lookup   UserLookup
	Revoked  RevocationCheck
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewError(models.CodeNoToken, "No token provided, authorization denied"))
		}

		claims, err := cfg.Verifier.VerifyToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewError(models.CodeTokenExpired, "Token has expired"))
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewError(models.CodeInvalidToken, "Token is not valid"))
		}

		if cfg.Revoked != nil && claims.ID != "" && cfg.Revoked(c.UserContext(), claims.ID) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewError(models.CodeInvalidToken, "Token has been revoked"))
		}

		userID, err := claims.UserID()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewError(models.CodeInvalidToken, "Token is not valid"))
		}
		role := models.Role(claims.Role)

		// The stored role wins over the one baked into the token.
		if cfg.Lookup != nil {
			user, err := cfg.Lookup(c.UserContext(), userID)
			if err != nil {
				var appErr *models.AppError
				if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewError(models.CodeInvalidToken, "User no longer exists"))
				}
				return models.RespondWithError(c, fiber.StatusInternalServerError, err)
			}
			if !user.IsActive {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewError(models.CodeAccountDeactivated, "Account deactivated"))
			}
			role = user.Role
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		c.Locals(LocalClaims, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))

		return c.Next()
	}
}

// RoleFrom returns the authenticated role stored by AuthRequired.
func RoleFrom(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(LocalRole).(models.Role)
	return role
}

// UserIDFrom returns the authenticated user id stored by AuthRequired.
func UserIDFrom(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// RequireRoles rejects callers whose role is not in the allow-list. Must run after AuthRequired.
func RequireRoles(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !slices.Contains(roles, RoleFrom(c)) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("You do not have permission to perform this action"))
		}
		return c.Next()
	}
}

// AdminRequired rejects non-admin callers with 403. Must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if RoleFrom(c) != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewError(models.CodeNotAdmin, "Admin access required"))
		}
		return c.Next()
	}
}
