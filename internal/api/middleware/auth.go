package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/toonhive/toonhive/internal/errs"
	"github.com/toonhive/toonhive/internal/services/session"
)

const identityKey = "identity"

// Authenticate resolves the bearer token through the session oracle and
// stores the caller identity on the request context.
func Authenticate(oracle session.Oracle) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer"))
		identity, err := oracle.Identify(token)
		if err != nil {
			return err
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// RequireRole gates a route group on the oracle-reported role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := CurrentIdentity(c)
		if identity == nil {
			return errs.Unauthenticated("missing credentials")
		}
		if !identity.HasRole(role) {
			return errs.Unauthorized("insufficient role")
		}
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by Authenticate, or nil on
// unauthenticated routes.
func CurrentIdentity(c *fiber.Ctx) *session.Identity {
	identity, _ := c.Locals(identityKey).(*session.Identity)
	return identity
}
