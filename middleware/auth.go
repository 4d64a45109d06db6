package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"catalog/models"
	"catalog/security"
)

// TokenHeader carries the caller's API token.
const TokenHeader = "x-api-token"

type ctxKey int

const callerKey ctxKey = iota

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Authenticate resolves the caller from the token header. Requests without
// the header continue anonymously; a token that does not resolve ends the
// request.
func Authenticate(users Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(TokenHeader)
		if token == "" {
			return c.Next()
		}
		u, err := users.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(callerKey, security.NewCaller(u))
		return c.Next()
	}
}

// Caller returns the authenticated caller, or nil for anonymous requests.
func Caller(c *fiber.Ctx) *security.Caller {
	caller, _ := c.Locals(callerKey).(*security.Caller)
	return caller
}
