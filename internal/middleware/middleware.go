package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"leftys-backend/domain"
	"leftys-backend/internal/api/presenters"
	"leftys-backend/pkg/account"
	"leftys-backend/pkg/auth0"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(verifier auth0.Verifier) fiber.Handler
		// AccountMiddleware resolves the verified principal into a local
		// account, creating one on first sight, and rejects banned accounts.
		AccountMiddleware(accountService account.AccountService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

// AuthMiddleware verifies the bearer token and stores the authenticated
// principal in locals for handlers to resolve an account from.
func (m *middleware) AuthMiddleware(verifier auth0.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		principal, err := verifier.Verify(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}

		c.Locals("principal", principal)
		return c.Next()
	}
}

func (m *middleware) AccountMiddleware(accountService account.AccountService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := c.Locals("principal").(domain.Principal)
		if !ok {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		acct, err := accountService.ResolveAccount(c.Context(), principal)
		if err != nil {
			if errors.Is(err, domain.ErrAccountBanned) {
				return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedProcessRequest, err)
			}
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}

		c.Locals("account_id", acct.ID.String())
		c.Locals("account", acct)
		return c.Next()
	}
}
