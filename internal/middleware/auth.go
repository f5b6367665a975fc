package middleware

import (
	"errors"
	"log/slog"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/tenant"
)

// AuthHeader carries the bearer token on requests and on the login response.
const AuthHeader = "Auth"

// jwtContextKey keeps the parsed JWT away from the "user" local, which holds
// the resolved account.
const jwtContextKey = "jwt"

// RequireAuth resolves the Auth header into a user for the configured
// strategy. A request that fails never reaches the next handler.
func RequireAuth(cfg *config.Config, resolver services.IdentityResolver, codec *auth.TokenCodec) fiber.Handler {
	if cfg.Stateful() {
		return func(c *fiber.Ctx) error {
			return resolve(c, resolver, c.Get(AuthHeader))
		}
	}

	return jwtware.New(jwtware.Config{
		KeyFunc:     codec.KeyFunc,
		Claims:      &auth.Claims{},
		TokenLookup: "header:" + AuthHeader,
		ContextKey:  jwtContextKey,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(jwtContextKey).(*jwt.Token)
			if !ok {
				return unauthorized(c)
			}
			return resolve(c, resolver, token.Raw)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func resolve(c *fiber.Ctx, resolver services.IdentityResolver, raw string) error {
	identity, err := resolver.Resolve(c.UserContext(), raw)
	if err != nil {
		return authFailure(c, err)
	}
	tenant.SetPrincipal(c, identity.User, identity.Token)
	return c.Next()
}

func authFailure(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnavailable):
		slog.Warn("auth lookup unavailable", "request_id", requestID(c), "error", err.Error())
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Error: services.ErrUnavailable.Error()})
	case errors.Is(err, services.ErrStore):
		slog.Error("auth lookup failed", "request_id", requestID(c), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: services.ErrStore.Error()})
	default:
		return unauthorized(c)
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: services.ErrAuthenticationFailed.Error(),
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
