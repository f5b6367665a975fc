package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/models"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

var ErrNoPrincipal = errors.New("no authenticated user in context")

// SetPrincipal attaches the authenticated user, and under the stateful
// strategy its session token, to the request.
func SetPrincipal(c *fiber.Ctx, user *models.User, token *models.Token) {
	c.Locals(userKey, user)
	if token != nil {
		c.Locals(tokenKey, token)
	}
}

// GetUser returns the authenticated user set by the auth middleware.
func GetUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoPrincipal
	}
	return user, nil
}

// GetToken returns the stored session token, or nil under the stateless strategy.
func GetToken(c *fiber.Ctx) *models.Token {
	token, _ := c.Locals(tokenKey).(*models.Token)
	return token
}
