package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/tenant"
)

type UserHandler struct {
	accountService *services.AccountService
}

func NewUserHandler(accountService *services.AccountService) *UserHandler {
	return &UserHandler{accountService: accountService}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.accountService.Register(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// Login answers with the public user and puts the token in the Auth header.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, token, err := h.accountService.Login(c.UserContext(), req)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(middleware.AuthHeader, token)
	return c.JSON(user)
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	user, err := tenant.GetUser(c)
	if err != nil {
		return writeError(c, services.ErrAuthenticationFailed)
	}

	identity := &services.Identity{User: user, Token: tenant.GetToken(c)}
	if err := h.accountService.Logout(c.UserContext(), identity); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
