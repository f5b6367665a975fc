package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/tenant"
)

type TodoHandler struct {
	todoService *services.TodoService
}

func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

// List supports ?completed=true|false and ?q=<substring>. Any completed
// value other than "true" filters for open todos.
func (h *TodoHandler) List(c *fiber.Ctx) error {
	user, err := tenant.GetUser(c)
	if err != nil {
		return writeError(c, services.ErrAuthenticationFailed)
	}

	var filter dto.TodoFilter
	if c.Context().QueryArgs().Has("completed") {
		completed := c.Query("completed") == "true"
		filter.Completed = &completed
	}
	filter.Query = strings.TrimSpace(c.Query("q"))

	todos, err := h.todoService.List(c.UserContext(), user.ID, filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(todos)
}

func (h *TodoHandler) Get(c *fiber.Ctx) error {
	user, id, err := ownerAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	todo, err := h.todoService.Get(c.UserContext(), user, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(todo)
}

func (h *TodoHandler) Create(c *fiber.Ctx) error {
	user, err := tenant.GetUser(c)
	if err != nil {
		return writeError(c, services.ErrAuthenticationFailed)
	}

	var req dto.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	todo, err := h.todoService.Create(c.UserContext(), user.ID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(todo)
}

func (h *TodoHandler) Update(c *fiber.Ctx) error {
	user, id, err := ownerAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req dto.UpdateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	todo, err := h.todoService.Update(c.UserContext(), user, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(todo)
}

func (h *TodoHandler) Delete(c *fiber.Ctx) error {
	user, id, err := ownerAndID(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.todoService.Delete(c.UserContext(), user, id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ownerAndID reads the caller and the :id param. An id that is not a UUID
// cannot exist, so it is reported as not found.
func ownerAndID(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	user, err := tenant.GetUser(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, services.ErrAuthenticationFailed
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, services.ErrNotFound
	}
	return user.ID, id, nil
}
