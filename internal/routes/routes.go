package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/handlers"
)

// Setup registers every route. storage backs the rate limiters and may be
// nil for in-process counters.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	storage fiber.Storage,
	requireAuth fiber.Handler,
	userHandler *handlers.UserHandler,
	todoHandler *handlers.TodoHandler,
	healthHandler *handlers.HealthHandler,
) {
	// General rate limiter per IP
	app.Use(rateLimiter(cfg.RateLimit, storage))

	app.Get("/", handlers.Root)
	app.Get("/health", healthHandler.Check)

	// Account routes get a stricter limit
	users := app.Group("/users", rateLimiter(cfg.AuthRateLimit, storage))
	users.Post("/", userHandler.Register)
	users.Post("/login", userHandler.Login)
	users.Delete("/login", requireAuth, userHandler.Logout)

	todos := app.Group("/todos", requireAuth)
	todos.Get("/", todoHandler.List)
	todos.Get("/:id", todoHandler.Get)
	todos.Post("/", todoHandler.Create)
	todos.Put("/:id", todoHandler.Update)
	todos.Delete("/:id", todoHandler.Delete)
}

func rateLimiter(perMinute int, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               perMinute,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		Storage:           storage,
	})
}
