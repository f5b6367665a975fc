package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmetcoskunkizilkaya/todo-api/internal/auth"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/store"
	"github.com/ahmetcoskunkizilkaya/todo-api/internal/tenant"
)

type authEnv struct {
	app     *fiber.App
	codec   *auth.TokenCodec
	account *services.AccountService
}

func newAuthEnv(t *testing.T, strategy string) *authEnv {
	t.Helper()
	cfg := &config.Config{Auth: config.Auth{Strategy: strategy}}

	vault, err := auth.NewPasswordVault(bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := auth.NewTokenCodec(auth.StaticSecrets{Signing: "sign", Encryption: "seal"}, time.Hour)
	require.NoError(t, err)

	s := store.NewMemoryStore()
	var resolver services.IdentityResolver = services.NewStatelessResolver(s, codec)
	if cfg.Stateful() {
		resolver = services.NewStatefulResolver(s, s, codec)
	}

	app := fiber.New()
	app.Get("/me", RequireAuth(cfg, resolver, codec), func(c *fiber.Ctx) error {
		user, err := tenant.GetUser(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"email": user.Email, "hasToken": tenant.GetToken(c) != nil})
	})

	return &authEnv{
		app:     app,
		codec:   codec,
		account: services.NewAccountService(s, s, vault, codec, cfg.Stateful()),
	}
}

func (e *authEnv) login(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.account.Register(ctx, dto.RegisterRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	_, token, err := e.account.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	return token
}

func (e *authEnv) get(t *testing.T, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set(AuthHeader, token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestRequireAuth(t *testing.T) {
	for _, strategy := range []string{config.StrategyStateful, config.StrategyStateless} {
		t.Run(strategy, func(t *testing.T) {
			env := newAuthEnv(t, strategy)
			token := env.login(t)

			status, body := env.get(t, token)
			assert.Equal(t, fiber.StatusOK, status)
			assert.Equal(t, "a@x.com", body["email"])
			assert.Equal(t, strategy == config.StrategyStateful, body["hasToken"])

			status, body = env.get(t, "")
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.Equal(t, "authentication failed", body["Error"])

			status, _ = env.get(t, "not-a-token")
			assert.Equal(t, fiber.StatusUnauthorized, status)

			status, _ = env.get(t, token[:len(token)-2])
			assert.Equal(t, fiber.StatusUnauthorized, status)

			ghost, err := env.codec.Issue(uuid.New(), auth.TypeAuthentication)
			require.NoError(t, err)
			status, _ = env.get(t, ghost)
			assert.Equal(t, fiber.StatusUnauthorized, status)
		})
	}
}

func TestCORSExposesAuthHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(&config.Config{CORSOrigins: "*"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, AuthHeader, resp.Header.Get(fiber.HeaderAccessControlExposeHeaders))
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}
