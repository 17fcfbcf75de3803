package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	t.Cleanup(func() { config.AppConfig = prev })
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func whoAmI(c *fiber.Ctx) error {
	return JsonResponse(c, fiber.StatusOK, true, UserID(c), c.Locals("role"))
}

func TestJWTMiddleware(t *testing.T) {
	setupConfig(t)
	app := fiber.New()
	app.Get("/me", JWTMiddleware, whoAmI)

	token, err := GenerateJWT("user_42", "teacher", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	env := decode(t, resp)
	assert.Equal(t, "user_42", env.Message)
	assert.JSONEq(t, `"teacher"`, string(env.Data))
}

func TestJWTMiddlewareRejects(t *testing.T) {
	setupConfig(t)
	app := fiber.New()
	app.Get("/me", JWTMiddleware, whoAmI)

	expired, err := GenerateJWT("user_42", "", -time.Minute)
	require.NoError(t, err)
	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "x"}).SignedString([]byte("other"))
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "teacher"}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Token abc",
		"expired":        "Bearer " + expired,
		"wrong key":      "Bearer " + otherKey,
		"no subject":     "Bearer " + noSubject,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.False(t, decode(t, resp).Status)
		})
	}
}

func TestRequireRole(t *testing.T) {
	setupConfig(t)
	app := fiber.New()
	app.Get("/teacher", JWTMiddleware, RequireRole("teacher", "admin"), whoAmI)

	for role, want := range map[string]int{"teacher": 200, "admin": 200, "student": 403, "": 403} {
		token, err := GenerateJWT("u1", role, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/teacher", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "role %q", role)
	}
}

func TestHandleError(t *testing.T) {
	verr := &services.ValidationError{Fields: []services.FieldError{
		{Field: "description", Error: "is required"},
		{Field: "imageUrl", Error: "is required"},
	}}
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrUnauthenticated, 401},
		{fmt.Errorf("load course: %w", services.ErrNotFound), 404},
		{services.ErrForbidden, 403},
		{services.ErrConflict, 409},
		{verr, 400},
		{fmt.Errorf("db down"), 500},
	}
	for _, tc := range cases {
		app := fiber.New()
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return HandleError(c, err) })
		resp, reqErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, reqErr)
		assert.Equal(t, tc.code, resp.StatusCode, tc.err.Error())

		env := decode(t, resp)
		assert.False(t, env.Status)
		if tc.code == 400 {
			var fields []services.FieldError
			require.NoError(t, json.Unmarshal(env.Data, &fields))
			assert.Len(t, fields, 2)
		}
		if tc.code == 500 {
			assert.NotContains(t, env.Message, "db down")
		}
	}
}

func TestFixedWindowLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter, err := NewFixedWindowLimiter(client, "test:ratelimit", 2, time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/", RateLimit(limiter), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestFixedWindowLimiterFailsClosed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter, err := NewFixedWindowLimiter(client, "", 5, time.Minute)
	require.NoError(t, err)
	mr.Close()
	assert.False(t, limiter.Allow(context.Background(), "user"))
}

func TestNewFixedWindowLimiterValidates(t *testing.T) {
	_, err := NewFixedWindowLimiter(nil, "", 1, time.Second)
	assert.Error(t, err)
	_, err = NewFixedWindowLimiter(redis.NewClient(&redis.Options{}), "", 0, time.Second)
	assert.Error(t, err)
}
