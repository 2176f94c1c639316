package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"devconnector/internal/pkg/jwt"
	"devconnector/internal/pkg/response"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zerolog.Nop()).Middleware())
	app.Use(NewErrorMiddleware(zerolog.Nop()).Middleware())
	return app
}

func doGet(t *testing.T, app *fiber.App, path string, headers map[string]string) response.SemanticResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	var out response.SemanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
	if out.Status != resp.StatusCode {
		t.Fatalf("GET %s: envelope status %d != %d", path, out.Status, resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatalf("GET %s: missing request id", path)
	}
	return out
}

func TestErrorMiddleware(t *testing.T) {
	app := newTestApp()
	app.Get("/bad", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusBadRequest, "Text is required", fiber.Map{"field": "text"}, nil)
	})
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password is hunter2", nil, errors.New("dial tcp"))
	})
	app.Get("/plain", func(c fiber.Ctx) error {
		return errors.New("unexpected")
	})
	app.Get("/fiber", func(c fiber.Ctx) error {
		return fiber.ErrMethodNotAllowed
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("nil map")
	})

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/bad", fiber.StatusBadRequest, "Text is required"},
		{"/boom", fiber.StatusInternalServerError, response.MessageInternalServerError},
		{"/plain", fiber.StatusInternalServerError, response.MessageInternalServerError},
		{"/fiber", fiber.StatusMethodNotAllowed, "Method Not Allowed"},
		{"/panic", fiber.StatusInternalServerError, response.MessageInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := doGet(t, app, tt.path, nil)
			if res.Status != tt.status || res.Message != tt.message {
				t.Fatalf("got %d %q, want %d %q", res.Status, res.Message, tt.status, tt.message)
			}
			if tt.status >= 500 && res.Data != nil {
				t.Fatalf("5xx must not carry data: %v", res.Data)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	svc := jwt.NewHMACService("test-secret", time.Hour)
	auth := NewAuthMiddleware(svc, zerolog.Nop())

	app := newTestApp()
	app.Get("/me", auth.Middleware(), func(c fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "", nil, nil)
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, id.String())
	})

	userID := uuid.New()
	tok, err := svc.GenerateToken(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired := expiredToken(t, "test-secret", userID)

	res := doGet(t, app, "/me", map[string]string{HeaderAuthToken: tok})
	if res.Status != fiber.StatusOK || res.Data != userID.String() {
		t.Fatalf("valid token: %+v", res)
	}

	res = doGet(t, app, "/me", nil)
	if res.Status != fiber.StatusUnauthorized || res.Message != MessageNoToken {
		t.Fatalf("missing token: %+v", res)
	}

	for name, bad := range map[string]string{
		"garbage": "not.a.token",
		"expired": expired,
		"bearer":  "Bearer " + tok,
	} {
		res = doGet(t, app, "/me", map[string]string{HeaderAuthToken: bad})
		if res.Status != fiber.StatusUnauthorized || res.Message != MessageInvalidToken {
			t.Fatalf("%s: %+v", name, res)
		}
	}
}

func expiredToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()

	c := jwt.Claims{
		User: jwt.UserClaim{ID: userID.String()},
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	tok, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}
