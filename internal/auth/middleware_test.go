package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/identity-gateway/pkg/util"
)

func newGateApp(tokens *TokenManager) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Message)
		},
	})

	gate := NewAuthMiddleware(tokens, Exempt(
		ExemptRoute{Method: fiber.MethodPost, Path: "/identities"},
	))
	app.Use(gate.Handle)

	app.Post("/identities", func(c *fiber.Ctx) error {
		return c.SendString("registered")
	})
	app.Get("/identities/:id", func(c *fiber.Ctx) error {
		subject, ok := SubjectFromContext(c)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).SendString("no subject bound")
		}
		return c.SendString(subject)
	})
	return app
}

func TestGateExemptRoutePassesThrough(t *testing.T) {
	app := newGateApp(NewTokenManager("unit-test-secret", 60))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/identities", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGateRejectsMissingHeader(t *testing.T) {
	app := newGateApp(NewTokenManager("unit-test-secret", 60))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/identities/abc", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "invalid or expired token", string(body))
}

func TestGateRejectionIsUniform(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", 60)
	app := newGateApp(tm)

	valid, _, err := tm.Issue("subject-1")
	require.NoError(t, err)

	expiredMgr := &TokenManager{codec: NewCodec("unit-test-secret"), ttl: -time.Minute}
	expired, _, err := expiredMgr.Issue("subject-1")
	require.NoError(t, err)

	forged, _, err := NewTokenManager("another-secret", 60).Issue("subject-1")
	require.NoError(t, err)

	headers := map[string]string{
		"no bearer prefix": valid,
		"lowercase bearer": "bearer " + valid,
		"expired token":    "Bearer " + expired,
		"forged signature": "Bearer " + forged,
		"garbage token":    "Bearer not-a-token",
	}
	for name, header := range headers {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/identities/abc", nil)
			req.Header.Set(fiber.HeaderAuthorization, header)

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, "invalid or expired token", string(body))
		})
	}
}

func TestGateBindsSubject(t *testing.T) {
	tm := NewTokenManager("unit-test-secret", 60)
	app := newGateApp(tm)

	token, _, err := tm.Issue("subject-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/identities/abc", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "subject-1", string(body))
}

func TestGatePanicDuringEvaluationRejects(t *testing.T) {
	// A nil token manager makes credential evaluation panic; the gate must
	// turn that into a rejection, never a 500.
	app := newGateApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/identities/abc", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer some-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubjectFromContextAbsent(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := SubjectFromContext(c)
		require.False(t, ok)
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}
