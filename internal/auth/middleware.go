package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/identity-gateway/pkg/util"
)

const subjectKey = "auth_subject"

// rejectionDetail is the single externally visible failure reason. A missing
// header, a bad prefix, a forged signature and an expired token are
// indistinguishable to the caller.
const rejectionDetail = "invalid or expired token"

// ExemptionPredicate reports whether a request bypasses authentication.
type ExemptionPredicate func(method, path string) bool

// ExemptRoute names a method+path pair that skips the gate.
type ExemptRoute struct {
	Method string
	Path   string
}

// Exempt builds a predicate allowing exactly the listed routes.
func Exempt(routes ...ExemptRoute) ExemptionPredicate {
	allowed := make(map[ExemptRoute]struct{}, len(routes))
	for _, r := range routes {
		allowed[r] = struct{}{}
	}
	return func(method, path string) bool {
		_, ok := allowed[ExemptRoute{Method: method, Path: path}]
		return ok
	}
}

// AuthMiddleware enforces bearer-token authentication on every route the
// exemption predicate does not allow through.
type AuthMiddleware struct {
	tokens *TokenManager
	exempt ExemptionPredicate
}

// NewAuthMiddleware constructs the gate.
func NewAuthMiddleware(tokens *TokenManager, exempt ExemptionPredicate) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, exempt: exempt}
}

// Handle evaluates authentication at most once per request: exempt paths
// pass through untouched, everything else either proceeds with the verified
// subject bound to the request or short-circuits with a 401.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if m.exempt != nil && m.exempt(c.Method(), c.Path()) {
		return c.Next()
	}

	subject, ok := m.evaluate(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized(rejectionDetail)
	}

	c.Locals(subjectKey, subject)
	return c.Next()
}

// evaluate never lets a failure escape as anything but a rejection; a panic
// while inspecting the credential must not surface as a 500.
func (m *AuthMiddleware) evaluate(header string) (subject string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			subject, ok = "", false
		}
	}()

	subject, err := m.tokens.ExtractSubject(header)
	if err != nil {
		return "", false
	}
	return subject, true
}

// SubjectFromContext retrieves the subject bound by the gate.
func SubjectFromContext(c *fiber.Ctx) (string, bool) {
	subject, ok := c.Locals(subjectKey).(string)
	return subject, ok && subject != ""
}
