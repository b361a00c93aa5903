package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/identity-gateway/internal/api/dto"
	"github.com/spec-kit/identity-gateway/internal/service"
	apperrors "github.com/spec-kit/identity-gateway/pkg/util"
)

// IdentitiesHandler exposes registration and re-authentication endpoints.
type IdentitiesHandler struct {
	identities *service.IdentityService
}

// NewIdentitiesHandler constructs handler.
func NewIdentitiesHandler(identityService *service.IdentityService) *IdentitiesHandler {
	return &IdentitiesHandler{identities: identityService}
}

// Register handles POST /identities.
func (h *IdentitiesHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required")
	}

	identity, token, _, err := h.identities.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phones:   req.ToPhones(),
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.ToRegisterResponse(identity, token))
}

// Reauthenticate handles GET /identities/:id. The gate has already verified
// the bearer token; this handler only resolves the path identifier.
func (h *IdentitiesHandler) Reauthenticate(c *fiber.Ctx) error {
	identity, token, _, err := h.identities.Reauthenticate(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(dto.ToIdentityResponse(identity, token))
}
