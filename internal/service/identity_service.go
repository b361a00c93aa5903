package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/identity-gateway/internal/auth"
	"github.com/spec-kit/identity-gateway/internal/config"
	"github.com/spec-kit/identity-gateway/internal/domain"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/repository"
	apperrors "github.com/spec-kit/identity-gateway/pkg/util"
)

// RegisterInput carries the candidate identity data.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phones   []domain.Phone
}

// IdentityService orchestrates registration and re-authentication atop the
// token manager and the identity store.
type IdentityService struct {
	identities repository.IdentityRepository
	cache      *repository.ProjectionCache
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// IdentityDependencies encapsulates collaborator requirements.
type IdentityDependencies struct {
	IdentityRepo repository.IdentityRepository
	Cache        *repository.ProjectionCache
	Dispatcher   events.Dispatcher
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.Config, deps IdentityDependencies) *IdentityService {
	return &IdentityService{
		identities: deps.IdentityRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register validates the candidate, persists it once, and returns the stored
// identity with a freshly issued token. Validation and hashing happen before
// any persistence call.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*domain.Identity, string, time.Time, error) {
	if !IsValidEmail(input.Email) {
		return nil, "", time.Time{}, apperrors.NewValidationError("email format is invalid")
	}
	if !IsValidPassword(input.Password) {
		return nil, "", time.Time{}, apperrors.NewValidationError(
			"password format is invalid: must contain exactly 1 uppercase letter, 2 digits, only lowercase letters, and be 8-12 characters long")
	}

	if _, err := s.identities.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("identity already exists")
	} else if err != pgx.ErrNoRows {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now().UTC()
	identity := &domain.Identity{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		IsActive:     true,
		Phones:       input.Phones,
		LastLogin:    now,
		Created:      now,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, "", time.Time{}, apperrors.NewConflict("identity already exists")
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(identity.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.cache.Set(ctx, identity)
	s.publish(ctx, events.EventIdentityRegistered, identity.ID, events.IdentityRegisteredPayload{
		Email:      identity.Email,
		PhoneCount: len(identity.Phones),
	})

	return identity, token, exp, nil
}

// Reauthenticate looks up the identity, bumps its last login, persists the
// change once, and returns the updated identity with a fresh token. The
// bearer check happened upstream in the gate; this layer only resolves the
// reference.
func (s *IdentityService) Reauthenticate(ctx context.Context, id string) (*domain.Identity, string, time.Time, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", time.Time{}, apperrors.NewNotFound("identity")
	}

	identity, cached := s.cache.Get(ctx, id)
	if !cached {
		var err error
		identity, err = s.identities.GetByID(ctx, id)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, "", time.Time{}, apperrors.NewNotFound("identity")
			}
			return nil, "", time.Time{}, err
		}
	}

	identity.LastLogin = time.Now().UTC()
	if err := s.identities.Update(ctx, identity); err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewNotFound("identity")
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(identity.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.cache.Set(ctx, identity)
	s.publish(ctx, events.EventIdentityReauthenticated, identity.ID, events.IdentityReauthenticatedPayload{
		LastLogin: identity.LastLogin,
	})

	return identity, token, exp, nil
}

// TokenManager exposes the underlying token manager for gate usage.
func (s *IdentityService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *IdentityService) publish(ctx context.Context, eventType events.EventType, identityID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		IdentityID: identityID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	})
}
