package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/identity-gateway/internal/auth"
	"github.com/spec-kit/identity-gateway/internal/config"
	"github.com/spec-kit/identity-gateway/internal/domain"
	"github.com/spec-kit/identity-gateway/internal/events"
	"github.com/spec-kit/identity-gateway/internal/repository"
	apperrors "github.com/spec-kit/identity-gateway/pkg/util"
)

type fakeIdentityRepo struct {
	identities map[string]*domain.Identity
	createErr  error
	saves      int
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func (r *fakeIdentityRepo) Create(_ context.Context, identity *domain.Identity) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.identities {
		if existing.Email == identity.Email {
			return repository.ErrDuplicateEmail
		}
	}
	identity.ID = uuid.NewString()
	stored := *identity
	r.identities[identity.ID] = &stored
	r.saves++
	return nil
}

func (r *fakeIdentityRepo) Update(_ context.Context, identity *domain.Identity) error {
	if _, ok := r.identities[identity.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *identity
	r.identities[identity.ID] = &stored
	r.saves++
	return nil
}

func (r *fakeIdentityRepo) GetByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := r.identities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *identity
	return &copied, nil
}

func (r *fakeIdentityRepo) GetByEmail(_ context.Context, email string) (*domain.Identity, error) {
	for _, identity := range r.identities {
		if identity.Email == email {
			copied := *identity
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func newTestService(t *testing.T) (*IdentityService, *fakeIdentityRepo, *[]events.Event) {
	t.Helper()

	repo := newFakeIdentityRepo()
	dispatcher := events.NewInMemoryDispatcher()

	var published []events.Event
	capture := func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	}
	dispatcher.Subscribe(events.EventIdentityRegistered, capture)
	dispatcher.Subscribe(events.EventIdentityReauthenticated, capture)

	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "unit-test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}
	svc := NewIdentityService(cfg, IdentityDependencies{
		IdentityRepo: repo,
		Dispatcher:   dispatcher,
	})
	return svc, repo, &published
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, status, domainErr.HTTPStatus)
}

func TestRegister(t *testing.T) {
	svc, repo, published := newTestService(t)

	identity, token, exp, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Julia",
		Email:    "a@b.com",
		Password: "Password12",
		Phones:   []domain.Phone{{Number: 87650009, CityCode: 7, CountryCode: "25"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, identity.ID)
	require.True(t, identity.IsActive)
	require.Equal(t, identity.Created, identity.LastLogin)
	require.Len(t, identity.Phones, 1)

	require.NotEqual(t, "Password12", identity.PasswordHash)
	require.NoError(t, auth.ComparePassword(identity.PasswordHash, "Password12"))

	require.True(t, exp.After(time.Now()))
	require.True(t, svc.TokenManager().Verify(token))

	subject, err := svc.TokenManager().ExtractSubject("Bearer " + token)
	require.NoError(t, err)
	require.Equal(t, identity.ID, subject)

	require.Equal(t, 1, repo.saves)
	require.Len(t, *published, 1)
	require.Equal(t, events.EventIdentityRegistered, (*published)[0].Type)
}

func TestRegisterInvalidEmail(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "not-an-email",
		Password: "Password12",
	})
	requireStatus(t, err, http.StatusBadRequest)
	require.Zero(t, repo.saves)
}

func TestRegisterInvalidPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Password: "password12",
	})
	requireStatus(t, err, http.StatusBadRequest)
	require.Zero(t, repo.saves)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "Password12"})
	require.NoError(t, err)

	// Duplicate fails with a conflict even though the password is valid.
	_, _, _, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "Wordpass34"})
	requireStatus(t, err, http.StatusConflict)
}

func TestRegisterDuplicateEmailRace(t *testing.T) {
	// The store constraint settles concurrent registrations that both pass
	// the uniqueness check; the violation surfaces as a conflict.
	svc, repo, _ := newTestService(t)
	repo.createErr = repository.ErrDuplicateEmail

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@b.com",
		Password: "Password12",
	})
	requireStatus(t, err, http.StatusConflict)
}

func TestReauthenticate(t *testing.T) {
	svc, repo, published := newTestService(t)
	ctx := context.Background()

	identity, firstToken, _, err := svc.Register(ctx, RegisterInput{
		Email:    "a@b.com",
		Password: "Password12",
	})
	require.NoError(t, err)

	refreshed, secondToken, _, err := svc.Reauthenticate(ctx, identity.ID)
	require.NoError(t, err)
	require.Equal(t, identity.ID, refreshed.ID)
	require.NotEqual(t, firstToken, secondToken)
	require.True(t, svc.TokenManager().Verify(secondToken))
	require.False(t, refreshed.LastLogin.Before(identity.LastLogin))

	require.Equal(t, 2, repo.saves)
	require.Len(t, *published, 2)
	require.Equal(t, events.EventIdentityReauthenticated, (*published)[1].Type)
}

func TestReauthenticateUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, _, _, err := svc.Reauthenticate(context.Background(), uuid.NewString())
	requireStatus(t, err, http.StatusNotFound)
}

func TestReauthenticateMalformedReference(t *testing.T) {
	svc, repo, _ := newTestService(t)

	_, _, _, err := svc.Reauthenticate(context.Background(), "not-a-uuid")
	requireStatus(t, err, http.StatusNotFound)
	require.Zero(t, repo.saves)
}
