package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

// ErrDuplicateEmail reports a unique-constraint violation on the email
// column. Two concurrent registrations for the same address can both pass
// the service-level uniqueness check; the constraint settles the race.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolationCode = "23505"

// IdentityRepository defines persistence access for identities.
type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	Update(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (name, email, password_hash, is_active, phones, last_login, created)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`

	phones, err := json.Marshal(identity.Phones)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx, query,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.IsActive,
		phones,
		identity.LastLogin,
		identity.Created,
	).Scan(&identity.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *identityRepository) Update(ctx context.Context, identity *domain.Identity) error {
	const query = `
        UPDATE identities SET name=$1, email=$2, password_hash=$3, is_active=$4, phones=$5, last_login=$6
        WHERE id=$7`

	phones, err := json.Marshal(identity.Phones)
	if err != nil {
		return err
	}

	cmd, err := r.pool.Exec(ctx, query,
		identity.Name,
		identity.Email,
		identity.PasswordHash,
		identity.IsActive,
		phones,
		identity.LastLogin,
		identity.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `
        SELECT id, name, email, password_hash, is_active, phones, last_login, created
        FROM identities WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const query = `
        SELECT id, name, email, password_hash, is_active, phones, last_login, created
        FROM identities WHERE email=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *identityRepository) scanOne(row pgx.Row) (*domain.Identity, error) {
	var identity domain.Identity
	var phones []byte

	if err := row.Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.PasswordHash,
		&identity.IsActive,
		&phones,
		&identity.LastLogin,
		&identity.Created,
	); err != nil {
		return nil, err
	}
	if len(phones) > 0 {
		if err := json.Unmarshal(phones, &identity.Phones); err != nil {
			return nil, err
		}
	}
	return &identity, nil
}
