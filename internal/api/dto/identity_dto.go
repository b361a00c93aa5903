package dto

import (
	"time"

	"github.com/spec-kit/identity-gateway/internal/domain"
)

// RegisterRequest payload for new identities.
type RegisterRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Phones   []PhoneDto `json:"phones"`
}

// PhoneDto mirrors the upstream phone wire shape, "contrycode" included.
type PhoneDto struct {
	Number      int64  `json:"number"`
	CityCode    int    `json:"citycode"`
	CountryCode string `json:"contrycode"`
}

// RegisterResponse is the registration projection.
type RegisterResponse struct {
	ID        string    `json:"id"`
	Created   time.Time `json:"created"`
	LastLogin time.Time `json:"lastLogin"`
	Token     string    `json:"token"`
	IsActive  bool      `json:"isActive"`
}

// IdentityResponse is the full projection returned on re-authentication,
// token freshly issued.
type IdentityResponse struct {
	ID        string     `json:"id"`
	Created   time.Time  `json:"created"`
	LastLogin time.Time  `json:"lastLogin"`
	Token     string     `json:"token"`
	IsActive  bool       `json:"isActive"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phones    []PhoneDto `json:"phones"`
}

// ToRegisterResponse projects a stored identity plus its issued token.
func ToRegisterResponse(identity *domain.Identity, token string) RegisterResponse {
	return RegisterResponse{
		ID:        identity.ID,
		Created:   identity.Created,
		LastLogin: identity.LastLogin,
		Token:     token,
		IsActive:  identity.IsActive,
	}
}

// ToIdentityResponse projects the full identity plus its issued token.
func ToIdentityResponse(identity *domain.Identity, token string) IdentityResponse {
	phones := make([]PhoneDto, 0, len(identity.Phones))
	for _, p := range identity.Phones {
		phones = append(phones, PhoneDto{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return IdentityResponse{
		ID:        identity.ID,
		Created:   identity.Created,
		LastLogin: identity.LastLogin,
		Token:     token,
		IsActive:  identity.IsActive,
		Name:      identity.Name,
		Email:     identity.Email,
		Phones:    phones,
	}
}

// ToPhones converts request phones to the domain representation.
func (r RegisterRequest) ToPhones() []domain.Phone {
	phones := make([]domain.Phone, 0, len(r.Phones))
	for _, p := range r.Phones {
		phones = append(phones, domain.Phone{
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}
	return phones
}
