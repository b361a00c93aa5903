package domain

import "time"

// Identity is the domain model for a registered account. The ID is an opaque
// UUID string generated by the store; tokens assert it as their subject.
type Identity struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsActive     bool
	LastLogin    time.Time
	Created      time.Time
	Phones       []Phone
}

// Phone is a contact number attached to an identity. Field names follow the
// upstream wire contract, including the "contrycode" spelling.
type Phone struct {
	Number      int64  `json:"number"`
	CityCode    int    `json:"citycode"`
	CountryCode string `json:"contrycode"`
}
