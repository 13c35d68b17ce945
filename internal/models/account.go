package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is the company address captured at registration.
type Address struct {
	Street     string
	PostalCode string
	City       string
	Country    string
}

// Account is a registered company profile capable of authenticating.
type Account struct {
	ID             string
	Email          string // stored lowercase, unique
	PasswordHash   string
	FirstName      string
	LastName       string
	CompanyName    string
	CompanyCountry string // ISO code, one of the supported countries
	TaxID          string // NIP/VAT number, unique
	Phone          string
	Address        Address
	Role           string // "user", "admin"
	EmailVerified  bool

	// At most one outstanding verification token per account. Only the
	// SHA-256 hash is persisted; both fields are cleared on consume.
	VerificationTokenHash      *string
	VerificationTokenExpiresAt *time.Time

	FailedLoginCount int
	LockedUntil      *time.Time
	LastLoginAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName joins the contact person's first and last name.
func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}
