package models

import (
	"time"

	"gorm.io/gorm"
)

// Model is the base model with common fields for all database entities.
// DeletedAt doubles as the archive flag: archived records keep their row
// and are only visible through the dedicated archived queries.
type Model struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Money is a monetary value tagged with an ISO currency code
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Address is a postal address embedded in several entities
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// ContactInfo is a named point of contact for a client
type ContactInfo struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// UserRole is an enum for user access roles
type UserRole string

const (
	// RoleUser represents a regular account
	RoleUser UserRole = "user"
	// RoleAdmin represents an administrative account
	RoleAdmin UserRole = "admin"
	// RoleGuest represents an invited, limited account
	RoleGuest UserRole = "guest"
)

// PersonalInfo holds the personal details of an individual user. It is
// rendered as the provider block on documents issued without a company.
type PersonalInfo struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// User model represents an account. A user optionally belongs to a company;
// resources owned by the company are visible to all its members.
type User struct {
	Model
	Name         string       `json:"name" gorm:"Column:name"`
	Email        string       `json:"email" gorm:"uniqueIndex;Column:email"`
	Password     string       `json:"-" gorm:"Column:password"`
	Role         UserRole     `json:"role" gorm:"Column:role;default:'user'"`
	PersonalInfo PersonalInfo `json:"personal_info" gorm:"embedded;embeddedPrefix:personal_"`
	Company      *Company     `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	CompanyID    *uint        `json:"company_id" gorm:"Column:company_id"`
}

// Company model represents a tenant owning shared resources
type Company struct {
	Model
	Name      string  `json:"name" gorm:"Column:name"`
	LegalName string  `json:"legal_name" gorm:"Column:legal_name"`
	TaxID     string  `json:"tax_id" gorm:"Column:tax_id"`
	Email     string  `json:"email" gorm:"Column:email"`
	Phone     string  `json:"phone" gorm:"Column:phone"`
	Address   Address `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	Website   string  `json:"website" gorm:"Column:website"`
	OwnerID   uint    `json:"owner_id" gorm:"Column:owner_id"`
}
