package models

import (
	"fmt"
	"time"
)

// DefaultCurrency is the nominal currency label applied to aggregated
// totals. Per-entry currency tags are kept for display but entries are
// summed as raw numbers under this label; no conversion is performed.
const DefaultCurrency = "EUR"

// DefaultUnit is the unit assigned to material entries that do not name one
const DefaultUnit = "unit"

// DeliveryNoteStatus is an enum for delivery note lifecycle states
type DeliveryNoteStatus string

const (
	// StatusDraft represents a note still being edited
	StatusDraft DeliveryNoteStatus = "draft"
	// StatusSent represents a note delivered to the client
	StatusSent DeliveryNoteStatus = "sent"
	// StatusSigned represents a note signed by the client. Signed notes are
	// immutable except for the fields the signing workflow itself sets.
	StatusSigned DeliveryNoteStatus = "signed"
	// StatusPaid represents a signed note that has been paid
	StatusPaid DeliveryNoteStatus = "paid"
	// StatusCancelled represents an abandoned note
	StatusCancelled DeliveryNoteStatus = "cancelled"
)

// Valid reports whether s is a known delivery note status
func (s DeliveryNoteStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusSigned, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Person identifies who performed a unit of labor
type Person struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// LaborEntry is a line of work performed, priced by the hour. Entries keep
// their insertion order via Position; the order is display-significant.
type LaborEntry struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	DeliveryNoteID uint      `json:"-" gorm:"Column:delivery_note_id;index"`
	Position       int       `json:"-" gorm:"Column:position"`
	Person         Person    `json:"person" gorm:"embedded;embeddedPrefix:person_"`
	Hours          float64   `json:"hours" gorm:"Column:hours"`
	Rate           Money     `json:"rate" gorm:"embedded;embeddedPrefix:rate_"`
	Date           time.Time `json:"date" gorm:"Column:date"`
	Description    string    `json:"description" gorm:"Column:description"`
}

// Extension returns the monetary value of the entry: hours times hourly
// rate. An absent rate values the entry at zero.
func (e LaborEntry) Extension() float64 {
	return e.Hours * e.Rate.Amount
}

// MaterialEntry is a line of material used, priced per unit
type MaterialEntry struct {
	ID             uint    `json:"id" gorm:"primarykey"`
	DeliveryNoteID uint    `json:"-" gorm:"Column:delivery_note_id;index"`
	Position       int     `json:"-" gorm:"Column:position"`
	Name           string  `json:"name" gorm:"Column:name"`
	Quantity       float64 `json:"quantity" gorm:"Column:quantity"`
	Unit           string  `json:"unit" gorm:"Column:unit"`
	Price          Money   `json:"price" gorm:"embedded;embeddedPrefix:price_"`
	Description    string  `json:"description" gorm:"Column:description"`
}

// Extension returns the monetary value of the entry: quantity times unit
// price. An absent price values the entry at zero.
func (e MaterialEntry) Extension() float64 {
	return e.Quantity * e.Price.Amount
}

// DeliveryNote model represents a work/material record issued against a
// project. The number and the total are derived fields: the number is
// assigned once at creation and never changes, the total is recomputed from
// the entries on every save.
type DeliveryNote struct {
	Model
	Number        string    `json:"number" gorm:"uniqueIndex:idx_delivery_notes_scope_number;Column:number"`
	SequenceScope string    `json:"-" gorm:"uniqueIndex:idx_delivery_notes_scope_number;Column:sequence_scope"`
	Date          time.Time `json:"date" gorm:"Column:date"`

	Project   *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID"`
	ProjectID uint     `json:"project_id" gorm:"Column:project_id;index"`
	Client    *Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ClientID  uint     `json:"client_id" gorm:"Column:client_id;index"`
	User      *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	UserID    uint     `json:"user_id" gorm:"Column:user_id;index"`
	Company   *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	CompanyID *uint    `json:"company_id" gorm:"Column:company_id;index"`

	Labor     []LaborEntry    `json:"labor" gorm:"foreignKey:DeliveryNoteID"`
	Materials []MaterialEntry `json:"materials" gorm:"foreignKey:DeliveryNoteID"`

	Notes       string             `json:"notes" gorm:"Column:notes"`
	TotalAmount Money              `json:"total_amount" gorm:"embedded;embeddedPrefix:total_"`
	Status      DeliveryNoteStatus `json:"status" gorm:"Column:status;default:'draft'"`

	SignatureImage string     `json:"signature_image" gorm:"Column:signature_image"`
	SignedBy       string     `json:"signed_by" gorm:"Column:signed_by"`
	SignedAt       *time.Time `json:"signed_at" gorm:"Column:signed_at"`
	PdfURL         string     `json:"pdf_url" gorm:"Column:pdf_url"`
}

// IsSigned reports whether the note has reached the signed state
func (n *DeliveryNote) IsSigned() bool {
	return n.Status == StatusSigned
}

// ComputeTotal folds all labor and material extensions into a single total
// under the default currency label. Idempotent: recomputing on unchanged
// entries yields the same result.
func (n *DeliveryNote) ComputeTotal() Money {
	var total float64
	for _, item := range n.Labor {
		total += item.Extension()
	}
	for _, item := range n.Materials {
		total += item.Extension()
	}
	return Money{Amount: total, Currency: DefaultCurrency}
}

// SequenceScopeFor returns the numbering partition key for a note owner.
// Notes issued under a company share the company's sequence; personal notes
// use a per-user sequence.
func SequenceScopeFor(userID uint, companyID *uint) string {
	if companyID != nil {
		return fmt.Sprintf("company:%d", *companyID)
	}
	return fmt.Sprintf("user:%d", userID)
}

// NumberPrefix returns the shared prefix of all note numbers for a year,
// e.g. "DN-2025-"
func NumberPrefix(year int) string {
	return fmt.Sprintf("DN-%d-", year)
}

// FormatNumber composes a note number from a year and sequence value,
// e.g. "DN-2025-0042"
func FormatNumber(year, sequence int) string {
	return fmt.Sprintf("%s%04d", NumberPrefix(year), sequence)
}
