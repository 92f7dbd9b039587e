package models

import "time"

// ProjectStatus is an enum for project lifecycle states
type ProjectStatus string

const (
	// ProjectStatusActive represents a project in progress
	ProjectStatusActive ProjectStatus = "active"
	// ProjectStatusCompleted represents a finished project
	ProjectStatusCompleted ProjectStatus = "completed"
	// ProjectStatusOnHold represents a paused project
	ProjectStatusOnHold ProjectStatus = "on-hold"
	// ProjectStatusCancelled represents an abandoned project
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// Project model represents a body of work for a client. Delivery notes are
// always issued against a project.
type Project struct {
	Model
	Name        string        `json:"name" gorm:"Column:name"`
	Description string        `json:"description" gorm:"Column:description"`
	Status      ProjectStatus `json:"status" gorm:"Column:status;default:'active'"`
	StartDate   time.Time     `json:"start_date" gorm:"Column:start_date"`
	EndDate     *time.Time    `json:"end_date" gorm:"Column:end_date"`
	Budget      Money         `json:"budget" gorm:"embedded;embeddedPrefix:budget_"`
	HourlyRate  Money         `json:"hourly_rate" gorm:"embedded;embeddedPrefix:hourly_rate_"`

	Client    *Client  `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	ClientID  uint     `json:"client_id" gorm:"Column:client_id;index"`
	User      *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	UserID    uint     `json:"user_id" gorm:"Column:user_id;index"`
	Company   *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	CompanyID *uint    `json:"company_id" gorm:"Column:company_id;index"`
}
