package models

// Client model represents a customer that delivery notes are issued to
type Client struct {
	Model
	Name    string      `json:"name" gorm:"Column:name"`
	Email   string      `json:"email" gorm:"Column:email"`
	Phone   string      `json:"phone" gorm:"Column:phone"`
	Contact ContactInfo `json:"contact" gorm:"embedded;embeddedPrefix:contact_"`
	Address Address     `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	TaxID   string      `json:"tax_id" gorm:"Column:tax_id"`
	Notes   string      `json:"notes" gorm:"Column:notes"`

	User      *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	UserID    uint     `json:"user_id" gorm:"Column:user_id;index"`
	Company   *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	CompanyID *uint    `json:"company_id" gorm:"Column:company_id;index"`
}
