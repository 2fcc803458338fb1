package models

import "time"

// Service is a catalog entry customers can book
type Service struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Icon        *string   `json:"icon"`
	Price       *string   `json:"price"`                  // display string, e.g. "$49"
	Active      bool      `gorm:"not null" json:"active"` // no gorm default: false must persist on create
	OrderCount  *int64    `gorm:"-" json:"order_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
