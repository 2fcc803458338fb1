package models

import "time"

// AvailableLocation is a serviceable area. Area and Pincode are empty when
// the location covers the whole city; they are stored NOT NULL so the
// composite unique index also rejects duplicates of city-only records.
type AvailableLocation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	City      string    `gorm:"not null;uniqueIndex:idx_locations_city_area_pincode" json:"city"`
	Area      string    `gorm:"not null;default:'';uniqueIndex:idx_locations_city_area_pincode" json:"area"`
	Pincode   string    `gorm:"not null;default:'';uniqueIndex:idx_locations_city_area_pincode" json:"pincode"`
	Active    bool      `gorm:"not null" json:"active"` // no gorm default: false must persist on create
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the AvailableLocation model
func (AvailableLocation) TableName() string {
	return "available_locations"
}
