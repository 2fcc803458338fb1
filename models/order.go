package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderStatus is a step of the order lifecycle
type OrderStatus string

const (
	StatusProcessing OrderStatus = "PROCESSING"
	StatusOnWay      OrderStatus = "ON_WAY"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// MaxOrderImages caps the number of photos attached to an order
const MaxOrderImages = 5

// transitions lists every permitted edge. Terminal states have no entry.
var transitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusOnWay, StatusCancelled},
	StatusOnWay:      {StatusCompleted, StatusCancelled},
}

// ParseOrderStatus returns the status named by s
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case StatusProcessing, StatusOnWay, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Order represents a booked home service
type Order struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	UserID        uint                        `gorm:"not null;index" json:"user_id"`
	User          *User                       `gorm:"foreignKey:UserID" json:"-"`
	ServiceID     uint                        `gorm:"not null;index" json:"service_id"`
	Service       *Service                    `gorm:"foreignKey:ServiceID" json:"service"`
	Address       string                      `gorm:"not null" json:"address"`
	City          string                      `gorm:"not null" json:"city"`
	Area          *string                     `json:"area"`
	Pincode       *string                     `json:"pincode"`
	Description   string                      `gorm:"type:text;not null" json:"description"`
	Images        datatypes.JSONSlice[string] `json:"images"` // storage keys
	ImageURLs     []string                    `gorm:"-" json:"image_urls,omitempty"`
	Status        OrderStatus                 `gorm:"type:varchar(20);not null;index" json:"status"`
	ScheduledDate *time.Time                  `json:"scheduled_date"`
	CompletedDate *time.Time                  `json:"completed_date"`
	Review        *Review                     `gorm:"foreignKey:OrderID" json:"review,omitempty"`
	Customer      *UserSummary                `gorm:"-" json:"customer,omitempty"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
