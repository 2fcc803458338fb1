package models

import "time"

// Payment records a payment intent opened with the gateway for an order.
// It never drives the order status.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	IntentID  string    `gorm:"uniqueIndex;not null" json:"intent_id"`
	Amount    int64     `gorm:"not null" json:"amount"` // minor units
	Currency  string    `gorm:"not null" json:"currency"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// All returns every model, in migration order
func All() []interface{} {
	return []interface{}{
		&User{},
		&Service{},
		&AvailableLocation{},
		&Order{},
		&Review{},
		&Payment{},
	}
}
