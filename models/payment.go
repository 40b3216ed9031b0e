package models

import "time"

// Payment is written only after the gateway confirms a successful charge.
// IntentID is unique so webhook redeliveries cannot record the same payment
// twice.
type Payment struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"not null" json:"user_id"`
	OrderID       uint   `gorm:"not null" json:"order_id"`
	Amount        int64  `gorm:"not null" json:"amount"`
	Currency      string `gorm:"size:3" json:"currency"`
	PaymentMethod string `gorm:"not null" json:"payment_method"`
	IntentID      string `gorm:"uniqueIndex;not null" json:"intent_id"`

	CreatedAt time.Time `json:"created_at"`
}
