package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"   // created, stock reserved, awaiting payment
	OrderStatusConfirmed OrderStatus = "Confirmed" // confirmed by an admin
	OrderStatusShipped   OrderStatus = "Shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "Delivered" // received by the customer
	OrderStatusCancelled OrderStatus = "Cancelled" // cancelled while Pending, stock restored
)

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Reference is the customer-facing order number quoted in emails and
	// support requests, assigned at creation.
	Reference string      `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	AddressID uint        `gorm:"not null" json:"address_id"`
	Status    OrderStatus `gorm:"type:VARCHAR(20);default:'Pending'" json:"status"`
	IsPaid    bool        `gorm:"default:false" json:"is_paid"`

	Address   Address     `gorm:"foreignKey:AddressID" json:"address"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// TotalPrice sums the frozen line totals.
func (o *Order) TotalPrice() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.TotalPrice
	}
	return total
}

// OrderItem freezes quantity and total price at order creation time, so the
// order survives later catalog price changes.
type OrderItem struct {
	OrderID   uint `gorm:"primaryKey" json:"order_id"`
	ProductID uint `gorm:"primaryKey" json:"product_id"`
	Quantity  int  `gorm:"not null" json:"quantity"`
	// TotalPrice is quantity times the product's final price at creation,
	// in minor currency units.
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	Product Product `gorm:"foreignKey:ProductID" json:"product"`
}
