package models

import "time"

// CartItem is a live (user, product) line; quantities accumulate until
// checkout and prices are never snapshotted here.
type CartItem struct {
	UserID    uint `gorm:"primaryKey" json:"user_id"`
	ProductID uint `gorm:"primaryKey" json:"product_id"`
	Quantity  int  `gorm:"default:1" json:"quantity"`

	Product Product   `gorm:"foreignKey:ProductID" json:"product"`
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// TotalPrice is computed from the current catalog price on every read.
func (i *CartItem) TotalPrice() int64 {
	return i.Product.FinalPrice() * int64(i.Quantity)
}
