package models

import "time"

type Category struct {
	Name      string    `gorm:"primaryKey;size:30" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Products []Product `gorm:"many2many:product_categories" json:"-"`
}
