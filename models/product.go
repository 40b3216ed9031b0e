package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"size:50;not null" json:"title"`
	Description string `gorm:"size:1000" json:"description"`
	// Price is the full price in minor currency units.
	Price    int64 `gorm:"not null" json:"price"`
	Discount int   `gorm:"default:0" json:"discount"`
	Quantity int   `gorm:"default:0" json:"quantity"`
	Enabled  bool  `gorm:"default:true" json:"enabled"`

	Images     []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	Categories []Category     `gorm:"many2many:product_categories" json:"categories"`
	Reviews    []Review       `gorm:"foreignKey:ProductID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	URL       string `gorm:"not null" json:"url"`
}

// FinalPrice applies the discount percentage and rounds to minor units.
func (p *Product) FinalPrice() int64 {
	return decimal.NewFromInt(p.Price).
		Mul(decimal.NewFromInt(int64(100 - p.Discount))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}

// Rating averages the loaded reviews, one decimal place; 0 without reviews.
func (p *Product) Rating() float64 {
	if len(p.Reviews) == 0 {
		return 0
	}
	sum := int64(0)
	for _, r := range p.Reviews {
		sum += int64(r.Rating)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(p.Reviews)))).Round(1)
	f, _ := avg.Float64()
	return f
}
