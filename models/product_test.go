package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinalPrice(t *testing.T) {
	cases := []struct {
		name     string
		price    int64
		discount int
		want     int64
	}{
		{"no discount", 1000, 0, 1000},
		{"ten percent", 1000, 10, 900},
		{"rounds to nearest minor unit", 999, 15, 849}, // 849.15 -> 849
		{"rounds half up", 990, 15, 842},               // 841.5 -> 842
		{"full discount", 1000, 100, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{Price: tc.price, Discount: tc.discount}
			assert.Equal(t, tc.want, p.FinalPrice())
		})
	}
}

func TestRating(t *testing.T) {
	p := Product{}
	assert.Equal(t, float64(0), p.Rating(), "no reviews means no rating")

	p.Reviews = []Review{{Rating: 5}, {Rating: 4}, {Rating: 4}}
	assert.Equal(t, 4.3, p.Rating())
}

func TestOrderTotalPrice(t *testing.T) {
	order := Order{Items: []OrderItem{
		{TotalPrice: 1800},
		{TotalPrice: 500},
	}}
	assert.Equal(t, int64(2300), order.TotalPrice())
}

func TestCartItemTotalPrice(t *testing.T) {
	item := CartItem{
		Quantity: 3,
		Product:  Product{Price: 1000, Discount: 10},
	}
	assert.Equal(t, int64(2700), item.TotalPrice())
}
