package models

type Address struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	FullName string `json:"full_name"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Street   string `json:"street"`
	Zipcode  string `json:"zipcode"`
}
