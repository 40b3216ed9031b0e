package models

import "time"

type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Email       string `gorm:"unique;not null" json:"email"`
	Password    string `gorm:"size:72" json:"-"`
	Username    string `gorm:"size:30" json:"username"`
	IsAdmin     bool   `gorm:"default:false" json:"is_admin"`
	IsConfirmed bool   `gorm:"default:false" json:"is_confirmed"`

	Reviews   []Review  `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
