package models

type TokenKind string

const (
	TokenKindRefresh      TokenKind = "refresh"
	TokenKindRecovery     TokenKind = "recovery"
	TokenKindConfirmation TokenKind = "confirmation"
)

// One table per token kind, one row per user; issuing a new token
// overwrites the previous one.

type RefreshToken struct {
	UserID uint   `gorm:"primaryKey"`
	Token  string `gorm:"not null"`
}

type RecoveryToken struct {
	UserID uint   `gorm:"primaryKey"`
	Token  string `gorm:"not null"`
}

type ConfirmationToken struct {
	UserID uint   `gorm:"primaryKey"`
	Token  string `gorm:"not null"`
}
