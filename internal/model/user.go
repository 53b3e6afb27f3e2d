package model

import "time"

// User — зарегистрированный автор блога.
// Пароль хранится только как bcrypt-хеш.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Username string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	// Подтверждение email: токен одноразовый, с ограниченным сроком жизни.
	IsVerified               bool `gorm:"not null;default:false"`
	VerificationToken        *string
	VerificationTokenExpires *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
