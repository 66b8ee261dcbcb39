package models

import "time"

// User represents a registered account.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;size:50;not null"`
	Email     string `gorm:"uniqueIndex;size:50;not null"`
	Password  string `gorm:"size:150;not null"` // bcrypt hash, never plaintext
	IsAdmin   bool
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Posts    []Post    `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:UserID"`
}
