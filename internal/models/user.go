package models

import (
	"time"
)

// User represents the users table
// DB: users
type User struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Email      string     `gorm:"column:email;size:255;not null;uniqueIndex:users_email_key" json:"email"`
	Password   string     `gorm:"column:password;size:255;not null" json:"-"`
	Name       *string    `gorm:"column:name;size:100" json:"name,omitempty"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	DateJoined time.Time  `gorm:"column:date_joined;not null" json:"date_joined"`
	LastLogin  *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}
