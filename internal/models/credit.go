package models

import (
	"time"
)

// CreditAccount holds the consumable search-credit balance for one
// identity slot ("guest:<device>" or "user:<id>"). Balance is never
// negative; the ledger enforces that before writing.
// DB: credit_accounts
type CreditAccount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Identity  string    `gorm:"size:255;not null;uniqueIndex" json:"identity"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CreditAccount) TableName() string {
	return "credit_accounts"
}
