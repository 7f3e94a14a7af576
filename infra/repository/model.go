// Package repository implements the repository interfaces on GORM with the
// embedded sqlite store.
package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is the persisted account record.
type Account struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;index"`
	HolderName  string    `gorm:"not null"`
	Document    string    `gorm:"uniqueIndex;not null"`
	BankCode    string
	Agency      string
	Number      string
	Type        string `gorm:"not null"`
	Balance     int64  `gorm:"not null;default:0"`
	Status      string `gorm:"not null;default:'active'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Transaction is the persisted money-movement record. Rows are append-only.
type Transaction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Type        string     `gorm:"not null;index"`
	Amount      int64      `gorm:"not null"`
	Description string     `gorm:"size:255"`
	SourceID    *uuid.UUID `gorm:"type:uuid;index"`
	DestID      *uuid.UUID `gorm:"type:uuid;index"`
	Status      string     `gorm:"not null"`
	CreatedAt   time.Time  `gorm:"index"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// User is the persisted API caller record.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:'user'"`
	CreatedAt    time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{}, &Transaction{}, &User{})
}
