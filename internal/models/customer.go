package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ShopID    uuid.UUID `gorm:"type:uuid;not null;index:idx_customers_shop_email"`
	Shop      *Shop     `gorm:"foreignKey:ShopID"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null;uniqueIndex;index:idx_customers_shop_email"`
	Phone     string    `gorm:"not null"`
	Addresses []Address
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (customer *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return
}

type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Customer   *Customer `gorm:"foreignKey:CustomerID"`
	Line1      string    `gorm:"not null"`
	Line2      *string
	City       string `gorm:"not null"`
	Region     string `gorm:"not null"`
	Country    string `gorm:"not null"`
	PostalCode *string
	IsDefault  bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (address *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	return
}
