package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shop struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	Name           string    `gorm:"not null"`
	Domain         string    `gorm:"not null;uniqueIndex"`
	Customers      []Customer
	Products       []Product
	Coupons        []Coupon
	Purchases      []Purchase
	PaymentMethods []ShopPaymentMethod
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (shop *Shop) BeforeCreate(tx *gorm.DB) (err error) {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	return
}
