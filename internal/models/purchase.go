package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PurchaseStatusDraft     = "draft"
	PurchaseStatusActive    = "active"
	PurchaseStatusShipped   = "shipped"
	PurchaseStatusCancelled = "cancelled"
	PurchaseStatusDelivered = "delivered"
)

// PurchaseStatuses lists every assignable purchase status.
var PurchaseStatuses = []string{
	PurchaseStatusDraft,
	PurchaseStatusActive,
	PurchaseStatusShipped,
	PurchaseStatusCancelled,
	PurchaseStatusDelivered,
}

type Purchase struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	ShopID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_purchases_shop_status"`
	Shop       *Shop      `gorm:"foreignKey:ShopID"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`
	Customer   *Customer  `gorm:"foreignKey:CustomerID"`
	AddressID  *uuid.UUID `gorm:"type:uuid;index"`
	Address    *Address   `gorm:"foreignKey:AddressID;constraint:OnDelete:SET NULL"`
	CouponID   *uuid.UUID `gorm:"type:uuid"`
	Coupon     *Coupon    `gorm:"foreignKey:CouponID;constraint:OnDelete:SET NULL"`
	Status     string     `gorm:"not null;default:'draft';index:idx_purchases_shop_status"`
	// TotalAmount is derived from the purchase products and coupon; it is
	// written only by the pricing recompute.
	TotalAmount      decimal.Decimal   `gorm:"type:numeric(10,2);not null;default:0"`
	PurchaseProducts []PurchaseProduct `gorm:"constraint:OnDelete:CASCADE"`
	Payments         []Payment         `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"index"`
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (purchase *Purchase) BeforeCreate(tx *gorm.DB) (err error) {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	return
}

type PurchaseProduct struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	PurchaseID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchase_products_pair"`
	Purchase        *Purchase       `gorm:"foreignKey:PurchaseID"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_purchase_products_pair"`
	Product         *Product        `gorm:"foreignKey:ProductID"`
	Quantity        int             `gorm:"not null;default:1"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (pp *PurchaseProduct) BeforeCreate(tx *gorm.DB) (err error) {
	if pp.ID == uuid.Nil {
		pp.ID = uuid.New()
	}
	return
}
