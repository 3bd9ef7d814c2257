package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

type Coupon struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ShopID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_coupons_shop_code"`
	Shop            *Shop           `gorm:"foreignKey:ShopID"`
	Code            string          `gorm:"not null;uniqueIndex:idx_coupons_shop_code"`
	DiscountType    string          `gorm:"not null"`
	DiscountValue   decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	MinCartValue    decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	IsActive        bool            `gorm:"not null;default:true"`
	ValidFrom       *time.Time
	ValidTo         *time.Time
	OncePerCustomer bool `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (coupon *Coupon) BeforeCreate(tx *gorm.DB) (err error) {
	if coupon.ID == uuid.Nil {
		coupon.ID = uuid.New()
	}
	return
}
