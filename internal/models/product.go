package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	ShopID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_shop_sku"`
	Shop      *Shop           `gorm:"foreignKey:ShopID"`
	Name      string          `gorm:"not null"`
	SKU       string          `gorm:"column:sku;not null;index:idx_products_shop_sku"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Stock     int             `gorm:"not null;check:stock >= 0"`
	IsActive  bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return
}
