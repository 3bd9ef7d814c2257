package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentStatusUnpaid  = "unpaid"
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// PaymentGateway is a payment backend offered by the platform, e.g. "Stripe"
// or "Cash on Delivery". Its name selects the runtime implementation.
type PaymentGateway struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key"`
	Name      string            `gorm:"not null"`
	Config    datatypes.JSONMap `gorm:"type:jsonb"`
	IsActive  bool              `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (gateway *PaymentGateway) BeforeCreate(tx *gorm.DB) (err error) {
	if gateway.ID == uuid.Nil {
		gateway.ID = uuid.New()
	}
	return
}

type PaymentMethod struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	Type      string    `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (method *PaymentMethod) BeforeCreate(tx *gorm.DB) (err error) {
	if method.ID == uuid.Nil {
		method.ID = uuid.New()
	}
	return
}

// GatewayPaymentMethod links a gateway to a method it supports.
type GatewayPaymentMethod struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	GatewayID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_gateway_method"`
	Gateway         *PaymentGateway `gorm:"foreignKey:GatewayID"`
	PaymentMethodID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_gateway_method"`
	PaymentMethod   *PaymentMethod  `gorm:"foreignKey:PaymentMethodID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (gpm *GatewayPaymentMethod) BeforeCreate(tx *gorm.DB) (err error) {
	if gpm.ID == uuid.Nil {
		gpm.ID = uuid.New()
	}
	return
}

// ShopPaymentMethod is a shop's opt-in to a (gateway, method) pair, carrying
// shop-specific gateway config such as API keys.
type ShopPaymentMethod struct {
	ID                     uuid.UUID             `gorm:"type:uuid;primary_key"`
	ShopID                 uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_shop_gateway_method"`
	Shop                   *Shop                 `gorm:"foreignKey:ShopID"`
	GatewayPaymentMethodID uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_shop_gateway_method"`
	GatewayPaymentMethod   *GatewayPaymentMethod `gorm:"foreignKey:GatewayPaymentMethodID"`
	Config                 datatypes.JSONMap     `gorm:"type:jsonb"`
	IsActive               bool                  `gorm:"not null;default:true"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
	DeletedAt              gorm.DeletedAt `gorm:"index"`
}

func (spm *ShopPaymentMethod) BeforeCreate(tx *gorm.DB) (err error) {
	if spm.ID == uuid.Nil {
		spm.ID = uuid.New()
	}
	return
}

type Payment struct {
	ID                   uuid.UUID          `gorm:"type:uuid;primary_key"`
	PurchaseID           uuid.UUID          `gorm:"type:uuid;not null;index:idx_payments_purchase_status"`
	Purchase             *Purchase          `gorm:"foreignKey:PurchaseID"`
	ShopPaymentMethodID  uuid.UUID          `gorm:"type:uuid;not null;index"`
	ShopPaymentMethod    *ShopPaymentMethod `gorm:"foreignKey:ShopPaymentMethodID"`
	Status               string             `gorm:"not null;default:'unpaid';index:idx_payments_purchase_status"`
	TransactionReference *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

func (payment *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return
}
