package config

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/models"
)

// SeedDemoData loads a demo shop with products, a coupon, and both payment
// gateways wired up. Safe to run repeatedly; it is a no-op once the demo shop
// exists.
func SeedDemoData(db *gorm.DB) error {
	var existing models.Shop
	if err := db.Where("domain = ?", "demo-shop.com").First(&existing).Error; err == nil {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		shop := models.Shop{Name: "Demo Shop", Domain: "demo-shop.com"}
		if err := tx.Create(&shop).Error; err != nil {
			return err
		}

		customer := models.Customer{
			ShopID: shop.ID,
			Name:   "Maya Eraky",
			Email:  "maya@gmail.com",
			Phone:  "1234567890",
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		line2 := "Apartment 2"
		postal := "12345"
		address := models.Address{
			CustomerID: customer.ID,
			Line1:      "1 street",
			Line2:      &line2,
			City:       "Cairo",
			Region:     "5th Settlement",
			Country:    "Egypt",
			PostalCode: &postal,
			IsDefault:  true,
		}
		if err := tx.Create(&address).Error; err != nil {
			return err
		}

		products := []models.Product{
			{ShopID: shop.ID, Name: "T-shirt", SKU: "p1", Price: decimal.NewFromInt(850), Stock: 10, IsActive: true},
			{ShopID: shop.ID, Name: "Dress", SKU: "p2", Price: decimal.NewFromFloat(999.99), Stock: 20, IsActive: true},
			{ShopID: shop.ID, Name: "Skirt", SKU: "p3", Price: decimal.NewFromFloat(250.99), Stock: 30, IsActive: true},
		}
		for i := range products {
			if err := tx.Create(&products[i]).Error; err != nil {
				return err
			}
		}

		validFrom := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		validTo := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
		coupon := models.Coupon{
			ShopID:        shop.ID,
			Code:          "FIRST10",
			DiscountType:  models.DiscountTypePercent,
			DiscountValue: decimal.NewFromInt(10),
			MinCartValue:  decimal.NewFromInt(300),
			IsActive:      true,
			ValidFrom:     &validFrom,
			ValidTo:       &validTo,
		}
		if err := tx.Create(&coupon).Error; err != nil {
			return err
		}

		stripe := models.PaymentGateway{Name: "Stripe", Config: datatypes.JSONMap{}, IsActive: true}
		cod := models.PaymentGateway{Name: "Cash on Delivery", Config: datatypes.JSONMap{}, IsActive: true}
		if err := tx.Create(&stripe).Error; err != nil {
			return err
		}
		if err := tx.Create(&cod).Error; err != nil {
			return err
		}

		card := models.PaymentMethod{Name: "Card", Type: "card", IsActive: true}
		cash := models.PaymentMethod{Name: "Cash", Type: "cash", IsActive: true}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
		if err := tx.Create(&cash).Error; err != nil {
			return err
		}

		stripeCard := models.GatewayPaymentMethod{GatewayID: stripe.ID, PaymentMethodID: card.ID}
		codCash := models.GatewayPaymentMethod{GatewayID: cod.ID, PaymentMethodID: cash.ID}
		if err := tx.Create(&stripeCard).Error; err != nil {
			return err
		}
		if err := tx.Create(&codCash).Error; err != nil {
			return err
		}

		shopMethods := []models.ShopPaymentMethod{
			{
				ShopID:                 shop.ID,
				GatewayPaymentMethodID: stripeCard.ID,
				Config:                 datatypes.JSONMap{"api_key": "sk_test_demo", "webhook_secret": "whsec_demo"},
				IsActive:               true,
			},
			{
				ShopID:                 shop.ID,
				GatewayPaymentMethodID: codCash.ID,
				Config:                 datatypes.JSONMap{},
				IsActive:               true,
			},
		}
		for i := range shopMethods {
			if err := tx.Create(&shopMethods[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
