package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mayaeraky/shopcart/config"
	"github.com/mayaeraky/shopcart/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.AutoMigrate(db))
	return db
}

func seedShop(t *testing.T, db *gorm.DB) *models.Shop {
	t.Helper()

	shop := models.Shop{Name: "Demo Shop", Domain: "demo-shop.com"}
	require.NoError(t, db.Create(&shop).Error)
	return &shop
}

func seedProduct(t *testing.T, db *gorm.DB, shop *models.Shop, price string, stock int) *models.Product {
	t.Helper()

	product := models.Product{
		ShopID:   shop.ID,
		Name:     "T-shirt",
		SKU:      "p1",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func seedCustomer(t *testing.T, db *gorm.DB, shop *models.Shop, email string) *models.Customer {
	t.Helper()

	customer := models.Customer{
		ShopID: shop.ID,
		Name:   "John Doe",
		Email:  email,
		Phone:  "0123456789",
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func seedAddress(t *testing.T, db *gorm.DB, customer *models.Customer) *models.Address {
	t.Helper()

	address := models.Address{
		CustomerID: customer.ID,
		Line1:      "123 Test St",
		City:       "Cairo",
		Region:     "Cairo",
		Country:    "Egypt",
	}
	require.NoError(t, db.Create(&address).Error)
	return &address
}

// seedDraftPurchase creates a draft purchase linked to a customer and
// address, ready for line items.
func seedDraftPurchase(t *testing.T, db *gorm.DB, shop *models.Shop) *models.Purchase {
	t.Helper()

	customer := seedCustomer(t, db, shop, "john@example.com")
	address := seedAddress(t, db, customer)

	purchase := models.Purchase{
		ShopID:     shop.ID,
		CustomerID: &customer.ID,
		AddressID:  &address.ID,
		Status:     models.PurchaseStatusDraft,
	}
	require.NoError(t, db.Create(&purchase).Error)
	return &purchase
}

func seedCoupon(t *testing.T, db *gorm.DB, shop *models.Shop, coupon models.Coupon) *models.Coupon {
	t.Helper()

	coupon.ShopID = shop.ID
	if coupon.DiscountType == "" {
		coupon.DiscountType = models.DiscountTypePercent
	}
	coupon.IsActive = true
	require.NoError(t, db.Create(&coupon).Error)
	return &coupon
}

// seedCheckoutSetup wires a COD gateway, method, and shop opt-in so payment
// flows can run end to end without network access.
func seedCheckoutSetup(t *testing.T, db *gorm.DB, shop *models.Shop, gatewayName string) *models.ShopPaymentMethod {
	t.Helper()

	gateway := models.PaymentGateway{Name: gatewayName, IsActive: true}
	require.NoError(t, db.Create(&gateway).Error)

	method := models.PaymentMethod{Name: "Cash", Type: "cash", IsActive: true}
	require.NoError(t, db.Create(&method).Error)

	gpm := models.GatewayPaymentMethod{GatewayID: gateway.ID, PaymentMethodID: method.ID}
	require.NoError(t, db.Create(&gpm).Error)

	spm := models.ShopPaymentMethod{
		ShopID:                 shop.ID,
		GatewayPaymentMethodID: gpm.ID,
		IsActive:               true,
	}
	require.NoError(t, db.Create(&spm).Error)
	return &spm
}
