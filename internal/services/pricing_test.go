package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayaeraky/shopcart/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSubtotal(t *testing.T) {
	lines := []models.PurchaseProduct{
		{Quantity: 2, PriceAtPurchase: dec("850")},
		{Quantity: 1, PriceAtPurchase: dec("250.99")},
	}
	assert.True(t, dec("1950.99").Equal(Subtotal(lines)))
	assert.True(t, Subtotal(nil).IsZero())
}

func TestDiscount(t *testing.T) {
	t.Run("percent", func(t *testing.T) {
		coupon := &models.Coupon{DiscountType: models.DiscountTypePercent, DiscountValue: dec("10")}
		assert.True(t, dec("170").Equal(Discount(coupon, dec("1700"))))
	})

	t.Run("fixed", func(t *testing.T) {
		coupon := &models.Coupon{DiscountType: models.DiscountTypeFixed, DiscountValue: dec("200")}
		assert.True(t, dec("200").Equal(Discount(coupon, dec("1700"))))
	})

	t.Run("nil coupon", func(t *testing.T) {
		assert.True(t, Discount(nil, dec("1700")).IsZero())
	})
}

func TestTotalClampsAtZero(t *testing.T) {
	lines := []models.PurchaseProduct{{Quantity: 1, PriceAtPurchase: dec("100")}}
	coupon := &models.Coupon{DiscountType: models.DiscountTypeFixed, DiscountValue: dec("500")}
	assert.True(t, Total(lines, coupon).IsZero())
}

func TestRecalculateTotalWritesBack(t *testing.T) {
	db := setupTestDB(t)
	shop := seedShop(t, db)
	product := seedProduct(t, db, shop, "850", 10)
	purchase := seedDraftPurchase(t, db, shop)

	_, err := AddLineItem(db, AddLineItemInput{
		PurchaseID: purchase.ID,
		ProductID:  product.ID,
		Quantity:   2,
	})
	require.NoError(t, err)

	var fresh models.Purchase
	require.NoError(t, db.First(&fresh, "id = ?", purchase.ID).Error)
	assert.True(t, dec("1700").Equal(fresh.TotalAmount), "got %s", fresh.TotalAmount)
}

func TestRecalculateTotalFrozenAfterDraft(t *testing.T) {
	db := setupTestDB(t)
	shop := seedShop(t, db)
	purchase := seedDraftPurchase(t, db, shop)
	purchase.Status = models.PurchaseStatusActive
	require.NoError(t, db.Save(purchase).Error)
	require.NoError(t, db.Model(purchase).Update("total_amount", dec("1700")).Error)

	require.NoError(t, RecalculateTotal(db, purchase))

	var fresh models.Purchase
	require.NoError(t, db.First(&fresh, "id = ?", purchase.ID).Error)
	assert.True(t, dec("1700").Equal(fresh.TotalAmount), "non-draft total must stay frozen")
}
