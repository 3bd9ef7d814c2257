package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/models"
	"github.com/shopspring/decimal"
)

var logger = zap.NewNop()

// SetLogger installs the process logger used by the service layer. Called
// once at startup; the default is a no-op logger.
func SetLogger(l *zap.Logger) {
	logger = l
}

var oneHundred = decimal.NewFromInt(100)

// Subtotal sums quantity times the snapshotted price over the given lines.
func Subtotal(lines []models.PurchaseProduct) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.PriceAtPurchase.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal
}

// Discount returns the amount the coupon takes off the given subtotal. A nil
// coupon discounts nothing.
func Discount(coupon *models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}
	switch coupon.DiscountType {
	case models.DiscountTypePercent:
		return subtotal.Mul(coupon.DiscountValue).Div(oneHundred)
	case models.DiscountTypeFixed:
		return coupon.DiscountValue
	}
	return decimal.Zero
}

// Total applies the coupon to the lines' subtotal, clamped at zero.
func Total(lines []models.PurchaseProduct, coupon *models.Coupon) decimal.Decimal {
	subtotal := Subtotal(lines)
	total := subtotal.Sub(Discount(coupon, subtotal))
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// RecalculateTotal recomputes the purchase's total from its current lines and
// coupon and writes it back. Every mutation of a draft purchase, its lines, or
// its coupon reference must call this inside the same transaction so the
// cached total never drifts. Committed purchases keep their frozen total.
func RecalculateTotal(db *gorm.DB, purchase *models.Purchase) error {
	if purchase.Status != models.PurchaseStatusDraft {
		return nil
	}

	var lines []models.PurchaseProduct
	if err := db.Where("purchase_id = ?", purchase.ID).Find(&lines).Error; err != nil {
		return err
	}

	var coupon *models.Coupon
	if purchase.CouponID != nil {
		coupon = &models.Coupon{}
		if err := db.First(coupon, "id = ?", *purchase.CouponID).Error; err != nil {
			return err
		}
	}

	total := Total(lines, coupon)
	if err := db.Model(&models.Purchase{}).Where("id = ?", purchase.ID).
		Update("total_amount", total).Error; err != nil {
		return err
	}

	// Refresh the in-memory handle so callers see the new total and timestamp.
	return db.First(purchase, "id = ?", purchase.ID).Error
}
