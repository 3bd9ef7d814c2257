package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/models"
	"github.com/shopspring/decimal"
)

// ValidateCoupon checks whether the coupon identified by code may be applied
// to the purchase right now. It reads state but never mutates it.
func ValidateCoupon(db *gorm.DB, purchase *models.Purchase, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := db.Where("shop_id = ? AND code = ? AND is_active = ?", purchase.ShopID, code, true).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError(CodeInvalidCoupon, "Invalid or inactive coupon.")
		}
		return nil, err
	}

	if !couponWindowOpen(&coupon, time.Now()) {
		return nil, NewValidationError(CodeCouponExpired, "Coupon expired.")
	}

	var lines []models.PurchaseProduct
	if err := db.Where("purchase_id = ?", purchase.ID).Find(&lines).Error; err != nil {
		return nil, err
	}
	if belowMinimum(&coupon, Subtotal(lines)) {
		return nil, NewValidationError(CodeBelowMinimum, "Cart total below minimum for this coupon.")
	}

	if coupon.OncePerCustomer && purchase.CustomerID != nil {
		var previousUses int64
		err := db.Model(&models.Purchase{}).
			Where("shop_id = ? AND customer_id = ? AND coupon_id = ? AND status = ?",
				purchase.ShopID, *purchase.CustomerID, coupon.ID, models.PurchaseStatusActive).
			Where("id <> ?", purchase.ID).
			Count(&previousUses).Error
		if err != nil {
			return nil, err
		}
		if previousUses > 0 {
			return nil, NewValidationError(CodeAlreadyUsed, "Coupon can only be used once per customer.")
		}
	}

	return &coupon, nil
}

// couponWindowOpen reports whether now falls inside the coupon's validity
// window. The bounds are calendar dates, so the comparison runs at day
// granularity and a coupon stays valid through the whole of its last day.
// Unset bounds are open-ended.
func couponWindowOpen(coupon *models.Coupon, now time.Time) bool {
	today := dateOf(now)
	if coupon.ValidFrom != nil && dateOf(*coupon.ValidFrom).After(today) {
		return false
	}
	if coupon.ValidTo != nil && dateOf(*coupon.ValidTo).Before(today) {
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// belowMinimum reports whether the subtotal misses the coupon's minimum cart
// value. The boundary is inclusive: a subtotal equal to the minimum passes.
func belowMinimum(coupon *models.Coupon, subtotal decimal.Decimal) bool {
	return coupon.MinCartValue.IsPositive() && subtotal.LessThan(coupon.MinCartValue)
}
