package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mayaeraky/shopcart/internal/models"
	"github.com/mayaeraky/shopcart/internal/payments"
)

const gatewayCallTimeout = 15 * time.Second

type CreatePurchaseInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreatePurchase opens a draft purchase for the shop and attaches the first
// line item to it, all in one transaction.
func CreatePurchase(db *gorm.DB, shop *models.Shop, input CreatePurchaseInput) (*models.Purchase, error) {
	var purchase models.Purchase

	err := db.Transaction(func(tx *gorm.DB) error {
		purchase = models.Purchase{
			ShopID: shop.ID,
			Status: models.PurchaseStatusDraft,
		}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		_, err := AddLineItem(tx, AddLineItemInput{
			PurchaseID: purchase.ID,
			ProductID:  input.ProductID,
			Quantity:   input.Quantity,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := reloadPurchase(db, &purchase); err != nil {
		return nil, err
	}
	return &purchase, nil
}

type UpdatePurchaseInput struct {
	Customer *CustomerInput
	Address  *AddressInput
	Status   *string
}

// UpdatePurchase attaches a customer and/or address and optionally sets the
// status. The customer is found by email within the shop or created; the
// address is always created fresh against that customer. Status is assigned
// as given with no transition check.
func UpdatePurchase(db *gorm.DB, purchase *models.Purchase, input UpdatePurchaseInput) (*models.Purchase, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if input.Customer != nil {
			shop := models.Shop{ID: purchase.ShopID}
			customer, err := FindOrCreateCustomer(tx, &shop, *input.Customer)
			if err != nil {
				return err
			}
			purchase.CustomerID = &customer.ID
		}

		if input.Address != nil {
			if purchase.CustomerID == nil {
				return NewValidationError(CodeMissingCustomer, "Purchase must have a customer before attaching an address.")
			}
			address, err := CreateAddress(tx, *purchase.CustomerID, *input.Address)
			if err != nil {
				return err
			}
			purchase.AddressID = &address.ID
		}

		if input.Status != nil {
			purchase.Status = *input.Status
		}

		if err := tx.Omit(clause.Associations).Save(purchase).Error; err != nil {
			return err
		}
		return RecalculateTotal(tx, purchase)
	})
	if err != nil {
		return nil, err
	}

	if err := reloadPurchase(db, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// ApplyCoupon validates the coupon against the purchase and attaches it,
// recomputing the total.
func ApplyCoupon(db *gorm.DB, purchase *models.Purchase, code string) (*models.Purchase, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		coupon, err := ValidateCoupon(tx, purchase, code)
		if err != nil {
			return err
		}
		purchase.CouponID = &coupon.ID
		if err := tx.Omit(clause.Associations).Save(purchase).Error; err != nil {
			return err
		}
		return RecalculateTotal(tx, purchase)
	})
	if err != nil {
		return nil, err
	}

	if err := reloadPurchase(db, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// RemoveCoupon detaches the coupon and recomputes the total.
func RemoveCoupon(db *gorm.DB, purchase *models.Purchase) (*models.Purchase, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		purchase.CouponID = nil
		purchase.Coupon = nil
		if err := tx.Model(purchase).Update("coupon_id", nil).Error; err != nil {
			return err
		}
		return RecalculateTotal(tx, purchase)
	})
	if err != nil {
		return nil, err
	}

	if err := reloadPurchase(db, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// ValidateForActivation checks that the purchase is ready to be committed.
// Two of the checks correct state before rejecting: a stale line price is
// updated to the product's current price, and a purchase older than its
// coupon gets its timestamp touched. Both corrections are persisted
// immediately, with the total recomputed to match, even though the call
// fails, forcing the caller to re-confirm against the corrected cart.
func ValidateForActivation(db *gorm.DB, purchase *models.Purchase) error {
	if purchase.Status != models.PurchaseStatusDraft {
		return NewValidationError(CodeNotDraft, "Only draft purchases can be activated.")
	}
	if purchase.CustomerID == nil {
		return NewValidationError(CodeMissingCustomer, "Purchase must have a customer before activation.")
	}
	if purchase.AddressID == nil {
		return NewValidationError(CodeMissingAddress, "Purchase must have an address before activation.")
	}
	if !purchase.TotalAmount.IsPositive() {
		return NewValidationError(CodeZeroTotal, "Purchase total amount must be greater than zero.")
	}

	var lines []models.PurchaseProduct
	if err := db.Preload("Product").Where("purchase_id = ?", purchase.ID).Find(&lines).Error; err != nil {
		return err
	}
	for _, line := range lines {
		if line.Product.Stock < line.Quantity {
			return NewValidationError(CodeInsufficientStock, fmt.Sprintf(
				"Product %s has insufficient quantity.", line.Product.Name))
		}
		if !line.Product.Price.Equal(line.PriceAtPurchase) {
			// Correct the snapshot first; the failure still stands. The total
			// must follow the corrected line so the draft stays consistent.
			err := db.Model(&models.PurchaseProduct{}).Where("id = ?", line.ID).
				Update("price_at_purchase", line.Product.Price).Error
			if err != nil {
				return err
			}
			if err := RecalculateTotal(db, purchase); err != nil {
				return err
			}
			return NewValidationError(CodePriceChanged, fmt.Sprintf(
				"Product %s price has changed since added to purchase; price will be updated in the cart accordingly.",
				line.Product.Name))
		}
	}

	if purchase.CouponID != nil {
		var coupon models.Coupon
		if err := db.First(&coupon, "id = ?", *purchase.CouponID).Error; err != nil {
			return err
		}
		if _, err := ValidateCoupon(db, purchase, coupon.Code); err != nil {
			return err
		}
		if purchase.UpdatedAt.Before(coupon.UpdatedAt) {
			if err := db.Omit(clause.Associations).Save(purchase).Error; err != nil {
				return err
			}
			// The modified coupon changes the discount; refresh the total
			// along with the timestamp touch.
			if err := RecalculateTotal(db, purchase); err != nil {
				return err
			}
			return NewValidationError(CodeCouponModified,
				"Coupon has been modified; please re-check your total amount before proceeding.")
		}
	}

	return nil
}

// Activate commits the draft: every line's stock is re-checked and
// decremented under a row lock inside one transaction, and the status flips
// to active. Partial decrements cannot survive; any failure rolls the whole
// batch back. Validation side effects commit independently beforehand.
func Activate(db *gorm.DB, purchase *models.Purchase) (*models.Purchase, error) {
	if err := ValidateForActivation(db, purchase); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var lines []models.PurchaseProduct
		if err := tx.Where("purchase_id = ?", purchase.ID).Find(&lines).Error; err != nil {
			return err
		}

		for _, line := range lines {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", line.ProductID).Error; err != nil {
				return err
			}
			// Stock may have moved since validation; re-check under the lock.
			if product.Stock < line.Quantity {
				return NewValidationError(CodeInsufficientStock, fmt.Sprintf(
					"Product %s has insufficient quantity.", product.Name))
			}
			product.Stock -= line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}

		purchase.Status = models.PurchaseStatusActive
		return tx.Omit(clause.Associations).Save(purchase).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("purchase activated",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("shop_id", purchase.ShopID.String()))

	if err := reloadPurchase(db, purchase); err != nil {
		return nil, err
	}
	return purchase, nil
}

// InitializePayment validates the purchase, resolves the shop payment method
// and its gateway, and records a pending payment with the gateway's
// transaction reference. The purchase is not activated here; activation
// happens explicitly or through the payment webhook. The gateway call runs
// outside any database transaction.
func InitializePayment(ctx context.Context, db *gorm.DB, purchase *models.Purchase, shopPaymentMethodID uuid.UUID) (*models.Payment, error) {
	if err := ValidateForActivation(db, purchase); err != nil {
		return nil, err
	}

	var spm models.ShopPaymentMethod
	err := db.Preload("GatewayPaymentMethod.Gateway").
		Preload("GatewayPaymentMethod.PaymentMethod").
		Where("shop_id = ?", purchase.ShopID).
		First(&spm, "id = ?", shopPaymentMethodID).Error
	if err != nil {
		return nil, err
	}

	gateway, err := payments.Resolve(&spm)
	if err != nil {
		var unknown *payments.UnknownGatewayError
		if errors.As(err, &unknown) {
			return nil, NewValidationError(CodeUnknownGateway, unknown.Error())
		}
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()

	reference, err := gateway.InitializePayment(callCtx, purchase, spm.GatewayPaymentMethod.PaymentMethod)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewValidationError(CodeGatewayTimeout, "Payment gateway timed out.")
		}
		return nil, err
	}

	logger.Info("payment initialized",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("gateway", spm.GatewayPaymentMethod.Gateway.Name))

	// The payment upsert is its own small transaction, deliberately separate
	// from the external call above.
	var payment models.Payment
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("purchase_id = ? AND status = ?", purchase.ID, models.PaymentStatusPending).
			First(&payment).Error
		switch {
		case err == nil:
			payment.TransactionReference = &reference
			payment.ShopPaymentMethodID = spm.ID
			return tx.Omit(clause.Associations).Save(&payment).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			payment = models.Payment{
				PurchaseID:           purchase.ID,
				ShopPaymentMethodID:  spm.ID,
				Status:               models.PaymentStatusPending,
				TransactionReference: &reference,
			}
			return tx.Create(&payment).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// HandlePaymentWebhook confirms a pending payment with its gateway. A
// confirmed payment activates the purchase and is marked paid; a declined one
// is marked failed. If activation itself fails, the payment stays pending and
// the error propagates so the gateway retries the event.
func HandlePaymentWebhook(ctx context.Context, db *gorm.DB, purchase *models.Purchase, payload map[string]any) (bool, error) {
	var payment models.Payment
	err := db.Preload("ShopPaymentMethod.GatewayPaymentMethod.Gateway").
		Where("purchase_id = ? AND status = ?", purchase.ID, models.PaymentStatusPending).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, NewValidationError(CodeNoPendingPayment, "No pending payment found for this purchase.")
		}
		return false, err
	}

	gateway, err := payments.Resolve(payment.ShopPaymentMethod)
	if err != nil {
		var unknown *payments.UnknownGatewayError
		if errors.As(err, &unknown) {
			return false, NewValidationError(CodeUnknownGateway, unknown.Error())
		}
		return false, err
	}

	callCtx, cancel := context.WithTimeout(ctx, gatewayCallTimeout)
	defer cancel()

	success, err := gateway.ConfirmPayment(callCtx, purchase, payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return false, NewValidationError(CodeGatewayTimeout, "Payment gateway timed out.")
		}
		return false, err
	}

	if success {
		if _, err := Activate(db, purchase); err != nil {
			return false, err
		}
		payment.Status = models.PaymentStatusPaid
	} else {
		payment.Status = models.PaymentStatusFailed
	}

	if err := db.Omit(clause.Associations).Save(&payment).Error; err != nil {
		return false, err
	}

	logger.Info("payment webhook handled",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("payment_status", payment.Status))
	return success, nil
}

// lockForUpdate takes a row-level lock where the dialect supports it. The
// sqlite test database serializes writers on its own and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func reloadPurchase(db *gorm.DB, purchase *models.Purchase) error {
	return db.Preload("Customer").Preload("Address").Preload("Coupon").
		Preload("PurchaseProducts").Preload("PurchaseProducts.Product").
		First(purchase, "id = ?", purchase.ID).Error
}
