package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/models"
)

type AddLineItemInput struct {
	PurchaseID      uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	PriceAtPurchase *decimal.Decimal
}

type UpdateLineItemInput struct {
	Quantity        *int
	PriceAtPurchase *decimal.Decimal
}

// AddLineItem adds a product to a draft purchase. A repeated add of the same
// product merges into the existing line by incrementing its quantity; a new
// line snapshots the product's current price (or the provided override).
// The purchase total is recomputed in the same transaction.
func AddLineItem(db *gorm.DB, input AddLineItemInput) (*models.PurchaseProduct, error) {
	var line *models.PurchaseProduct

	err := db.Transaction(func(tx *gorm.DB) error {
		var purchase models.Purchase
		if err := tx.First(&purchase, "id = ?", input.PurchaseID).Error; err != nil {
			return err
		}
		if purchase.Status != models.PurchaseStatusDraft {
			return NewValidationError(CodePurchaseNotEditable, "Cannot add products to a non-draft purchase.")
		}

		var product models.Product
		if err := tx.First(&product, "id = ?", input.ProductID).Error; err != nil {
			return err
		}
		if product.Stock < input.Quantity {
			return NewValidationError(CodeInsufficientStock, fmt.Sprintf(
				"Insufficient stock for product %s. Available: %d, Requested: %d",
				product.Name, product.Stock, input.Quantity))
		}

		var existing models.PurchaseProduct
		err := tx.Where("purchase_id = ? AND product_id = ?", input.PurchaseID, input.ProductID).
			First(&existing).Error
		switch {
		case err == nil:
			existing.Quantity += input.Quantity
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			line = &existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			price := product.Price
			if input.PriceAtPurchase != nil {
				price = *input.PriceAtPurchase
			}
			created := models.PurchaseProduct{
				PurchaseID:      input.PurchaseID,
				ProductID:       input.ProductID,
				Quantity:        input.Quantity,
				PriceAtPurchase: price,
			}
			if err := tx.Create(&created).Error; err != nil {
				return err
			}
			line = &created
		default:
			return err
		}

		return RecalculateTotal(tx, &purchase)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateLineItem applies quantity and/or price changes to a line of a draft
// purchase and recomputes the total.
func UpdateLineItem(db *gorm.DB, line *models.PurchaseProduct, input UpdateLineItemInput) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var purchase models.Purchase
		if err := tx.First(&purchase, "id = ?", line.PurchaseID).Error; err != nil {
			return err
		}
		if purchase.Status != models.PurchaseStatusDraft {
			return NewValidationError(CodePurchaseNotEditable, "Cannot edit products in a non-draft purchase.")
		}

		if input.Quantity != nil {
			var product models.Product
			if err := tx.First(&product, "id = ?", line.ProductID).Error; err != nil {
				return err
			}
			if product.Stock < *input.Quantity {
				return NewValidationError(CodeInsufficientStock, fmt.Sprintf(
					"Insufficient stock for product %s. Available: %d, Requested: %d",
					product.Name, product.Stock, *input.Quantity))
			}
			line.Quantity = *input.Quantity
		}
		if input.PriceAtPurchase != nil {
			line.PriceAtPurchase = *input.PriceAtPurchase
		}

		if err := tx.Save(line).Error; err != nil {
			return err
		}
		return RecalculateTotal(tx, &purchase)
	})
}

// DeleteLineItem removes a line from a draft purchase and recomputes the
// total.
func DeleteLineItem(db *gorm.DB, line *models.PurchaseProduct) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var purchase models.Purchase
		if err := tx.First(&purchase, "id = ?", line.PurchaseID).Error; err != nil {
			return err
		}
		if purchase.Status != models.PurchaseStatusDraft {
			return NewValidationError(CodePurchaseNotEditable, "Cannot delete products from a non-draft purchase.")
		}

		if err := tx.Delete(&models.PurchaseProduct{}, "id = ?", line.ID).Error; err != nil {
			return err
		}
		return RecalculateTotal(tx, &purchase)
	})
}
