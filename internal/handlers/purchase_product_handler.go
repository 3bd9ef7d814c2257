package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/helpers"
	"github.com/mayaeraky/shopcart/internal/middleware"
	"github.com/mayaeraky/shopcart/internal/models"
	"github.com/mayaeraky/shopcart/internal/services"
)

type CreatePurchaseProductRequest struct {
	PurchaseID      uuid.UUID        `json:"purchase_id" binding:"required"`
	ProductID       uuid.UUID        `json:"product_id" binding:"required"`
	Quantity        int              `json:"quantity" binding:"required,min=1"`
	PriceAtPurchase *decimal.Decimal `json:"price_at_purchase"`
}

type UpdatePurchaseProductRequest struct {
	Quantity        *int             `json:"quantity" binding:"omitempty,min=1"`
	PriceAtPurchase *decimal.Decimal `json:"price_at_purchase"`
}

// findShopPurchaseProduct loads a line item by path id, scoped to the current
// shop through its product.
func findShopPurchaseProduct(c *gin.Context) (*gorm.DB, *models.PurchaseProduct, bool) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return nil, nil, false
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid purchase product ID.")
		return nil, nil, false
	}

	var line models.PurchaseProduct
	err = gormDB.Joins("JOIN products ON products.id = purchase_products.product_id").
		Where("products.shop_id = ?", shop.ID).
		First(&line, "purchase_products.id = ?", lineID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Purchase product not found.")
			return nil, nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchase product.")
		return nil, nil, false
	}

	return gormDB, &line, true
}

func CreatePurchaseProduct(c *gin.Context) {
	var req CreatePurchaseProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	// The purchase must belong to the current shop.
	var purchase models.Purchase
	err := gormDB.Where("shop_id = ?", shop.ID).First(&purchase, "id = ?", req.PurchaseID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Purchase not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchase.")
		return
	}

	line, err := services.AddLineItem(gormDB, services.AddLineItemInput{
		PurchaseID:      req.PurchaseID,
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		PriceAtPurchase: req.PriceAtPurchase,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, line)
}

func UpdatePurchaseProduct(c *gin.Context) {
	var req UpdatePurchaseProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, line, ok := findShopPurchaseProduct(c)
	if !ok {
		return
	}

	err := services.UpdateLineItem(gormDB, line, services.UpdateLineItemInput{
		Quantity:        req.Quantity,
		PriceAtPurchase: req.PriceAtPurchase,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, line)
}

func DeletePurchaseProduct(c *gin.Context) {
	gormDB, line, ok := findShopPurchaseProduct(c)
	if !ok {
		return
	}

	if err := services.DeleteLineItem(gormDB, line); err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase product deleted successfully."})
}
