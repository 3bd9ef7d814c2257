package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/helpers"
	"github.com/mayaeraky/shopcart/internal/middleware"
	"github.com/mayaeraky/shopcart/internal/models"
	"github.com/mayaeraky/shopcart/internal/services"
)

type CreatePurchaseRequest struct {
	Product struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required,min=1"`
	} `json:"product" binding:"required"`
}

type UpdatePurchaseRequest struct {
	Customer *services.CustomerInput `json:"customer"`
	Address  *services.AddressInput  `json:"address"`
	Status   *string                 `json:"status" binding:"omitempty,oneof=draft active shipped cancelled delivered"`
}

type ApplyCouponRequest struct {
	CouponCode string `json:"coupon_code" binding:"required"`
}

type InitializePaymentRequest struct {
	ShopPaymentMethodID uuid.UUID `json:"shop_payment_method_id" binding:"required"`
}

type PaymentWebhookRequest struct {
	WebhookData map[string]any `json:"webhook_data"`
}

// findShopPurchase loads a purchase by path id scoped to the current shop.
func findShopPurchase(c *gin.Context) (*gorm.DB, *models.Purchase, bool) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return nil, nil, false
	}

	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid purchase ID.")
		return nil, nil, false
	}

	var purchase models.Purchase
	err = gormDB.Where("shop_id = ?", shop.ID).First(&purchase, "id = ?", purchaseID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Purchase not found.")
			return nil, nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchase.")
		return nil, nil, false
	}

	return gormDB, &purchase, true
}

func CreatePurchase(c *gin.Context) {
	var req CreatePurchaseRequest
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

	purchase, err := services.CreatePurchase(gormDB, shop, services.CreatePurchaseInput{
		ProductID: req.Product.ProductID,
		Quantity:  req.Product.Quantity,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

// ListPurchases returns the current shop's draft purchases.
func ListPurchases(c *gin.Context) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	var purchases []models.Purchase
	err := gormDB.Preload("Customer").Preload("Address").Preload("Coupon").
		Preload("PurchaseProducts").Preload("PurchaseProducts.Product").
		Where("shop_id = ? AND status = ?", shop.ID, models.PurchaseStatusDraft).
		Order("created_at DESC").Find(&purchases).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchases.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func GetPurchase(c *gin.Context) {
	gormDB, purchase, ok := findShopPurchase(c)
	if !ok {
		return
	}

	err := gormDB.Preload("Customer").Preload("Address").Preload("Coupon").
		Preload("PurchaseProducts").Preload("PurchaseProducts.Product").
		First(purchase, "id = ?", purchase.ID).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchase.")
		return
	}

	c.JSON(http.StatusOK, purchase)
}

func UpdatePurchase(c *gin.Context) {
	var req UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	gormDB, purchase, ok := findShopPurchase(c)
	if !ok {
		return
	}

	updated, err := services.UpdatePurchase(gormDB, purchase, services.UpdatePurchaseInput{
		Customer: req.Customer,
		Address:  req.Address,
		Status:   req.Status,
	})
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Coupon code is required.")
		return
	}

	gormDB, purchase, ok := findShopPurchase(c)
	if !ok {
		return
	}

	updated, err := services.ApplyCoupon(gormDB, purchase, req.CouponCode)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func RemoveCoupon(c *gin.Context) {
	gormDB, purchase, ok := findShopPurchase(c)
	if !ok {
		return
	}

	updated, err := services.RemoveCoupon(gormDB, purchase)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func InitializePayment(c *gin.Context) {
	var req InitializePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Shop payment method is required.")
		return
	}

	gormDB, purchase, ok := findShopPurchase(c)
	if !ok {
		return
	}

	_, err := services.InitializePayment(c.Request.Context(), gormDB, purchase, req.ShopPaymentMethodID)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment was successfully initialized",
	})
}

func PaymentWebhook(c *gin.Context) {
	var req PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid webhook payload.")
		return
	}

	gormDB, purchase, ok := findShopPurchase(c)
	if !ok {
		return
	}

	success, err := services.HandlePaymentWebhook(c.Request.Context(), gormDB, purchase, req.WebhookData)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": success})
}

func ActivatePurchase(c *gin.Context) {
	gormDB, purchase, ok := findShopPurchase(c)
	if !ok {
		return
	}

	activated, err := services.Activate(gormDB, purchase)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activated)
}
