package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/helpers"
	"github.com/mayaeraky/shopcart/internal/middleware"
	"github.com/mayaeraky/shopcart/internal/models"
)

type CouponRequest struct {
	Code            string          `json:"code" binding:"required"`
	DiscountType    string          `json:"discount_type" binding:"required,oneof=percent fixed"`
	DiscountValue   decimal.Decimal `json:"discount_value" binding:"required"`
	MinCartValue    decimal.Decimal `json:"min_cart_value"`
	IsActive        *bool           `json:"is_active"`
	ValidFrom       *time.Time      `json:"valid_from"`
	ValidTo         *time.Time      `json:"valid_to"`
	OncePerCustomer bool            `json:"once_per_customer"`
}

func CreateCoupon(c *gin.Context) {
	var req CouponRequest
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

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	coupon := models.Coupon{
		ShopID:          shop.ID,
		Code:            req.Code,
		DiscountType:    req.DiscountType,
		DiscountValue:   req.DiscountValue,
		MinCartValue:    req.MinCartValue,
		IsActive:        isActive,
		ValidFrom:       req.ValidFrom,
		ValidTo:         req.ValidTo,
		OncePerCustomer: req.OncePerCustomer,
	}
	if err := gormDB.Create(&coupon).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create coupon.")
		return
	}

	c.JSON(http.StatusCreated, coupon)
}

func ListCoupons(c *gin.Context) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}
	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	query := gormDB.Model(&models.Coupon{}).Where("shop_id = ?", shop.ID)
	var totalCount int64
	query.Count(&totalCount)

	var coupons []models.Coupon
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&coupons).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving coupons.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons":     coupons,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetCoupon(c *gin.Context) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	var coupon models.Coupon
	err := gormDB.Where("shop_id = ?", shop.ID).First(&coupon, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Coupon not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving coupon.")
		return
	}

	c.JSON(http.StatusOK, coupon)
}

func DeleteCoupon(c *gin.Context) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	result := gormDB.Where("shop_id = ?", shop.ID).Delete(&models.Coupon{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete coupon.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Coupon not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted successfully."})
}
