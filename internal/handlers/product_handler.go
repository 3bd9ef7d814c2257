package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/helpers"
	"github.com/mayaeraky/shopcart/internal/middleware"
	"github.com/mayaeraky/shopcart/internal/models"
)

type ProductRequest struct {
	Name     string          `json:"name" binding:"required"`
	SKU      string          `json:"sku" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Stock    int             `json:"stock" binding:"min=0"`
	IsActive *bool           `json:"is_active"`
}

func CreateProduct(c *gin.Context) {
	var req ProductRequest
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

	product := models.Product{
		ShopID:   shop.ID,
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
		Stock:    req.Stock,
		IsActive: isActive,
	}
	if err := gormDB.Create(&product).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create product.")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func ListProducts(c *gin.Context) {
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

	query := gormDB.Model(&models.Product{}).Where("shop_id = ?", shop.ID)
	var totalCount int64
	query.Count(&totalCount)

	var products []models.Product
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&products).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving products.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":    products,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetProduct(c *gin.Context) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	var product models.Product
	err := gormDB.Where("shop_id = ?", shop.ID).First(&product, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Product not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving product.")
		return
	}

	c.JSON(http.StatusOK, product)
}

func UpdateProduct(c *gin.Context) {
	var req ProductRequest
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

	var product models.Product
	err := gormDB.Where("shop_id = ?", shop.ID).First(&product, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Product not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving product.")
		return
	}

	product.Name = req.Name
	product.SKU = req.SKU
	product.Price = req.Price
	product.Stock = req.Stock
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if err := gormDB.Save(&product).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update product.")
		return
	}

	c.JSON(http.StatusOK, product)
}

func DeleteProduct(c *gin.Context) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	result := gormDB.Where("shop_id = ?", shop.ID).Delete(&models.Product{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Product not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully."})
}
