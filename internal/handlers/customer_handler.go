package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/helpers"
	"github.com/mayaeraky/shopcart/internal/middleware"
	"github.com/mayaeraky/shopcart/internal/models"
	"github.com/mayaeraky/shopcart/internal/services"
)

func CreateCustomer(c *gin.Context) {
	var req services.CustomerInput
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

	customer, err := services.FindOrCreateCustomer(gormDB, shop, req)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func ListCustomers(c *gin.Context) {
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

	query := gormDB.Model(&models.Customer{}).Where("shop_id = ?", shop.ID)
	var totalCount int64
	query.Count(&totalCount)

	var customers []models.Customer
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&customers).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving customers.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":   customers,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func GetCustomer(c *gin.Context) {
	gormDB := middleware.GetDB(c)
	shop := middleware.GetShop(c)
	if gormDB == nil || shop == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Request context is incomplete.")
		return
	}

	var customer models.Customer
	err := gormDB.Preload("Addresses").Where("shop_id = ?", shop.ID).
		First(&customer, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Customer not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving customer.")
		return
	}

	c.JSON(http.StatusOK, customer)
}

func CreateCustomerAddress(c *gin.Context) {
	var req services.AddressInput
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

	var customer models.Customer
	err := gormDB.Where("shop_id = ?", shop.ID).First(&customer, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Customer not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving customer.")
		return
	}

	address, err := services.CreateAddress(gormDB, customer.ID, req)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, address)
}
