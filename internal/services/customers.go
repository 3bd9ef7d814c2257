package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/models"
)

type CustomerInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

// FindOrCreateCustomer looks a customer up by email within the shop and
// updates its fields, or creates it when absent.
func FindOrCreateCustomer(db *gorm.DB, shop *models.Shop, input CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	err := db.Where("shop_id = ? AND email = ?", shop.ID, input.Email).First(&customer).Error
	if err == nil {
		customer.Name = input.Name
		customer.Phone = input.Phone
		if err := db.Save(&customer).Error; err != nil {
			return nil, err
		}
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = models.Customer{
		ShopID: shop.ID,
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
	}
	if err := db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

type AddressInput struct {
	Line1      string  `json:"line1" binding:"required"`
	Line2      *string `json:"line2"`
	City       string  `json:"city" binding:"required"`
	Region     string  `json:"region" binding:"required"`
	Country    string  `json:"country" binding:"required"`
	PostalCode *string `json:"postal_code"`
	IsDefault  bool    `json:"is_default"`
}

func CreateAddress(db *gorm.DB, customerID uuid.UUID, input AddressInput) (*models.Address, error) {
	address := models.Address{
		CustomerID: customerID,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		Region:     input.Region,
		Country:    input.Country,
		PostalCode: input.PostalCode,
		IsDefault:  input.IsDefault,
	}
	if err := db.Create(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}
