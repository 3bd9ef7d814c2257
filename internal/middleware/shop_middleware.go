package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/helpers"
	"github.com/mayaeraky/shopcart/internal/models"
)

// ShopMiddleware resolves the current shop from the request's Host header
// (port stripped) and attaches it to the context. Requests for unknown
// domains are rejected with 404.
func ShopMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		gormDB := GetDB(c)
		if gormDB == nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
			c.Abort()
			return
		}

		host := c.Request.Host
		if stripped, _, err := net.SplitHostPort(host); err == nil {
			host = stripped
		}

		var shop models.Shop
		if err := gormDB.Where("domain = ?", host).First(&shop).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				helpers.RespondWithError(c, http.StatusNotFound, "Shop not found for this domain.")
			} else {
				helpers.RespondWithError(c, http.StatusInternalServerError, "Error resolving shop.")
			}
			c.Abort()
			return
		}

		c.Set("shop", &shop)
		c.Next()
	}
}

func GetShop(c *gin.Context) *models.Shop {
	shop, exists := c.Get("shop")
	if !exists {
		return nil
	}
	return shop.(*models.Shop)
}
