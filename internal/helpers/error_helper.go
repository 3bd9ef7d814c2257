package helpers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/services"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithServiceError maps a service-layer error onto the wire:
// validation and configuration failures are 400s carrying their machine code,
// missing records are 404s, everything else is a 500.
func RespondWithServiceError(c *gin.Context, err error) {
	if verr := services.AsValidationError(err); verr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   HTTPStatusText(http.StatusBadRequest),
			Code:    verr.Code,
			Message: verr.Message,
		})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondWithError(c, http.StatusNotFound, "Record not found.")
		return
	}
	RespondWithError(c, http.StatusInternalServerError, "Internal server error.")
}
