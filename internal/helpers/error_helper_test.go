package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/internal/services"
)

func performRespond(t *testing.T, respond func(c *gin.Context)) (int, ErrorResponse) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respond(c)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestRespondWithServiceErrorValidation(t *testing.T) {
	status, body := performRespond(t, func(c *gin.Context) {
		RespondWithServiceError(c, services.NewValidationError(services.CodeInsufficientStock, "Not enough stock."))
	})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, services.CodeInsufficientStock, body.Code)
	assert.Equal(t, "Not enough stock.", body.Message)
}

func TestRespondWithServiceErrorNotFound(t *testing.T) {
	status, _ := performRespond(t, func(c *gin.Context) {
		RespondWithServiceError(c, gorm.ErrRecordNotFound)
	})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRespondWithServiceErrorFatal(t *testing.T) {
	status, body := performRespond(t, func(c *gin.Context) {
		RespondWithServiceError(c, errors.New("connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Empty(t, body.Code)
}
