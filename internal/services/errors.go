package services

import "errors"

// Error codes for recoverable validation and configuration failures. Handlers
// translate these into 4xx responses; anything else is treated as fatal.
const (
	CodeInvalidCoupon       = "invalid_coupon"
	CodeCouponExpired       = "coupon_expired"
	CodeBelowMinimum        = "below_minimum"
	CodeAlreadyUsed         = "already_used"
	CodeInsufficientStock   = "insufficient_stock"
	CodePurchaseNotEditable = "purchase_not_editable"
	CodeNotDraft            = "not_draft"
	CodeMissingCustomer     = "missing_customer"
	CodeMissingAddress      = "missing_address"
	CodeZeroTotal           = "zero_total"
	CodePriceChanged        = "price_changed"
	CodeCouponModified      = "coupon_modified"
	CodeUnknownGateway      = "unknown_gateway"
	CodeNoPendingPayment    = "no_pending_payment"
	CodeGatewayTimeout      = "gateway_timeout"
)

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// AsValidationError unwraps err into a *ValidationError, or nil if the error
// is of a different class.
func AsValidationError(err error) *ValidationError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	return nil
}
