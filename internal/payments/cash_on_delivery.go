package payments

import (
	"context"

	"github.com/mayaeraky/shopcart/internal/models"
)

// CashOnDeliveryGateway collects nothing up front. Both operations are no-ops
// that trivially succeed; the purchase settles on delivery.
type CashOnDeliveryGateway struct{}

func (g *CashOnDeliveryGateway) InitializePayment(ctx context.Context, purchase *models.Purchase, method *models.PaymentMethod) (string, error) {
	return "", nil
}

func (g *CashOnDeliveryGateway) ConfirmPayment(ctx context.Context, purchase *models.Purchase, payload map[string]any) (bool, error) {
	return true, nil
}
