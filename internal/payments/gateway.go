// Package payments selects and drives pluggable payment gateways. A gateway
// is registered once under a lowercase name and resolved at runtime from a
// shop's configured payment method; the shop-specific config blob is handed
// to the gateway before use.
package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/mayaeraky/shopcart/internal/models"
)

// Gateway is the capability set every payment backend implements.
// InitializePayment returns a gateway-opaque transaction reference, which may
// be empty for gateways that make no external call.
type Gateway interface {
	InitializePayment(ctx context.Context, purchase *models.Purchase, method *models.PaymentMethod) (string, error)
	ConfirmPayment(ctx context.Context, purchase *models.Purchase, payload map[string]any) (bool, error)
}

// Configurable gateways receive the shop-specific config once per resolution.
type Configurable interface {
	Configure(config map[string]any)
}

type Factory func() Gateway

type UnknownGatewayError struct {
	Name string
}

func (e *UnknownGatewayError) Error() string {
	return fmt.Sprintf("unknown or misconfigured gateway: %s", e.Name)
}

var registry = map[string]Factory{}

// Register maps a gateway name to its factory. Names are normalized the same
// way Resolve normalizes configured gateway names.
func Register(name string, factory Factory) {
	registry[normalizeName(name)] = factory
}

// Resolve builds the gateway implementation for a shop payment method and
// configures it with the shop's config blob. The method must be loaded with
// its GatewayPaymentMethod.Gateway association.
func Resolve(spm *models.ShopPaymentMethod) (Gateway, error) {
	name := ""
	if spm.GatewayPaymentMethod != nil && spm.GatewayPaymentMethod.Gateway != nil {
		name = spm.GatewayPaymentMethod.Gateway.Name
	}
	factory, ok := registry[normalizeName(name)]
	if !ok {
		return nil, &UnknownGatewayError{Name: name}
	}

	gateway := factory()
	if configurable, ok := gateway.(Configurable); ok {
		configurable.Configure(spm.Config)
	}
	return gateway, nil
}

// normalizeName lowercases and snake-cases a configured gateway name, so
// "Cash on Delivery" resolves the implementation registered as
// "cash_on_delivery".
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func init() {
	Register("cash_on_delivery", func() Gateway { return &CashOnDeliveryGateway{} })
	Register("stripe", func() Gateway { return NewStripeGateway() })
}
