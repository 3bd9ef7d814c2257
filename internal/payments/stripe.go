package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mayaeraky/shopcart/internal/models"
)

const stripeRequestTimeout = 10 * time.Second

// StripeGateway charges through a Stripe-like card processor. When no
// endpoint is configured it runs offline and fabricates a transaction
// reference, which is enough for development and tests; the real processor
// protocol is out of scope.
type StripeGateway struct {
	apiKey        string
	webhookSecret string
	endpoint      string
	client        *http.Client
}

func NewStripeGateway() *StripeGateway {
	return &StripeGateway{
		client: &http.Client{Timeout: stripeRequestTimeout},
	}
}

func (g *StripeGateway) Configure(config map[string]any) {
	if v, ok := config["api_key"].(string); ok {
		g.apiKey = v
	}
	if v, ok := config["webhook_secret"].(string); ok {
		g.webhookSecret = v
	}
	if v, ok := config["endpoint"].(string); ok {
		g.endpoint = v
	}
}

func (g *StripeGateway) InitializePayment(ctx context.Context, purchase *models.Purchase, method *models.PaymentMethod) (string, error) {
	if g.endpoint == "" {
		return "pi_" + uuid.NewString(), nil
	}

	body, err := json.Marshal(map[string]any{
		"amount":       purchase.TotalAmount,
		"purchase_id":  purchase.ID,
		"method_type":  method.Type,
		"capture_mode": "automatic",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/v1/payment_intents", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment intent creation failed with status %d", resp.StatusCode)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	return parsed.ID, nil
}

// ConfirmPayment reads the webhook's success flag. When a webhook secret is
// configured the payload must carry a valid HMAC signature over the purchase
// id, or the event is rejected outright.
func (g *StripeGateway) ConfirmPayment(ctx context.Context, purchase *models.Purchase, payload map[string]any) (bool, error) {
	if g.webhookSecret != "" {
		signature, _ := payload["signature"].(string)
		if !g.verifySignature(purchase, signature) {
			return false, fmt.Errorf("invalid webhook signature")
		}
	}

	success, _ := payload["success"].(bool)
	return success, nil
}

func (g *StripeGateway) verifySignature(purchase *models.Purchase, signature string) bool {
	expected := SignWebhook(g.webhookSecret, purchase.ID.String())
	return hmac.Equal([]byte(expected), []byte(signature))
}

// SignWebhook computes the hex HMAC-SHA256 signature the gateway expects on
// webhook payloads.
func SignWebhook(secret, purchaseID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(purchaseID))
	return hex.EncodeToString(h.Sum(nil))
}
