package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/order"
)

// QontoClient crée des liens de paiement Qonto, l'alternative au checkout
// Stripe pour les règlements par virement. Qonto ne publie pas de SDK Go :
// on parle directement à son API REST.
type QontoClient struct {
	BaseURL        string
	APIKey         string
	OrganizationID string
	HTTPClient     *http.Client
}

func NewQontoClientFromEnv() *QontoClient {
	return &QontoClient{
		BaseURL:        os.Getenv("QONTO_API_BASE_URL"),
		APIKey:         strings.TrimSpace(os.Getenv("QONTO_API_KEY")),
		OrganizationID: os.Getenv("QONTO_ORGANIZATION_ID"),
		HTTPClient:     &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateSession implémente order.PaymentClient. Qonto ne facture que le
// montant total : les lignes ne sont pas transmises, seule la référence de
// commande l'est.
func (q *QontoClient) CreateSession(ctx context.Context, items []models.CartItem, total float64) (order.PaymentSession, error) {
	if total <= 0 {
		return order.PaymentSession{}, fmt.Errorf("montant invalide: %.2f", total)
	}

	// Référence unique côté Qonto, rapprochée manuellement de la commande
	reference := "order_" + uuid.NewString()
	body, err := json.Marshal(map[string]any{
		"amount":      toCents(total),
		"currency":    "EUR",
		"description": "Commande Opochon Magique",
		"reference":   reference,
	})
	if err != nil {
		return order.PaymentSession{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		q.BaseURL+"/v2/payment_links", bytes.NewReader(body))
	if err != nil {
		return order.PaymentSession{}, err
	}
	req.Header.Set("Authorization", "Bearer "+q.APIKey)
	req.Header.Set("X-Qonto-Organization-Id", q.OrganizationID)
	req.Header.Set("Content-Type", "application/json")

	res, err := q.HTTPClient.Do(req)
	if err != nil {
		return order.PaymentSession{}, fmt.Errorf("appel Qonto: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return order.PaymentSession{}, fmt.Errorf("Qonto a répondu %d: %s", res.StatusCode, msg)
	}

	var parsed struct {
		PaymentLink struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"payment_link"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return order.PaymentSession{}, fmt.Errorf("réponse Qonto illisible: %w", err)
	}

	return order.PaymentSession{ID: parsed.PaymentLink.ID, URL: parsed.PaymentLink.URL}, nil
}
