package payment

import (
	"context"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"

	"github.com/elosyboy/opochonmagique/internal/models"
	"github.com/elosyboy/opochonmagique/internal/order"
)

// StripeCheckout crée des sessions Stripe Checkout à partir des lignes du
// panier. Le client est ensuite redirigé vers l'URL de la session ; le succès
// revient sur SuccessURL, l'abandon sur CancelURL.
type StripeCheckout struct {
	SuccessURL string
	CancelURL  string
}

func NewStripeCheckout(siteURL string) *StripeCheckout {
	return &StripeCheckout{
		SuccessURL: siteURL + "/success",
		CancelURL:  siteURL + "/cancel",
	}
}

func (s *StripeCheckout) CreateSession(ctx context.Context, items []models.CartItem, total float64) (order.PaymentSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyEUR)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(toCents(item.UnitPrice)),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(s.SuccessURL),
		CancelURL:          stripe.String(s.CancelURL),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return order.PaymentSession{}, fmt.Errorf("session Stripe: %w", err)
	}

	return order.PaymentSession{ID: sess.ID, URL: sess.URL}, nil
}

// toCents convertit un montant en euros vers des centimes Stripe.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
