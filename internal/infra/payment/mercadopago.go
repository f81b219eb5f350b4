// Package payment gera o checkout dos planos no Mercado Pago.
package payment

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/BruksfildServices01/care-marketplace/internal/config"
)

type CheckoutItem struct {
	Reference   string
	Title       string
	Description string
	Price       float64
}

type Checkout struct {
	PreferenceID string `json:"preference_id"`
	URL          string `json:"checkout_url"`
}

type Gateway interface {
	CreateCheckout(ctx context.Context, item CheckoutItem) (*Checkout, error)
}

type MercadoPago struct {
	client     preference.Client
	successURL string
}

func NewMercadoPago(cfg config.PaymentConfig) (*MercadoPago, error) {
	mpCfg, err := mpconfig.New(cfg.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("payment: config: %w", err)
	}

	return &MercadoPago{
		client:     preference.NewClient(mpCfg),
		successURL: cfg.SuccessURL,
	}, nil
}

func (m *MercadoPago) CreateCheckout(ctx context.Context, item CheckoutItem) (*Checkout, error) {
	res, err := m.client.Create(ctx, m.preferenceRequest(item))
	if err != nil {
		return nil, fmt.Errorf("payment: create preference: %w", err)
	}

	return &Checkout{PreferenceID: res.ID, URL: res.InitPoint}, nil
}

// preferenceRequest monta uma preferência de item único em BRL.
func (m *MercadoPago) preferenceRequest(item CheckoutItem) preference.Request {
	req := preference.Request{
		ExternalReference: item.Reference,
		Items: []preference.ItemRequest{
			{
				Title:       item.Title,
				Description: item.Description,
				Quantity:    1,
				UnitPrice:   item.Price,
				CurrencyID:  "BRL",
			},
		},
	}
	if m.successURL != "" {
		req.BackURLs = &preference.BackURLsRequest{Success: m.successURL}
		req.AutoReturn = "approved"
	}
	return req
}

var _ Gateway = (*MercadoPago)(nil)
