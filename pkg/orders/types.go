package orders

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Request-only payloads carry no explicit JSON names: keys are derived from the
// Go field names and converted to snake_case on the wire (PurchaseUnits ->
// purchase_units). Types also decoded from responses name their keys.

// Order intents accepted by the merchant server.
const (
	IntentCapture   = "CAPTURE"
	IntentAuthorize = "AUTHORIZE"
)

// Order is the merchant server's view of an order after create or process.
type Order struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Intent        string         `json:"intent,omitempty"`
	CreateTime    string         `json:"create_time,omitempty"`
	PurchaseUnits []PurchaseUnit `json:"purchase_units,omitempty"`
	Links         []Link         `json:"links,omitempty"`
}

// Link is a HATEOAS link returned with an order.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// ApprovalURL returns the payer approval link, if present.
func (o *Order) ApprovalURL() string {
	if o == nil {
		return ""
	}
	for _, l := range o.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href
		}
	}
	return ""
}

// Amount is a currency value rendered with two fraction digits.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// NewAmount builds an Amount from a decimal value.
func NewAmount(currency string, value decimal.Decimal) Amount {
	return Amount{
		CurrencyCode: strings.ToUpper(strings.TrimSpace(currency)),
		Value:        value.StringFixed(2),
	}
}

// ParseAmount parses a textual amount such as "10.5".
func ParseAmount(currency, raw string) (Amount, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if value.IsNegative() {
		return Amount{}, fmt.Errorf("amount %q must not be negative", raw)
	}
	if strings.TrimSpace(currency) == "" {
		return Amount{}, fmt.Errorf("currency code is required")
	}
	return NewAmount(currency, value), nil
}

// PurchaseUnit is one purchasable item group of an order.
type PurchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Description string `json:"description,omitempty"`
	Amount      Amount `json:"amount"`
}

// ApplicationContext customizes the payer experience.
type ApplicationContext struct {
	UserAction         string `json:",omitempty"`
	ShippingPreference string `json:",omitempty"`
	ReturnURL          string `json:",omitempty"`
	CancelURL          string `json:",omitempty"`
}

// CreateOrderParams is the demo merchant request shape for POST /orders.
type CreateOrderParams struct {
	Intent             string
	PurchaseUnits      []PurchaseUnit      `json:",omitempty"`
	ApplicationContext *ApplicationContext `json:",omitempty"`
}

// Payer identifies the buyer in a checkout-flow order request.
type Payer struct {
	EmailAddress string `json:",omitempty"`
	Name         *Name  `json:",omitempty"`
}

// Name is a payer name.
type Name struct {
	GivenName string `json:",omitempty"`
	Surname   string `json:",omitempty"`
}

// OrderRequest is the checkout-flow request shape for POST /orders.
type OrderRequest struct {
	Intent             string
	PurchaseUnits      []PurchaseUnit
	Payer              *Payer              `json:",omitempty"`
	ApplicationContext *ApplicationContext `json:",omitempty"`
}

// ProcessOrderParams captures or authorizes an approved order.
// Intent selects the endpoint: "capture" posts to /capture-order.
type ProcessOrderParams struct {
	OrderID     string
	Intent      string
	CountryCode string `json:",omitempty"`
}

// AccessTokenRequest describes how a token is fetched from an environment.
type AccessTokenRequest struct {
	Method  string
	Path    string
	Body    []byte
	Headers map[string]string
}

// AccessTokenResponse carries the bearer token returned by the token endpoint.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}
