// internal/pkg/payfast/checkout.go
package payfast

import (
	"fmt"
	"strconv"
)

const (
	liveProcessURL    = "https://www.payfast.co.za/eng/process"
	sandboxProcessURL = "https://sandbox.payfast.co.za/eng/process"
)

// Config carries the merchant credentials for the gateway. MerchantID and
// MerchantKey are mandatory for outbound requests; building a checkout
// without them fails fast rather than silently omitting authentication.
type Config struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	Sandbox     bool
}

// Client builds signed outbound checkout requests and verifies inbound
// callbacks with the same signer.
type Client struct {
	cfg    Config
	signer *Signer
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg, signer: NewSigner(cfg.Passphrase)}
}

func (c *Client) Signer() *Signer { return c.signer }

func (c *Client) MerchantID() string { return c.cfg.MerchantID }

// ProcessURL returns the gateway endpoint the checkout form posts to.
func (c *Client) ProcessURL() string {
	if c.cfg.Sandbox {
		return sandboxProcessURL
	}
	return liveProcessURL
}

// CheckoutRequest describes one payment to collect.
type CheckoutRequest struct {
	Reference Reference
	Amount    float64
	ItemName  string
	ReturnURL string
	CancelURL string
	NotifyURL string
	Email     string
}

// BuildCheckout produces the full signed field set for the gateway's hosted
// payment page.
func (c *Client) BuildCheckout(req CheckoutRequest) (map[string]string, error) {
	if c.cfg.MerchantID == "" || c.cfg.MerchantKey == "" {
		return nil, fmt.Errorf("payfast merchant id and key must be configured")
	}

	fields := map[string]string{
		"merchant_id":   c.cfg.MerchantID,
		"merchant_key":  c.cfg.MerchantKey,
		"m_payment_id":  FormatReference(req.Reference.Kind, req.Reference.ID),
		"amount":        strconv.FormatFloat(req.Amount, 'f', 2, 64),
		"item_name":     req.ItemName,
		"return_url":    req.ReturnURL,
		"cancel_url":    req.CancelURL,
		"notify_url":    req.NotifyURL,
		"email_address": req.Email,
	}

	fields["signature"] = c.signer.Sign(fields)
	return fields, nil
}
