package payfast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(sandbox bool) *Client {
	return NewClient(Config{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  "jt7NOE43FZPn",
		Sandbox:     sandbox,
	})
}

func TestProcessURL(t *testing.T) {
	assert.Equal(t, "https://sandbox.payfast.co.za/eng/process", testClient(true).ProcessURL())
	assert.Equal(t, "https://www.payfast.co.za/eng/process", testClient(false).ProcessURL())
}

func TestBuildCheckout(t *testing.T) {
	client := testClient(true)

	fields, err := client.BuildCheckout(CheckoutRequest{
		Reference: Reference{Kind: ReferenceKindRegistration, ID: 42},
		Amount:    150,
		ItemName:  "Registration fee",
		ReturnURL: "https://app.example.com/return",
		CancelURL: "https://app.example.com/cancel",
		NotifyURL: "https://app.example.com/api/v1/payments/notify",
		Email:     "owner@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "10000100", fields["merchant_id"])
	assert.Equal(t, "registration_42", fields["m_payment_id"])
	assert.Equal(t, "150.00", fields["amount"])

	// The embedded signature must verify with the same signer that will
	// check the gateway's callback.
	assert.True(t, client.Signer().Verify(fields, fields["signature"]))
}

func TestBuildCheckoutRequiresCredentials(t *testing.T) {
	client := NewClient(Config{Passphrase: "x"})

	_, err := client.BuildCheckout(CheckoutRequest{
		Reference: Reference{Kind: ReferenceKindRegistration, ID: 1},
		Amount:    10,
	})
	assert.Error(t, err)
}
