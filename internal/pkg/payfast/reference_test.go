package payfast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReference(t *testing.T) {
	ref, ok := ResolveReference("registration_123")
	require.True(t, ok)
	assert.Equal(t, ReferenceKindRegistration, ref.Kind)
	assert.Equal(t, int64(123), ref.ID)

	ref, ok = ResolveReference("customer-payment_9001")
	require.True(t, ok)
	assert.Equal(t, ReferenceKindCustomerPayment, ref.Kind)
	assert.Equal(t, int64(9001), ref.ID)
}

func TestResolveReferenceRejectsMalformed(t *testing.T) {
	malformed := []string{
		"",
		"registration_",
		"registration_12x",
		"registration-12",
		"Registration_12",
		"invoice_5",
		" registration_12",
		"registration_12 ",
		"customer-payment_",
		"customer_payment_5",
	}

	for _, raw := range malformed {
		_, ok := ResolveReference(raw)
		assert.False(t, ok, "expected %q to be rejected", raw)
	}
}

func TestFormatReferenceRoundTrip(t *testing.T) {
	raw := FormatReference(ReferenceKindCustomerPayment, 77)
	assert.Equal(t, "customer-payment_77", raw)

	ref, ok := ResolveReference(raw)
	require.True(t, ok)
	assert.Equal(t, Reference{Kind: ReferenceKindCustomerPayment, ID: 77}, ref)
}
