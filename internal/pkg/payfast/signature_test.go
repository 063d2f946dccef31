package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeSortsAndFilters(t *testing.T) {
	signer := NewSigner("")

	fields := map[string]string{
		"name_first": "John Doe",
		"amount":     "100.00",
		"signature":  "deadbeef",
		"cell":       "",
	}

	assert.Equal(t, "amount=100.00&name_first=John+Doe", signer.Canonicalize(fields))
}

func TestCanonicalizeAppendsPassphrase(t *testing.T) {
	signer := NewSigner("pass phrase")

	fields := map[string]string{"amount": "100.00"}

	assert.Equal(t, "amount=100.00&passphrase=pass+phrase", signer.Canonicalize(fields))
}

func TestCanonicalizeEncodesReservedCharacters(t *testing.T) {
	signer := NewSigner("")

	fields := map[string]string{"item_name": "it's (a) test!*"}

	assert.Equal(t, "item_name=it%27s+%28a%29+test%21%2A", signer.Canonicalize(fields))
}

func TestCanonicalizeEmptyFieldSet(t *testing.T) {
	assert.Equal(t, "", NewSigner("").Canonicalize(map[string]string{}))
	assert.Equal(t, "passphrase=secret", NewSigner("secret").Canonicalize(map[string]string{}))
}

func TestSignMatchesCanonicalDigest(t *testing.T) {
	signer := NewSigner("jt7NOE43FZPn")

	fields := map[string]string{
		"merchant_id":  "10000100",
		"m_payment_id": "registration_42",
		"amount":       "150.00",
	}

	canonical := "amount=150.00&m_payment_id=registration_42&merchant_id=10000100&passphrase=jt7NOE43FZPn"
	sum := md5.Sum([]byte(canonical))

	assert.Equal(t, hex.EncodeToString(sum[:]), signer.Sign(fields))
}

func TestVerifyRoundTrip(t *testing.T) {
	signer := NewSigner("jt7NOE43FZPn")

	fields := map[string]string{
		"merchant_id":    "10000100",
		"m_payment_id":   "registration_42",
		"payment_status": "COMPLETE",
		"amount_gross":   "150.00",
	}
	sig := signer.Sign(fields)
	fields["signature"] = sig

	require.True(t, signer.Verify(fields, sig))

	// Case-insensitive comparison
	assert.True(t, signer.Verify(fields, strings.ToUpper(sig)))
}

func TestVerifyRejectsTamperedField(t *testing.T) {
	signer := NewSigner("jt7NOE43FZPn")

	fields := map[string]string{
		"merchant_id":  "10000100",
		"amount_gross": "150.00",
	}
	sig := signer.Sign(fields)

	fields["amount_gross"] = "1.00"
	assert.False(t, signer.Verify(fields, sig))
}

func TestVerifyRejectsEmptySignature(t *testing.T) {
	signer := NewSigner("")
	assert.False(t, signer.Verify(map[string]string{"amount": "1.00"}, ""))
}

func TestVerifyCoversUnknownFields(t *testing.T) {
	signer := NewSigner("jt7NOE43FZPn")

	fields := map[string]string{
		"merchant_id": "10000100",
		"custom_str1": "opaque-gateway-extra",
	}
	sig := signer.Sign(fields)
	require.True(t, signer.Verify(fields, sig))

	// Unknown fields still participate, so tampering with one breaks the
	// signature.
	fields["custom_str1"] = "changed"
	assert.False(t, signer.Verify(fields, sig))
}

func TestSignDiffersByPassphrase(t *testing.T) {
	fields := map[string]string{"amount": "100.00"}

	a := NewSigner("one").Sign(fields)
	b := NewSigner("two").Sign(fields)

	assert.NotEqual(t, a, b)
}
