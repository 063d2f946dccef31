// internal/pkg/payfast/signature.go
package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Signer canonicalizes gateway field sets and produces/verifies the MD5
// signature the gateway attaches to every checkout request and ITN callback.
type Signer struct {
	passphrase string
}

func NewSigner(passphrase string) *Signer {
	return &Signer{passphrase: passphrase}
}

// Canonicalize serializes a field set into the exact byte string both sides
// sign: keys sorted lexicographically, the signature key and empty values
// dropped, values urlencoded (space as +, reserved characters including
// ! ' ( ) * percent-encoded), joined as key=value pairs with &. When a
// passphrase is configured it is appended as a final passphrase=<encoded>
// pair. All fields participate, including ones this system does not
// recognize; the gateway signs over the full set.
func (s *Signer) Canonicalize(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(encodeValue(fields[k]))
	}

	if s.passphrase != "" {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString("passphrase=")
		b.WriteString(encodeValue(s.passphrase))
	}

	return b.String()
}

// Sign computes the lowercase hex MD5 digest over the canonical string.
// An empty field set still hashes the passphrase-only (or empty) string;
// it is not a verification bypass.
func (s *Signer) Sign(fields map[string]string) string {
	sum := md5.Sum([]byte(s.Canonicalize(fields)))
	return hex.EncodeToString(sum[:])
}

// Verify recomputes the signature over every field except "signature" and
// compares it to the provided one, case-insensitively.
func (s *Signer) Verify(fields map[string]string, providedSignature string) bool {
	if providedSignature == "" {
		return false
	}
	return strings.EqualFold(s.Sign(fields), providedSignature)
}

// encodeValue matches the gateway's urlencode rules: spaces become +, and
// everything outside [A-Za-z0-9-_.~] is percent-encoded, which covers the
// protocol's explicitly-listed ! ' ( ) * characters.
func encodeValue(v string) string {
	return url.QueryEscape(v)
}
