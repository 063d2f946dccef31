// internal/pkg/payfast/reference.go
package payfast

import (
	"fmt"
	"regexp"
	"strconv"
)

// ReferenceKind is the closed set of entity namespaces a merchant payment
// reference can point at.
type ReferenceKind string

const (
	ReferenceKindRegistration    ReferenceKind = "registration"
	ReferenceKindCustomerPayment ReferenceKind = "customer-payment"
)

// Reference is a resolved m_payment_id: which record kind it targets and the
// record's numeric id.
type Reference struct {
	Kind ReferenceKind
	ID   int64
}

var referencePattern = regexp.MustCompile(`^(registration|customer-payment)_(\d+)$`)

// ResolveReference parses an opaque merchant reference such as
// "registration_123". Malformed or unknown input returns ok=false; callers
// treat that as a soft miss, never an error.
func ResolveReference(raw string) (Reference, bool) {
	m := referencePattern.FindStringSubmatch(raw)
	if m == nil {
		return Reference{}, false
	}

	id, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Reference{}, false
	}

	return Reference{Kind: ReferenceKind(m[1]), ID: id}, true
}

// FormatReference builds the outbound m_payment_id for a record.
func FormatReference(kind ReferenceKind, id int64) string {
	return fmt.Sprintf("%s_%d", kind, id)
}
