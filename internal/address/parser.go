// internal/address/parser.go
package address

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrMalformed is returned for tokens that do not follow the `pass.field` format.
var ErrMalformed = errors.New("malformed address")

// Parse creates an Address from a `pass.field` token. The token is split on
// the first dot; both sides must be non-empty.
func Parse(raw string) (Address, error) {
	passName, field, found := strings.Cut(raw, ".")
	if !found {
		return Address{}, fmt.Errorf("%w: %q has no '.' separator", ErrMalformed, raw)
	}
	if passName == "" {
		return Address{}, fmt.Errorf("%w: %q has an empty pass name", ErrMalformed, raw)
	}
	if field == "" {
		return Address{}, fmt.Errorf("%w: %q has an empty field name", ErrMalformed, raw)
	}
	if err := checkName(passName); err != nil {
		return Address{}, fmt.Errorf("%w: %q: %v", ErrMalformed, raw, err)
	}
	return Address{Pass: passName, Field: field}, nil
}

// ParseTarget accepts either a `pass.field` token or a bare pass name. It is
// used by operations that may expand a pass into all of its fields.
func ParseTarget(raw string) (Address, error) {
	if raw == "" {
		return Address{}, fmt.Errorf("%w: empty address", ErrMalformed)
	}
	if !strings.Contains(raw, ".") {
		if err := checkName(raw); err != nil {
			return Address{}, fmt.Errorf("%w: %q: %v", ErrMalformed, raw, err)
		}
		return Address{Pass: raw}, nil
	}
	return Parse(raw)
}

// checkName rejects names that cannot survive a round trip through the
// textual form.
func checkName(name string) error {
	for _, r := range name {
		if unicode.IsSpace(r) {
			return fmt.Errorf("name %q contains whitespace", name)
		}
	}
	return nil
}
