// internal/address/types.go
package address

// Address is the structured representation of a `pass.field` token.
// Field is empty when the address names a whole pass.
type Address struct {
	Pass  string
	Field string
}

// New creates an address from its two parts.
func New(pass, field string) Address {
	return Address{Pass: pass, Field: field}
}

// HasField reports whether the address names a specific field.
func (a Address) HasField() bool {
	return a.Field != ""
}
