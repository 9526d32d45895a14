// internal/address/address.go
package address

// String serializes the Address into its canonical `pass.field` form, or
// just the pass name when no field is set.
func (a Address) String() string {
	if a.Field == "" {
		return a.Pass
	}
	return a.Pass + "." + a.Field
}

// Equal checks whether two addresses name the same pass and field.
func (a Address) Equal(other Address) bool {
	return a.Pass == other.Pass && a.Field == other.Field
}

// Less orders addresses by pass name, then field name.
func (a Address) Less(other Address) bool {
	if a.Pass != other.Pass {
		return a.Pass < other.Pass
	}
	return a.Field < other.Field
}
