package registry

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeSetting converts a named setting to ty and stores it in target.
// It reports false when the setting is absent or null, leaving target
// untouched.
func DecodeSetting(settings map[string]cty.Value, name string, ty cty.Type, target any) (bool, error) {
	v, ok := settings[name]
	if !ok || v.IsNull() {
		return false, nil
	}
	if !v.IsWhollyKnown() {
		return false, fmt.Errorf("setting %q is not known", name)
	}
	v, err := convert.Convert(v, ty)
	if err != nil {
		return false, fmt.Errorf("setting %q: %w", name, err)
	}
	if err := gocty.FromCtyValue(v, target); err != nil {
		return false, fmt.Errorf("setting %q: %w", name, err)
	}
	return true, nil
}
