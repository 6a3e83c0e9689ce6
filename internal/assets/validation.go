package assets

import (
	"fmt"
	"unicode"
)

// MaxAssetNameLength bounds corpus names.
const MaxAssetNameLength = 64

// ValidateAssetName checks that a corpus name maps to a single file in the
// corpus directory. Only letters, digits, '-' and '_' are accepted, so names
// cannot carry separators, extensions or traversal sequences.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > MaxAssetNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidAssetName, MaxAssetNameLength)
	}
	for _, r := range name {
		if r != '-' && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidAssetName, name, r)
		}
	}
	return nil
}
