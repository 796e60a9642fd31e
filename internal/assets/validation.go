package assets

import "fmt"

// ValidateAssetName checks that name is a bare template name: ASCII
// letters, digits, '-' and '_' only. Separators, dots and traversal
// sequences are rejected with ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
