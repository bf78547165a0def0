package cart

import (
	"errors"
	"strings"
)

// ErrInvalidVariant rejects a color outside the product's declared set.
var ErrInvalidVariant = errors.New("color not available for this product")

// resolveColor derives the variant half of a cart line's identity. A product
// with no declared colors accepts anything; otherwise a supplied color must
// be one of the declared values. An unsupplied color always resolves to the
// variant-less line "".
func resolveColor(colors []string, color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" || len(colors) == 0 {
		return color, nil
	}
	for _, c := range colors {
		if c == color {
			return color, nil
		}
	}
	return "", ErrInvalidVariant
}
