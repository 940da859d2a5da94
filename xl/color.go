package xl

import (
	"fmt"
	"strings"
)

// argbColor converts a "#RRGGBB" color into the opaque "FFRRGGBB" form used
// by the styles part.
func argbColor(c string) (string, error) {
	if len(c) != 7 || c[0] != '#' {
		return "", fmt.Errorf("%w: %q must be in #RRGGBB form", ErrInvalidColorFormat, c)
	}
	for _, r := range c[1:] {
		if !isHexDigit(r) {
			return "", fmt.Errorf("%w: %q must be in #RRGGBB form", ErrInvalidColorFormat, c)
		}
	}
	return "FF" + strings.ToUpper(c[1:]), nil
}

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}
