package geom

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidColorFormat is returned for anything other than #RGB or #RRGGBB.
var ErrInvalidColorFormat = errors.New("invalid color format")

// RGB is a color with each channel normalized to [0, 1].
type RGB struct {
	R float64
	G float64
	B float64
}

// NormalizeHex validates a #RGB or #RRGGBB string and returns the 6-digit
// form. Shorthand digits are doubled; the case of the input is kept.
func NormalizeHex(hex string) (string, error) {
	if len(hex) == 0 || hex[0] != '#' {
		return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	digits := hex[1:]
	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
		}
	}

	switch len(digits) {
	case 6:
		return hex, nil
	case 3:
		return string([]byte{'#',
			digits[0], digits[0],
			digits[1], digits[1],
			digits[2], digits[2],
		}), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
}

// HexToRGB converts #RGB or #RRGGBB to normalized channels.
func HexToRGB(hex string) (RGB, error) {
	full, err := NormalizeHex(hex)
	if err != nil {
		return RGB{}, err
	}

	v, err := strconv.ParseUint(full[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}

	return RGB{
		R: float64((v>>16)&0xff) / 255,
		G: float64((v>>8)&0xff) / 255,
		B: float64(v&0xff) / 255,
	}, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
