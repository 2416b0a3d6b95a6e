package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NormalizeCardNumber strips spaces and dashes and validates length and
// the Luhn checksum.
func NormalizeCardNumber(number string) (string, error) {
	var b strings.Builder
	for _, r := range number {
		switch {
		case r == ' ' || r == '-':
			continue
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			return "", fmt.Errorf("%w: only digits are allowed", ErrInvalidCard)
		}
	}

	digits := b.String()
	if len(digits) < 12 || len(digits) > 19 {
		return "", fmt.Errorf("%w: must be 12 to 19 digits", ErrInvalidCard)
	}
	if !luhnValid(digits) {
		return "", fmt.Errorf("%w: checksum failed", ErrInvalidCard)
	}
	return digits, nil
}

func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func CardBrand(digits string) string {
	switch {
	case strings.HasPrefix(digits, "4"):
		return "visa"
	case hasPrefixInRange(digits, 2, 51, 55), hasPrefixInRange(digits, 4, 2221, 2720):
		return "mastercard"
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "amex"
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return "discover"
	default:
		return "card"
	}
}

func hasPrefixInRange(digits string, n, lo, hi int) bool {
	if len(digits) < n {
		return false
	}
	v, err := strconv.Atoi(digits[:n])
	if err != nil {
		return false
	}
	return v >= lo && v <= hi
}

func LastFour(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// ParseExpiry validates an "MM/YY" expiry. A card is usable through the last
// day of its expiry month.
func ParseExpiry(expiry string, now time.Time) (string, error) {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return "", fmt.Errorf("%w: use MM/YY", ErrInvalidExpiry)
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("%w: month must be 01-12", ErrInvalidExpiry)
	}
	yy, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: use MM/YY", ErrInvalidExpiry)
	}

	firstOfNextMonth := time.Date(2000+yy, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !now.UTC().Before(firstOfNextMonth) {
		return "", ErrCardExpired
	}
	return fmt.Sprintf("%02d/%02d", month, yy), nil
}
