package utils

import (
	"fmt"
	"strings"
)

// FormatISK formats an ISK amount with comma separators and two decimals.
// Examples: 1234.5 -> "1,234.50 ISK", 5000000 -> "5,000,000.00 ISK"
func FormatISK(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	whole := int64(amount)
	frac := int64((amount-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}

	str := fmt.Sprintf("%d", whole)
	var result []rune
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, c)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%02d ISK", sign, string(result), frac)
}

// ShortISK formats an ISK amount in killboard shorthand.
// Examples: 5000000 -> "5.0m", 1200000000 -> "1.2b", 950 -> "950"
func ShortISK(amount float64) string {
	switch {
	case amount >= 1e9:
		return fmt.Sprintf("%.1fb", amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("%.1fm", amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("%.1fk", amount/1e3)
	default:
		return fmt.Sprintf("%.0f", amount)
	}
}

// TruncateText truncates text to maxLen bytes, adding "..." if truncated.
// Also removes newlines for single-line display. The cut lands on a rune
// boundary so truncated output stays valid UTF-8.
func TruncateText(text string, maxLen int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.TrimSpace(text)

	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return truncateToRuneBoundary(text, maxLen-3) + "..."
}
