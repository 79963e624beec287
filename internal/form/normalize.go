package form

import (
	"strings"
	"unicode"
)

// DefaultPhonePrefix is the Indonesian country code as displayed in the
// phone input.
const DefaultPhonePrefix = "+62 "

// NormalizePhone strips the display prefix, drops every non-digit and puts
// the prefix back, so the stored value is always prefix + digits. Input with
// no digits normalizes to "". Applying it twice is the same as once.
func NormalizePhone(prefix, s string) string {
	digits := LocalDigits(prefix, s)
	if digits == "" {
		return ""
	}
	return prefix + digits
}

// LocalDigits returns the subscriber digits of a phone value, i.e. the
// digits after the display prefix. The prefix itself contains digits, so it
// must be removed before filtering.
func LocalDigits(prefix, s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, prefix)
	// Also accept the prefix typed without its trailing space.
	s = strings.TrimPrefix(s, strings.TrimSpace(prefix))
	return PhoneDigits(s)
}

// PhoneDigits keeps only the ASCII digits of s.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripThousands removes thousand separators ("50.000", "50,000",
// "50 000") leaving the raw numeric string.
func StripThousands(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// FormatThousands renders a raw digit string with "." separators for
// display. Non-digit input is returned unchanged.
func FormatThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return s
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
