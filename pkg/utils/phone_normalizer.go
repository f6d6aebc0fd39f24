package utils

import (
	"strings"
)

// NormalizedPhone contains the two forms a phone number is stored under
type NormalizedPhone struct {
	// Display keeps digits and a single leading '+'
	Display string
	// Key is digits only and is the patient dedup key
	Key string
}

// NormalizePhone strips every character except digits and a leading '+'.
// "+20 (101) 234-5678" and "201012345678" share the key "201012345678".
func NormalizePhone(raw string) NormalizedPhone {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	b.Grow(len(raw))
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}

	display := b.String()
	key := strings.TrimPrefix(display, "+")
	if key == "" {
		display = ""
	}

	return NormalizedPhone{
		Display: display,
		Key:     key,
	}
}

// IsEmpty reports whether the phone had no digits at all
func (p NormalizedPhone) IsEmpty() bool {
	return p.Key == ""
}

// PhoneDigits returns the digits-only form used by the WhatsApp gateway
func PhoneDigits(raw string) string {
	return NormalizePhone(raw).Key
}
