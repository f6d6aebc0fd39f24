package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantDisplay string
		wantKey     string
	}{
		{"already clean international", "+201012345678", "+201012345678", "201012345678"},
		{"digits only", "201012345678", "201012345678", "201012345678"},
		{"spaces and dashes", " +20 101-234 5678 ", "+201012345678", "201012345678"},
		{"parentheses", "(010) 9999-9999", "01099999999", "01099999999"},
		{"plus in the middle is dropped", "0109+9999999", "01099999999", "01099999999"},
		{"no digits", "+ -", "", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			assert.Equal(t, tt.wantDisplay, got.Display)
			assert.Equal(t, tt.wantKey, got.Key)
		})
	}
}

func TestNormalizePhone_SameKeyWithAndWithoutPlus(t *testing.T) {
	assert.Equal(t, NormalizePhone("+201012345678").Key, NormalizePhone("201012345678").Key)
	assert.True(t, NormalizePhone("abc").IsEmpty())
	assert.Equal(t, "201012345678", PhoneDigits("+20 1012345678"))
}
