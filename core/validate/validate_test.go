package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTTL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"Default Keyword", "default", true},
		{"Lower Bound", "300", true},
		{"Upper Bound", "68400", true},
		{"Below Lower Bound", "299", false},
		{"Above Upper Bound", "68401", false},
		{"Not A Number", "soon", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidTTL(tt.in))
		})
	}
}

func TestIsValidMAC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"Colon Form", "28:85:b1:60:54:dc", true},
		{"Bare Form", "2885b16054dc", true},
		{"Uppercase", "28:85:B1:60:54:DC", true},
		{"Too Short", "28:85:b1:60:54", false},
		{"Dash Separator", "28-85-b1-60-54-dc", false},
		{"Not Hex", "zz:85:b1:60:54:dc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidMAC(tt.in))
		})
	}
}

func TestIPChecks(t *testing.T) {
	assert.True(t, IsValidIP("129.240.12.1"))
	assert.True(t, IsValidIP("2001:db8::1"))
	assert.False(t, IsValidIP("129.240.12"))
	assert.False(t, IsValidIP("subnet"))

	assert.True(t, IsValidIPv4("129.240.12.1"))
	assert.False(t, IsValidIPv4("2001:db8::1"))

	assert.True(t, IsValidIPv6("2001:db8::1"))
	assert.False(t, IsValidIPv6("129.240.12.1"))
	assert.False(t, IsValidIPv6("::ffff:129.240.12.1"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("hostmaster@example.org"))
	assert.False(t, IsValidEmail("hostmaster"))
	assert.False(t, IsValidEmail("a@b"))
	assert.False(t, IsValidEmail("two words@example.org"))
}
