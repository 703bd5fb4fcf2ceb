package netutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrefix(t *testing.T) {
	t.Run("Valid Range", func(t *testing.T) {
		p, err := ParsePrefix("129.240.12.0/23")
		require.NoError(t, err)
		assert.Equal(t, "129.240.12.0/23", p.String())
	})

	t.Run("Host Bits Set", func(t *testing.T) {
		_, err := ParsePrefix("129.240.12.1/23")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "host bits set")
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParsePrefix("not-a-subnet")
		assert.ErrorContains(t, err, "invalid subnet")
	})
}

func TestIsValidPrefix(t *testing.T) {
	assert.True(t, IsValidPrefix("10.0.0.0/24"))
	assert.True(t, IsValidPrefix("2001:db8::/64"))
	assert.False(t, IsValidPrefix("10.0.0.1/24"))
	assert.False(t, IsValidPrefix("10.0.0.0"))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"Subset", "10.0.0.0/16", "10.0.4.0/24", true},
		{"Identical", "10.0.0.0/24", "10.0.0.0/24", true},
		{"Disjoint", "10.0.0.0/24", "10.0.1.0/24", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Overlaps(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The check is symmetric.
			got, err = Overlaps(tt.b, tt.a)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Overlaps("10.0.0.0/24", "bogus")
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	ok, err := Contains("129.240.12.0/23", "129.240.13.255")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Contains("129.240.12.0/23", "129.240.14.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = Contains("129.240.12.0/23", "not-an-ip")
	assert.ErrorContains(t, err, "invalid address")
}

func TestNetworkBroadcast(t *testing.T) {
	first, last, err := NetworkBroadcast("10.0.0.0/24")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.0", first.String())
	assert.Equal(t, "10.0.0.255", last.String())
}

func TestReservedAddresses(t *testing.T) {
	t.Run("First N Usable", func(t *testing.T) {
		reserved, err := ReservedAddresses("10.0.0.0/24", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"}, reserved)
	})

	t.Run("Capped By Range Size", func(t *testing.T) {
		reserved, err := ReservedAddresses("10.0.0.0/30", 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, reserved)
	})

	t.Run("Zero Reserved", func(t *testing.T) {
		reserved, err := ReservedAddresses("10.0.0.0/24", 0)
		require.NoError(t, err)
		assert.Empty(t, reserved)
	})
}

func TestNetmask(t *testing.T) {
	mask, err := Netmask("10.0.0.0/23")
	require.NoError(t, err)
	assert.Equal(t, "255.255.254.0", mask)

	mask, err = Netmask("2001:db8::/64")
	require.NoError(t, err)
	assert.Equal(t, "ffff:ffff:ffff:ffff::", mask)
}
