package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateHaversineDistance(t *testing.T) {
	t.Run("same point", func(t *testing.T) {
		assert.InDelta(t, 0, CalculateHaversineDistance(-6.2, 106.816666, -6.2, 106.816666), 1e-9)
	})

	t.Run("a few meters apart", func(t *testing.T) {
		d := CalculateHaversineDistance(-6.2, 106.816666, -6.2, 106.8167)
		assert.Greater(t, d, 3.0)
		assert.Less(t, d, 5.0)
	})

	t.Run("tens of kilometers apart", func(t *testing.T) {
		d := CalculateHaversineDistance(-6.2, 106.816666, -6.5, 107.0)
		assert.Greater(t, d, 30000.0)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := CalculateHaversineDistance(1, 2, 3, 4)
		b := CalculateHaversineDistance(3, 4, 1, 2)
		assert.InDelta(t, a, b, 1e-6)
	})
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(-6.2, 106.8))
	assert.False(t, IsValidCoordinate(91, 0))
	assert.False(t, IsValidCoordinate(0, -181))
}

func TestParseIPv4(t *testing.T) {
	v, err := ParseIPv4("192.168.1.10")
	require.NoError(t, err)
	assert.Equal(t, uint32(192<<24|168<<16|1<<8|10), v)

	for _, bad := range []string{"", "1.2.3", "1.2.3.4.5", "256.0.0.1", "a.b.c.d", "::1", "1..2.3", "1.2.3.-4"} {
		_, err := ParseIPv4(bad)
		assert.ErrorIs(t, err, ErrInvalidIPv4, bad)
	}
}

func TestIPInRange(t *testing.T) {
	tests := []struct {
		name string
		ip   string
		want bool
	}{
		{"lower bound", "192.168.1.1", true},
		{"upper bound", "192.168.1.254", true},
		{"inside", "192.168.1.100", true},
		{"below", "192.168.1.0", false},
		{"above", "192.168.1.255", false},
		{"ipv6", "::1", false},
		{"garbage", "not-an-ip", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IPInRange(tt.ip, "192.168.1.1", "192.168.1.254"))
		})
	}

	t.Run("range spans octets numerically", func(t *testing.T) {
		assert.True(t, IPInRange("10.0.1.5", "10.0.0.200", "10.0.2.10"))
	})
}
