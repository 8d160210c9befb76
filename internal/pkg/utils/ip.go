package utils

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidIPv4 = errors.New("invalid IPv4 address")

// ParseIPv4 converts a dotted-quad address into its 32-bit value.
func ParseIPv4(s string) (uint32, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 4 {
		return 0, ErrInvalidIPv4
	}

	var result uint32
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return 0, ErrInvalidIPv4
		}
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return 0, ErrInvalidIPv4
		}
		result = result<<8 | uint32(n)
	}
	return result, nil
}

// IPInRange reports whether ip lies in the inclusive numeric range [start, end].
// Unparseable input never matches.
func IPInRange(ip, start, end string) bool {
	v, err := ParseIPv4(ip)
	if err != nil {
		return false
	}
	lo, err := ParseIPv4(start)
	if err != nil {
		return false
	}
	hi, err := ParseIPv4(end)
	if err != nil {
		return false
	}
	return lo <= v && v <= hi
}
