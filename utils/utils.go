package utils

import "strconv"

// ParseUint converts a decimal string id to uint, returning 0 when invalid.
func ParseUint(s string) uint {
	if s == "" {
		return 0
	}
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}
