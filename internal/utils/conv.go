package utils

import (
	"strconv"
)

// StringToInt parses s as a base-10 int; malformed input yields 0, which
// callers treat as "no such id".
func StringToInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
