package pipeline

import "strings"

// TrimTrailing drops everything after the last '>' in s. Input without a
// '>' yields the empty string.
func TrimTrailing(s string) string {
	i := strings.LastIndexByte(s, '>')
	if i < 0 {
		return ""
	}
	return s[:i+1]
}
