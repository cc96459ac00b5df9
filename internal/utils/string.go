package utils

import (
	"strings"
)

// NonEmptyLines splits text on newlines, trims each line and drops blank ones.
// A positive max caps the number of lines returned.
func NonEmptyLines(text string, max int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if max > 0 && len(lines) == max {
			break
		}
	}
	return lines
}
