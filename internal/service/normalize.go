package service

import (
	"strings"
)

// NormalizeText collapses consecutive whitespace to single spaces, trims
// the ends, and head-truncates to cap characters. Truncation is silent
// and deterministic; the extractor tolerates a cut-off tail.
func NormalizeText(text string, cap int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if cap > 0 {
		runes := []rune(collapsed)
		if len(runes) > cap {
			return string(runes[:cap])
		}
	}
	return collapsed
}
