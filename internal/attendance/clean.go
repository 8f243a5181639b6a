// SPDX-License-Identifier: MIT

package attendance

import (
	"strconv"
	"strings"
)

// CleanNumeric converts a raw cell value to a float. Percentage strings lose
// their sign ("85%" -> 85.0). Blank or unparseable cells yield Missing().
func CleanNumeric(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Missing()
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "%", ""))
	if s == "" {
		return Missing()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing()
	}
	return f
}

// cleanHeldCount parses a classes-held cell. The cell may carry a stray
// percent sign or a float rendering of an integer. Unparseable cells count
// as unknown (0).
func cleanHeldCount(raw string) int {
	f := CleanNumeric(raw)
	if IsMissing(f) || f < 0 {
		return 0
	}
	return int(f)
}

// clampPct confines a percentage to [0,100].
func clampPct(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// clampFraction confines a ratio to [0,1].
func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
