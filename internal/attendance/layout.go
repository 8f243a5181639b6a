// SPDX-License-Identifier: MIT

package attendance

import (
	"strconv"
	"strings"
)

// Layout describes where the interesting rows sit in a worksheet.
type Layout struct {
	HeaderRow  int
	ClassesRow int // -1 when absent
}

// Fallback positions used when keyword detection finds nothing. They match
// the common export format this tool historically consumed.
const (
	fallbackHeaderRow  = 3
	fallbackClassesRow = 4
)

var headerKeywords = []string{"student", "name", "reg", "sl", "percentage"}

// DetectLayout scans raw rows for the column-header row (identified by
// keywords like "student" or "reg") and the classes-held row that usually
// follows it within a few rows.
func DetectLayout(rows [][]string) Layout {
	headerRow := -1
	for idx, row := range rows {
		joined := strings.ToLower(strings.Join(row, " "))
		for _, kw := range headerKeywords {
			if strings.Contains(joined, kw) {
				headerRow = idx
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}

	if headerRow < 0 {
		return Layout{HeaderRow: fallbackHeaderRow, ClassesRow: fallbackClassesRow}
	}

	classesRow := -1
	limit := headerRow + 5
	if limit > len(rows) {
		limit = len(rows)
	}
	for idx := headerRow + 1; idx < limit; idx++ {
		joined := strings.ToLower(strings.Join(rows[idx], " "))
		if strings.Contains(joined, "classes") || strings.Contains(joined, "held") || rowHasDigits(rows[idx]) {
			classesRow = idx
			break
		}
	}

	return Layout{HeaderRow: headerRow, ClassesRow: classesRow}
}

func rowHasDigits(row []string) bool {
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, err := strconv.Atoi(cell); err == nil {
			return true
		}
	}
	return false
}

// columnKind classifies a header cell into one of the canonical roles.
type columnKind int

const (
	colSubject columnKind = iota
	colSlNo
	colRegNo
	colName
	colOverall
)

// classifyColumn maps a header to its role. Order matters: registration
// numbers first (most specific), then serial numbers, names, and the
// overall-percentage column; everything else is a subject.
func classifyColumn(header string) columnKind {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case containsAny(h, "reg", "registration", "roll"):
		return colRegNo
	case containsAny(h, "sl", "serial"):
		return colSlNo
	case containsAny(h, "student", "name"):
		return colName
	case containsAny(h, "percentage", "total", "overall"):
		return colOverall
	default:
		return colSubject
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
