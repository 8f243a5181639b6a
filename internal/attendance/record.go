// SPDX-License-Identifier: MIT

// Package attendance parses attendance workbooks and derives summary
// statistics from them. It tolerates heterogeneous sheet layouts: percentage
// strings, mixed raw-count and percentage columns, missing registration
// numbers, absent classes-held rows, and absent overall-percentage columns.
package attendance

import "math"

// Missing returns the explicit marker for an absent numeric value.
// Missing values are never silently treated as zero.
func Missing() float64 {
	return math.NaN()
}

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Record is one student row: name, optional registration number, one value
// per subject (raw count or percentage, Missing() when blank) and the
// optional overall percentage column.
type Record struct {
	SlNo    string
	RegNo   string // empty = not present in the sheet
	Name    string
	Values  map[string]float64 // keyed by subject column header
	Overall float64            // Missing() when the sheet has no usable value
}

// Sheet is the cleaned content of one attendance worksheet.
type Sheet struct {
	Subjects    []string       // subject columns in sheet order
	ClassesHeld map[string]int // per-subject session count; 0 = unknown (percentage format)
	Records     []Record
	Institution string // optional title line found above the header row

	// Layout detection outcome, kept for diagnostics.
	HeaderRow  int
	ClassesRow int // -1 when no classes-held row was found
}

// Held returns the classes-held count for subject, 0 when unknown.
func (s *Sheet) Held(subject string) int {
	return s.ClassesHeld[subject]
}
