// SPDX-License-Identifier: MIT

package attendance

import (
	"fmt"
	"sort"
)

// Subject performance status labels.
const (
	StatusExcellent  = "Excellent"
	StatusGood       = "Good"
	StatusNeedsFocus = "Needs Focus"
	StatusNoData     = "No Data"
)

// SubjectStats is the aggregate view of one subject across all students.
// Subjects whose column is entirely missing are excluded from the summary.
type SubjectStats struct {
	Subject string
	Average float64 // mean of the cleaned cell values (counts or percentages)
	Held    int     // classes held; 0 = unknown
	Rate    float64 // attendance rate in percent
	Status  string
}

// SubjectResult is one subject cell of one student, resolved to a percentage.
type SubjectResult struct {
	Subject    string
	Attended   int // valid only when HasHeld
	Held       int
	HasHeld    bool // false when the sheet gave percentages without a held count
	Percentage float64
	Good       bool
}

// StudentDetail is the per-student breakdown used by the report.
type StudentDetail struct {
	Name           string
	RegNo          string // empty = not shown
	Overall        float64 // fraction in [0,1]
	Subjects       []SubjectResult
	BelowThreshold []string // subject names under the threshold
	Strengths      []string // formatted "Subject: 85.3%" lines
	NeedsAttention []string
}

// RankEntry is one row of a per-subject top list.
type RankEntry struct {
	Name  string
	Value float64
}

// Summary holds every derived statistic the report renders.
type Summary struct {
	Threshold     float64 // pass threshold as a fraction
	TotalStudents int

	AvgAttendance     float64 // fractions in [0,1]
	HighestAttendance float64
	LowestAttendance  float64
	AboveThreshold    int
	BelowThreshold    int

	Subjects []SubjectStats
	Students []StudentDetail
	Rankings map[string][]RankEntry // top students per subject

	// OverallComputed is set when the overall column was absent or empty and
	// percentages were derived from per-subject data instead.
	OverallComputed bool
	// NoData is set when no attendance data existed to compute anything from.
	NoData bool
}

// Summarize derives the full statistics set from a cleaned sheet.
func Summarize(sheet *Sheet, threshold float64) *Summary {
	sum := &Summary{
		Threshold:     threshold,
		TotalStudents: len(sheet.Records),
		Rankings:      make(map[string][]RankEntry, len(sheet.Subjects)),
	}

	fractions, computed := overallFractions(sheet)
	sum.OverallComputed = computed

	valid := make([]float64, 0, len(fractions))
	for _, f := range fractions {
		if !IsMissing(f) {
			valid = append(valid, f)
		}
	}

	if len(valid) == 0 {
		// Nothing usable anywhere: zeros, flagged, everyone needs attention.
		sum.NoData = true
		sum.BelowThreshold = sum.TotalStudents
	} else {
		sum.AvgAttendance = mean(valid)
		sum.HighestAttendance = maxOf(valid)
		sum.LowestAttendance = minOf(valid)
		for _, f := range valid {
			if f >= threshold {
				sum.AboveThreshold++
			} else {
				sum.BelowThreshold++
			}
		}
	}

	sum.Subjects = subjectStats(sheet, threshold)
	sum.Students = studentDetails(sheet, fractions, threshold)

	for _, subject := range sheet.Subjects {
		if top := rankSubject(sheet, subject, 5); len(top) > 0 {
			sum.Rankings[subject] = top
		}
	}

	return sum
}

// overallFractions resolves each student's overall attendance to a fraction
// in [0,1]. When the overall column carries data, a max-value heuristic
// decides whether it holds fractions (max <= 1.0) or percentages. Students
// with a missing or zero overall, or sheets without the column at all, fall
// back to sum(attended)/sum(held) across subjects. The second return value
// reports whether the column-wide fallback was taken.
func overallFractions(sheet *Sheet) ([]float64, bool) {
	maxVal := 0.0
	hasData := false
	for _, rec := range sheet.Records {
		if IsMissing(rec.Overall) {
			continue
		}
		if rec.Overall > maxVal {
			maxVal = rec.Overall
		}
		if rec.Overall > 0 {
			hasData = true
		}
	}

	fractions := make([]float64, len(sheet.Records))

	if !hasData {
		any := false
		for i, rec := range sheet.Records {
			f, ok := computeFromSubjects(sheet, rec)
			if ok && f > 0 {
				any = true
			}
			fractions[i] = f
		}
		if !any {
			for i := range fractions {
				fractions[i] = Missing()
			}
			return fractions, false
		}
		return fractions, true
	}

	scale := 1.0
	if maxVal > 1.0 {
		scale = 100.0
	}
	for i, rec := range sheet.Records {
		if IsMissing(rec.Overall) || rec.Overall == 0 {
			// Back-compute individual gaps from subject data.
			if f, ok := computeFromSubjects(sheet, rec); ok {
				fractions[i] = f
			} else {
				fractions[i] = Missing()
			}
			continue
		}
		fractions[i] = clampFraction(rec.Overall / scale)
	}
	return fractions, false
}

// computeFromSubjects back-computes a student's overall fraction as
// sum(attended)/sum(held) over subjects with a known held count. ok is false
// when no subject contributes.
func computeFromSubjects(sheet *Sheet, rec Record) (float64, bool) {
	var attended, held float64
	for _, subject := range sheet.Subjects {
		v, present := rec.Values[subject]
		if !present || IsMissing(v) {
			continue
		}
		h := sheet.Held(subject)
		if h <= 0 {
			continue
		}
		attended += v
		held += float64(h)
	}
	if held == 0 {
		return 0, false
	}
	return clampFraction(attended / held), true
}

func subjectStats(sheet *Sheet, threshold float64) []SubjectStats {
	thresholdPct := threshold * 100
	stats := make([]SubjectStats, 0, len(sheet.Subjects))

	for _, subject := range sheet.Subjects {
		values := subjectValues(sheet, subject)
		if len(values) == 0 {
			// All-missing subject: excluded entirely, never a divide-by-zero.
			continue
		}
		avg := mean(values)

		st := SubjectStats{
			Subject: subject,
			Average: avg,
			Held:    sheet.Held(subject),
		}
		if st.Held > 0 {
			st.Rate = clampPct(avg / float64(st.Held) * 100)
		} else {
			// No held count: the values are taken to be percentages already.
			st.Rate = clampPct(avg)
		}

		switch {
		case st.Rate >= thresholdPct:
			st.Status = StatusExcellent
		case st.Rate >= thresholdPct*0.8:
			st.Status = StatusGood
		case st.Rate > 0:
			st.Status = StatusNeedsFocus
		default:
			st.Status = StatusNoData
		}

		stats = append(stats, st)
	}
	return stats
}

func studentDetails(sheet *Sheet, fractions []float64, threshold float64) []StudentDetail {
	thresholdPct := threshold * 100
	details := make([]StudentDetail, 0, len(sheet.Records))

	for i, rec := range sheet.Records {
		d := StudentDetail{
			Name:  rec.Name,
			RegNo: rec.RegNo,
		}
		if !IsMissing(fractions[i]) {
			d.Overall = fractions[i]
		}

		for _, subject := range sheet.Subjects {
			v, present := rec.Values[subject]
			if !present || IsMissing(v) {
				continue
			}

			res := SubjectResult{Subject: subject}
			if held := sheet.Held(subject); held > 0 {
				res.Attended = int(v)
				res.Held = held
				res.HasHeld = true
				res.Percentage = clampPct(float64(res.Attended) / float64(held) * 100)
			} else {
				res.Percentage = v
			}
			res.Good = res.Percentage >= thresholdPct
			d.Subjects = append(d.Subjects, res)

			line := fmt.Sprintf("%s: %.1f%%", subject, res.Percentage)
			if res.Good {
				d.Strengths = append(d.Strengths, line)
			} else {
				d.BelowThreshold = append(d.BelowThreshold, subject)
				d.NeedsAttention = append(d.NeedsAttention, line)
			}
		}

		details = append(details, d)
	}
	return details
}

// rankSubject returns the top n students by cell value for one subject.
func rankSubject(sheet *Sheet, subject string, n int) []RankEntry {
	entries := make([]RankEntry, 0, len(sheet.Records))
	for _, rec := range sheet.Records {
		v, present := rec.Values[subject]
		if !present || IsMissing(v) {
			continue
		}
		entries = append(entries, RankEntry{Name: rec.Name, Value: v})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func subjectValues(sheet *Sheet, subject string) []float64 {
	values := make([]float64, 0, len(sheet.Records))
	for _, rec := range sheet.Records {
		if v, present := rec.Values[subject]; present && !IsMissing(v) {
			values = append(values, v)
		}
	}
	return values
}
