// SPDX-License-Identifier: MIT

// Package report renders attendance summaries into multi-section PDF
// documents. The statistics layer decides the values; this package only
// lays them out.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/edreports/attrep/internal/attendance"
)

// Options controls document-level presentation.
type Options struct {
	Title       string    // falls back to the detected institution banner or a default
	GeneratedAt time.Time // zero value means time.Now()
}

const defaultTitle = "Detailed Attendance Analysis Report"

// students rendered per page in the per-student section
const studentsPerPage = 6

var titleCaser = cases.Title(language.English)

// SubjectTitle prettifies a raw subject column header for display.
func SubjectTitle(subject string) string {
	return titleCaser.String(strings.ReplaceAll(subject, "_", " "))
}

// heldLabel renders a classes-held count, marking unknown counts as
// percentage-format columns.
func heldLabel(count int) string {
	if count > 0 {
		return fmt.Sprintf("%d", count)
	}
	return "N/A (percentage format)"
}

// Render produces the complete PDF report.
func Render(sheet *attendance.Sheet, sum *attendance.Summary, opts Options) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = sheet.Institution
	}
	if title == "" {
		title = defaultTitle
	}
	generated := opts.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	writeHeader(pdf, title, generated, sum)
	writeExecutiveSummary(pdf, sum)
	writeClassesHeld(pdf, sheet)
	writeSubjectAnalysis(pdf, sum)
	writeRankings(pdf, sheet, sum)

	pdf.AddPage()
	writeStudentSection(pdf, sum)

	pdf.AddPage()
	writeLegend(pdf, sum)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(pdf *gofpdf.Fpdf, title string, generated time.Time, sum *attendance.Summary) {
	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 0, 128)
	pdf.MultiCell(0, 10, title, "", "C", false)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, fmt.Sprintf("Report Generated: %s", generated.Format("January 2, 2006 at 3:04 PM")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Analysis Threshold: %.0f%%", sum.Threshold*100), "", 1, "L", false, 0, "")
	if sum.OverallComputed {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, "Note: overall percentages calculated from subject-wise attendance (no percentage column in source data)", "", 1, "L", false, 0, "")
	}
	if sum.NoData {
		pdf.SetFont("Arial", "I", 9)
		pdf.CellFormat(0, 6, "Warning: no attendance data available to calculate percentages", "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func writeSectionHeading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

func writeExecutiveSummary(pdf *gofpdf.Fpdf, sum *attendance.Summary) {
	writeSectionHeading(pdf, "EXECUTIVE SUMMARY")

	thresholdPct := sum.Threshold * 100
	pct := func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) }
	share := func(n int) string {
		if sum.TotalStudents == 0 {
			return fmt.Sprintf("%d", n)
		}
		return fmt.Sprintf("%d (%.1f%%)", n, float64(n)/float64(sum.TotalStudents)*100)
	}

	rows := [][2]string{
		{"Total Students Analyzed", fmt.Sprintf("%d", sum.TotalStudents)},
		{"Overall Average Attendance", pct(sum.AvgAttendance)},
		{"Highest Individual Attendance", pct(sum.HighestAttendance)},
		{"Lowest Individual Attendance", pct(sum.LowestAttendance)},
		{fmt.Sprintf("Students with >= %.0f%% Attendance", thresholdPct), share(sum.AboveThreshold)},
		{fmt.Sprintf("Students Needing Attention (< %.0f%%)", thresholdPct), share(sum.BelowThreshold)},
		{"Number of Subjects Analyzed", fmt.Sprintf("%d", len(sum.Subjects))},
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(0, 0, 128)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(110, 8, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(70, 8, "Value", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 220)
	for _, row := range rows {
		pdf.CellFormat(110, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.CellFormat(70, 7, row[1], "1", 1, "C", true, 0, "")
	}
	pdf.Ln(8)
}

func writeClassesHeld(pdf *gofpdf.Fpdf, sheet *attendance.Sheet) {
	writeSectionHeading(pdf, "CLASSES HELD")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(0, 0, 128)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(90, 8, "Subject", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, "Classes Held", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(211, 211, 211)
	for _, subject := range sheet.Subjects {
		pdf.CellFormat(90, 7, SubjectTitle(subject), "1", 0, "C", true, 0, "")
		pdf.CellFormat(60, 7, heldLabel(sheet.Held(subject)), "1", 1, "C", true, 0, "")
	}
	pdf.Ln(8)
}

func writeSubjectAnalysis(pdf *gofpdf.Fpdf, sum *attendance.Summary) {
	writeSectionHeading(pdf, "SUBJECT-WISE PERFORMANCE ANALYSIS")

	headers := []struct {
		label string
		width float64
	}{
		{"Subject", 50},
		{"Avg Attended", 32},
		{"Classes Held", 32},
		{"Attendance Rate", 36},
		{"Status", 30},
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(0, 0, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(h.width, 8, h.label, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(224, 255, 255)
	for _, st := range sum.Subjects {
		held := heldLabel(st.Held)
		avg := "N/A"
		if st.Average > 0 {
			avg = fmt.Sprintf("%.1f", st.Average)
		}
		rate := "N/A"
		if st.Rate > 0 {
			rate = fmt.Sprintf("%.1f%%", st.Rate)
		}
		pdf.CellFormat(50, 7, SubjectTitle(st.Subject), "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 7, avg, "1", 0, "C", true, 0, "")
		pdf.CellFormat(32, 7, held, "1", 0, "C", true, 0, "")
		pdf.CellFormat(36, 7, rate, "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, st.Status, "1", 1, "C", true, 0, "")
	}
	pdf.Ln(6)
}

func writeRankings(pdf *gofpdf.Fpdf, sheet *attendance.Sheet, sum *attendance.Summary) {
	if len(sum.Rankings) == 0 {
		return
	}
	writeSectionHeading(pdf, "TOP PERFORMERS BY SUBJECT")

	pdf.SetFont("Arial", "", 9)
	// Sheet order keeps the section stable across runs.
	for _, subject := range sheet.Subjects {
		top, ok := sum.Rankings[subject]
		if !ok {
			continue
		}
		names := make([]string, 0, len(top))
		for i, entry := range top {
			names = append(names, fmt.Sprintf("%d. %s (%.1f)", i+1, entry.Name, entry.Value))
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 6, SubjectTitle(subject), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, strings.Join(names, "   "), "", "L", false)
		pdf.Ln(1)
	}
	pdf.Ln(4)
}

func writeStudentSection(pdf *gofpdf.Fpdf, sum *attendance.Summary) {
	writeSectionHeading(pdf, "DETAILED STUDENT-WISE ANALYSIS")

	for i, student := range sum.Students {
		if i > 0 && i%studentsPerPage == 0 {
			pdf.AddPage()
		}
		writeStudent(pdf, student, sum.Threshold)
	}
}

func writeStudent(pdf *gofpdf.Fpdf, d attendance.StudentDetail, threshold float64) {
	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(0, 100, 0)
	header := fmt.Sprintf("%s - Overall: %.1f%%", d.Name, d.Overall*100)
	if d.RegNo != "" {
		header = fmt.Sprintf("%s (Reg: %s) - Overall: %.1f%%", d.Name, d.RegNo, d.Overall*100)
	}
	pdf.CellFormat(0, 8, header, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if len(d.Subjects) > 0 {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(0, 100, 0)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(45, 6, "Subject", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, "Attended", "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, "Total", "1", 0, "C", true, 0, "")
		pdf.CellFormat(28, 6, "Percentage", "1", 0, "C", true, 0, "")
		pdf.CellFormat(35, 6, "Status", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 7)
		pdf.SetTextColor(0, 0, 0)
		for _, subj := range d.Subjects {
			if subj.Good {
				pdf.SetFillColor(144, 238, 144) // light green: meeting requirements
			} else {
				pdf.SetFillColor(255, 182, 193) // light pink: needs attention
			}

			attended, total := "N/A", "N/A"
			if subj.HasHeld {
				attended = fmt.Sprintf("%d", subj.Attended)
				total = fmt.Sprintf("%d", subj.Held)
			}
			status := "Needs Attention"
			if subj.Good {
				status = "Good"
			}

			pdf.CellFormat(45, 6, SubjectTitle(subj.Subject), "1", 0, "C", true, 0, "")
			pdf.CellFormat(25, 6, attended, "1", 0, "C", true, 0, "")
			pdf.CellFormat(25, 6, total, "1", 0, "C", true, 0, "")
			pdf.CellFormat(28, 6, fmt.Sprintf("%.1f%%", subj.Percentage), "1", 0, "C", true, 0, "")
			pdf.CellFormat(35, 6, status, "1", 1, "C", true, 0, "")
		}

		pdf.SetFont("Arial", "", 8)
		if len(d.Strengths) > 0 {
			limit := len(d.Strengths)
			if limit > 3 {
				limit = 3
			}
			pdf.MultiCell(0, 5, "Strengths: "+strings.Join(d.Strengths[:limit], ", "), "", "L", false)
		}
		if len(d.NeedsAttention) > 0 {
			pdf.MultiCell(0, 5, "Needs Attention: "+strings.Join(d.NeedsAttention, ", "), "", "L", false)
		}
	}

	pdf.Ln(4)
}

func writeLegend(pdf *gofpdf.Fpdf, sum *attendance.Summary) {
	writeSectionHeading(pdf, "REPORT LEGEND & NOTES")

	thresholdPct := sum.Threshold * 100
	lines := []string{
		"Color Coding:",
		fmt.Sprintf("  Green highlighting: subject attendance >= %.0f%% (meeting requirements)", thresholdPct),
		fmt.Sprintf("  Pink highlighting: subject attendance < %.0f%% (needs attention)", thresholdPct),
		"",
		"Performance Status:",
		fmt.Sprintf("  Excellent: >= %.0f%% attendance", thresholdPct),
		fmt.Sprintf("  Good: >= %.0f%% attendance", thresholdPct*0.8),
		fmt.Sprintf("  Needs Focus: < %.0f%% attendance", thresholdPct*0.8),
		"",
		"Important Notes:",
		"  Overall attendance is calculated across all subjects combined.",
		"  Students with multiple subjects below threshold require immediate attention.",
		"  This report was generated automatically and should be reviewed by academic staff.",
	}

	pdf.SetFont("Arial", "", 10)
	for _, line := range lines {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}
}
