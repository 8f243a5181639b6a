// SPDX-License-Identifier: MIT

package attendance

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook opens an Excel workbook and parses the first worksheet.
func ReadWorkbook(path string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

// ReadWorkbookFrom parses the first worksheet of a workbook supplied as a stream.
func ReadWorkbookFrom(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return parseWorkbook(f)
}

func parseWorkbook(f *excelize.File) (*Sheet, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", sheets[0], err)
	}

	return ParseRows(rows)
}

// ParseRows turns raw cell rows into a cleaned Sheet: detect the layout,
// canonicalize columns, read the classes-held row, and clean every numeric
// cell. Rows without a student name are dropped.
func ParseRows(rows [][]string) (*Sheet, error) {
	layout := DetectLayout(rows)
	if layout.HeaderRow >= len(rows) {
		return nil, fmt.Errorf("no header row found in %d rows", len(rows))
	}

	headers := rows[layout.HeaderRow]

	var (
		subjects   []string
		subjectCol = map[int]string{}
		slCol      = -1
		regCol     = -1
		nameCol    = -1
		overallCol = -1
	)
	for idx, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		switch classifyColumn(h) {
		case colSlNo:
			if slCol < 0 {
				slCol = idx
			}
		case colRegNo:
			if regCol < 0 {
				regCol = idx
			}
		case colName:
			if nameCol < 0 {
				nameCol = idx
			}
		case colOverall:
			if overallCol < 0 {
				overallCol = idx
			}
		case colSubject:
			subjects = append(subjects, h)
			subjectCol[idx] = h
		}
	}

	if nameCol < 0 {
		return nil, fmt.Errorf("no student name column found")
	}

	sheet := &Sheet{
		Subjects:    subjects,
		ClassesHeld: make(map[string]int, len(subjects)),
		Institution: detectInstitution(rows[:layout.HeaderRow]),
		HeaderRow:   layout.HeaderRow,
		ClassesRow:  layout.ClassesRow,
	}

	if layout.ClassesRow >= 0 && layout.ClassesRow < len(rows) {
		held := rows[layout.ClassesRow]
		for idx, subject := range subjectCol {
			sheet.ClassesHeld[subject] = cleanHeldCount(cell(held, idx))
		}
	}

	for i := layout.HeaderRow + 1; i < len(rows); i++ {
		if i == layout.ClassesRow {
			continue
		}
		row := rows[i]

		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}

		rec := Record{
			Name:    name,
			Values:  make(map[string]float64, len(subjects)),
			Overall: Missing(),
		}
		if slCol >= 0 {
			rec.SlNo = strings.TrimSpace(cell(row, slCol))
		}
		if regCol >= 0 {
			rec.RegNo = strings.TrimSpace(cell(row, regCol))
		}
		if overallCol >= 0 {
			rec.Overall = CleanNumeric(cell(row, overallCol))
		}
		for idx, subject := range subjectCol {
			rec.Values[subject] = CleanNumeric(cell(row, idx))
		}

		sheet.Records = append(sheet.Records, rec)
	}

	if len(sheet.Records) == 0 {
		return nil, fmt.Errorf("no student rows found")
	}

	return sheet, nil
}

// detectInstitution looks for a banner line (university, college, department)
// in the rows above the header.
func detectInstitution(rows [][]string) string {
	for _, row := range rows {
		joined := strings.TrimSpace(strings.Join(row, " "))
		if len(joined) <= 20 {
			continue
		}
		upper := strings.ToUpper(joined)
		if containsAny(upper, "UNIVERSITY", "COLLEGE", "DEPARTMENT") {
			return joined
		}
	}
	return ""
}

// cell returns row[idx], tolerating rows shorter than the header.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
