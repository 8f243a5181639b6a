// SPDX-License-Identifier: MIT

package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() [][]string {
	return [][]string{
		{"ACME UNIVERSITY"},
		{},
		{},
		{"Sl No", "Reg No", "Student Name", "Algebra", "Calculus", "History", "Percentage"},
		{"", "", "Classes Held", "30", "28", "", ""},
		{"1", "R001", "Ada Lovelace", "25", "27", "80%", "86%"},
		{"2", "", "Charles Babbage", "20", "", "55%", ""},
		{"3", "R003", "Grace Hopper", "29", "28", "", "95%"},
		{"", "", "", "", "", "", ""},
	}
}

func TestParseRows(t *testing.T) {
	sheet, err := ParseRows(sampleRows())
	require.NoError(t, err)

	assert.Equal(t, []string{"Algebra", "Calculus", "History"}, sheet.Subjects)
	assert.Equal(t, 30, sheet.Held("Algebra"))
	assert.Equal(t, 28, sheet.Held("Calculus"))
	assert.Equal(t, 0, sheet.Held("History"), "blank held cell stays unknown")

	require.Len(t, sheet.Records, 3, "classes-held row and blank rows dropped")

	ada := sheet.Records[0]
	assert.Equal(t, "Ada Lovelace", ada.Name)
	assert.Equal(t, "R001", ada.RegNo)
	assert.Equal(t, 25.0, ada.Values["Algebra"])
	assert.Equal(t, 80.0, ada.Values["History"], "percentage string cleaned")
	assert.Equal(t, 86.0, ada.Overall)

	babbage := sheet.Records[1]
	assert.Empty(t, babbage.RegNo, "missing registration number preserved as empty")
	assert.True(t, IsMissing(babbage.Values["Calculus"]), "blank cell is missing, not zero")
	assert.True(t, IsMissing(babbage.Overall))
}

func TestParseRowsShortRows(t *testing.T) {
	rows := [][]string{
		{"Student Name", "Algebra", "Calculus"},
		{"Ada", "25"}, // row shorter than header
	}

	sheet, err := ParseRows(rows)
	require.NoError(t, err)
	require.Len(t, sheet.Records, 1)
	assert.True(t, IsMissing(sheet.Records[0].Values["Calculus"]))
}

func TestParseRowsNoNameColumn(t *testing.T) {
	// Header keyword "percentage" triggers detection, but nothing names students.
	rows := [][]string{
		{"Percentage", "Algebra"},
		{"86", "25"},
	}
	_, err := ParseRows(rows)
	assert.ErrorContains(t, err, "name column")
}

func TestParseRowsNoStudents(t *testing.T) {
	rows := [][]string{
		{"Student Name", "Algebra"},
		{"", ""},
	}
	_, err := ParseRows(rows)
	assert.ErrorContains(t, err, "no student rows")
}
