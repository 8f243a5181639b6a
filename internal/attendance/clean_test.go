// SPDX-License-Identifier: MIT

package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		missing bool
	}{
		{name: "plain integer", raw: "42", want: 42},
		{name: "plain float", raw: "85.5", want: 85.5},
		{name: "percentage string", raw: "85%", want: 85},
		{name: "percentage with spaces", raw: " 72.5% ", want: 72.5},
		{name: "percentage sign mid-string", raw: "85%  ", want: 85},
		{name: "empty", raw: "", missing: true},
		{name: "whitespace only", raw: "   ", missing: true},
		{name: "bare percent sign", raw: "%", missing: true},
		{name: "garbage", raw: "absent", missing: true},
		{name: "zero", raw: "0", want: 0},
		{name: "negative survives cleaning", raw: "-3", want: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanNumeric(tt.raw)
			if tt.missing {
				assert.True(t, IsMissing(got), "CleanNumeric(%q) = %v, want missing", tt.raw, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanHeldCount(t *testing.T) {
	assert.Equal(t, 30, cleanHeldCount("30"))
	assert.Equal(t, 30, cleanHeldCount("30.0"))
	assert.Equal(t, 30, cleanHeldCount("30%"))
	assert.Equal(t, 0, cleanHeldCount(""))
	assert.Equal(t, 0, cleanHeldCount("n/a"))
	assert.Equal(t, 0, cleanHeldCount("-5"))
}

func TestClamps(t *testing.T) {
	assert.Equal(t, 100.0, clampPct(120))
	assert.Equal(t, 0.0, clampPct(-1))
	assert.Equal(t, 55.0, clampPct(55))
	assert.Equal(t, 1.0, clampFraction(1.2))
	assert.Equal(t, 0.0, clampFraction(-0.2))
}
