package ssp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
		label string
	}{
		{input: "effective", want: StatusEffective, ok: true, label: "Effective"},
		{input: "Not Applicable", want: StatusNotApplicable, ok: true, label: "Not Applicable"},
		{input: "alternate_control", want: StatusAlternateControl, ok: true, label: "Alternate Control"},
		{input: " NOT-ASSESSED ", want: StatusNotAssessed, ok: true, label: "Not Assessed"},
		{input: "partially-implemented", want: Status("partially-implemented"), ok: false, label: "Partially Implemented"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseStatus(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, got.Label())
		})
	}
}

func TestStatusDefaults(t *testing.T) {
	assert.Equal(t, StatusNotAssessed, DefaultStatus)
	assert.Len(t, Statuses(), 7)
	assert.False(t, Status("").IsValid())
	assert.Empty(t, Status("").Label())
}
