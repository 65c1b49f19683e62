package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapqa/pkg/core"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, core.SeverityInfo < core.SeverityWarning)
	assert.True(t, core.SeverityWarning < core.SeverityError)
	assert.True(t, core.SeverityError < core.SeverityCritical)
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   core.Severity
		wantOK bool
	}{
		{"info", core.SeverityInfo, true},
		{"warning", core.SeverityWarning, true},
		{"warn", core.SeverityWarning, true},
		{"ERROR", core.SeverityError, true},
		{"critical", core.SeverityCritical, true},
		{"fatal", core.SeverityWarning, false},
		{"", core.SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := core.ParseSeverity(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverityJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(core.SeverityCritical)
	require.NoError(t, err)
	assert.Equal(t, `"critical"`, string(raw))

	var s core.Severity
	require.NoError(t, json.Unmarshal(raw, &s))
	assert.Equal(t, core.SeverityCritical, s)

	assert.Error(t, json.Unmarshal([]byte(`"catastrophic"`), &s))
}

func TestViolationDatasetWide(t *testing.T) {
	v := core.Violation{RuleID: "rows", Row: core.NoRow}
	assert.True(t, v.DatasetWide())

	v = core.Violation{RuleID: "age", Row: 0}
	assert.False(t, v.DatasetWide())
}
