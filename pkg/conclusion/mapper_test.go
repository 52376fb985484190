package conclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/missions-helper/pkg/report"
)

func TestMapStandard(t *testing.T) {
	m := NewMapper()

	tests := []struct {
		sel     Selection
		section report.Section
		value   string
		present bool
	}{
		{Pass, report.SectionConclusionPass, "no", true},
		{Fail, report.SectionConclusionFail, "yes", true},
		{NotTestable, report.SectionConclusionPass, "", false},
	}
	for _, tt := range tests {
		got, err := m.Map(Standard, tt.sel)
		require.NoError(t, err, "selection %s", tt.sel)
		assert.Equal(t, tt.section, got.Section, "selection %s", tt.sel)
		assert.Equal(t, tt.value, got.StructuredResponse, "selection %s", tt.sel)
		assert.Equal(t, tt.present, got.Present, "selection %s", tt.sel)
	}
}

func TestMapSV2MPassThrough(t *testing.T) {
	m := NewMapper()

	tests := []struct {
		sel     Selection
		section report.Section
	}{
		{Vulnerable, report.SectionConclusionFail},
		{NotExploitable, report.SectionConclusionPass},
		{OutOfThreshold, report.SectionConclusionPass},
	}
	for _, tt := range tests {
		got, err := m.Map(SV2M, tt.sel)
		require.NoError(t, err)
		assert.Equal(t, tt.section, got.Section)
		assert.Equal(t, string(tt.sel), got.StructuredResponse)
		assert.True(t, got.Present)
	}
}

func TestMapNotTestableRouting(t *testing.T) {
	m := &Mapper{NotTestableSection: report.SectionConclusionFail}

	got, err := m.Map(Standard, NotTestable)
	require.NoError(t, err)
	assert.Equal(t, report.SectionConclusionFail, got.Section)
	assert.False(t, got.Present)
}

func TestMapInvalidSelection(t *testing.T) {
	m := NewMapper()

	_, err := m.Map(Standard, Vulnerable)
	var invalid *ErrInvalidSelection
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, Standard, invalid.Classification)

	_, err = m.Map(SV2M, Pass)
	require.ErrorAs(t, err, &invalid)

	_, err = m.Map(SV2M, NotTestable)
	require.ErrorAs(t, err, &invalid)
}
