package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() DayReport {
	return DayReport{
		Day:     "2026-08-28",
		Title:   "Attendance Report",
		Present: []ReportRow{{RollNo: "101", Name: "Asha"}},
		Absent:  []ReportRow{{RollNo: "102", Name: "Bilal"}},
	}
}

func TestPDFExporterRender(t *testing.T) {
	raw, err := NewPDFExporter().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestPDFExporterRenderEmptySections(t *testing.T) {
	raw, err := NewPDFExporter().Render(DayReport{Day: "2026-08-28", Title: "Attendance Report"})
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}

func TestCSVExporterRender(t *testing.T) {
	raw, err := NewCSVExporter().Render(sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "day,roll_no,name,status", lines[0])
	assert.Equal(t, "2026-08-28,101,Asha,present", lines[1])
	assert.Equal(t, "2026-08-28,102,Bilal,absent", lines[2])
}

func TestCSVExporterRequiresDay(t *testing.T) {
	_, err := NewCSVExporter().Render(DayReport{})
	assert.Error(t, err)
}
