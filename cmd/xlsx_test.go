package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/meridian-policy/packet-cli/internal/pipeline"
)

func TestWritePacketXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packet.xlsx")
	require.NoError(t, writePacketXLSX(sampleResult(), path))

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	for _, name := range []string{"Summary", "Programs", "Economic Impact", "Changes"} {
		require.Contains(t, wb.Sheet, name, "workbook should have sheet %q", name)
	}

	programs := wb.Sheet["Programs"]
	require.Len(t, programs.Rows, 3) // header plus two programs
	assert.Equal(t, "program_id", programs.Rows[0].Cells[0].Value)
	assert.Equal(t, "fema-bric", programs.Rows[1].Cells[0].Value)
	assert.Equal(t, "critical", programs.Rows[1].Cells[3].Value)

	summary := wb.Sheet["Summary"]
	assert.Equal(t, "Tribe", summary.Rows[0].Cells[0].Value)
	assert.Equal(t, "Cedar River Nation", summary.Rows[0].Cells[1].Value)

	changes := wb.Sheet["Changes"]
	require.Len(t, changes.Rows, 2)
	assert.Equal(t, "new_awards", changes.Rows[1].Cells[0].Value)
}

func TestWriteBatchXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")
	results := []pipeline.BatchResult{
		{TribeID: "cedar-river", Result: sampleResult()},
		{TribeID: "atlantis", Err: assert.AnError},
	}
	require.NoError(t, writeBatchXLSX(results, path))

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	tribes := wb.Sheet["Tribes"]
	require.NotNil(t, tribes)
	require.Len(t, tribes.Rows, 3)
	assert.Equal(t, "cedar-river", tribes.Rows[1].Cells[0].Value)
	assert.Equal(t, "ok", tribes.Rows[1].Cells[1].Value)
	assert.Equal(t, "atlantis", tribes.Rows[2].Cells[0].Value)
	assert.Equal(t, "error", tribes.Rows[2].Cells[1].Value)

	programs := wb.Sheet["Programs"]
	require.NotNil(t, programs)
	// Failed entries contribute no program rows.
	require.Len(t, programs.Rows, 3)
	assert.Equal(t, "tribe_id", programs.Rows[0].Cells[0].Value)
	assert.Equal(t, "cedar-river", programs.Rows[1].Cells[0].Value)
}
