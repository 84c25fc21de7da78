package tracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-policy/packet-cli/internal/model"
)

func testSnapshot(tribeID string) *model.Snapshot {
	return &model.Snapshot{
		TribeID:     tribeID,
		GeneratedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		ProgramStatus: map[string]string{
			"fema-bric": model.ProgramStatusFunded,
			"epa-gap":   model.ProgramStatusEligible,
		},
		AwardCount:   3,
		AwardTotal:   2_350_000,
		TopHazards:   []string{model.HazardWildfire, model.HazardDrought},
		AdvocacyGoal: "wildfire-mitigation",
	}
}

func TestValidateTribeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{name: "plain", id: "navajo-nation", valid: true},
		{name: "underscore and digits", id: "tribe_01", valid: true},
		{name: "dotted", id: "a.b", valid: true},
		{name: "empty", id: "", valid: false},
		{name: "dot", id: ".", valid: false},
		{name: "dotdot", id: "..", valid: false},
		{name: "slash", id: "a/b", valid: false},
		{name: "space", id: "a b", valid: false},
		{name: "traversal", id: "../../etc/passwd", valid: false},
		{name: "non-ascii", id: "tribué", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTribeID(tt.id)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTribeID)
			}
		})
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()
	tr := New(t.TempDir())

	want := testSnapshot("mesa-grande")
	require.NoError(t, tr.SaveCurrent("mesa-grande", want))

	res, err := tr.LoadPrevious("mesa-grande")
	require.NoError(t, err)
	assert.Equal(t, LoadLoaded, res.Status)
	require.NotNil(t, res.Snapshot)
	assert.Equal(t, want.TribeID, res.Snapshot.TribeID)
	assert.True(t, want.GeneratedAt.Equal(res.Snapshot.GeneratedAt))
	assert.Equal(t, want.ProgramStatus, res.Snapshot.ProgramStatus)
	assert.Equal(t, want.AwardCount, res.Snapshot.AwardCount)
	assert.InDelta(t, want.AwardTotal, res.Snapshot.AwardTotal, 0.001)
	assert.Equal(t, want.TopHazards, res.Snapshot.TopHazards)
	assert.Equal(t, want.AdvocacyGoal, res.Snapshot.AdvocacyGoal)
}

func TestLoadPreviousAbsent(t *testing.T) {
	t.Parallel()
	tr := New(t.TempDir())

	res, err := tr.LoadPrevious("never-generated")
	require.NoError(t, err)
	assert.Equal(t, LoadAbsent, res.Status)
	assert.Nil(t, res.Snapshot)
}

func TestLoadPreviousCorrupt(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tr := New(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))

	res, err := tr.LoadPrevious("broken")
	require.NoError(t, err, "corrupt snapshots degrade, never fail")
	assert.Equal(t, LoadCorrupt, res.Status)
	assert.Nil(t, res.Snapshot)
}

func TestLoadPreviousOversize(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tr := New(dir, WithMaxBytes(64))

	big := make([]byte, 200)
	for i := range big {
		big[i] = 'x'
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "huge.json"), big, 0o644))

	res, err := tr.LoadPrevious("huge")
	require.NoError(t, err)
	assert.Equal(t, LoadOversize, res.Status)
	assert.Nil(t, res.Snapshot)
}

func TestLoadPreviousInvalidID(t *testing.T) {
	t.Parallel()
	tr := New(t.TempDir())

	_, err := tr.LoadPrevious("../escape")
	assert.True(t, eris.Is(err, ErrInvalidTribeID))
}

func TestSaveCurrentInvalidID(t *testing.T) {
	t.Parallel()
	tr := New(t.TempDir())

	err := tr.SaveCurrent("bad/id", testSnapshot("bad/id"))
	assert.True(t, eris.Is(err, ErrInvalidTribeID))
}

func TestSaveCurrentLeavesNoTempFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	tr := New(dir)

	require.NoError(t, tr.SaveCurrent("clean", testSnapshot("clean")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "clean.json", entries[0].Name())
}

func TestSaveCurrentOverwrites(t *testing.T) {
	t.Parallel()
	tr := New(t.TempDir())

	first := testSnapshot("seq")
	require.NoError(t, tr.SaveCurrent("seq", first))

	second := testSnapshot("seq")
	second.AwardCount = 9
	second.AdvocacyGoal = "funding-diversification"
	require.NoError(t, tr.SaveCurrent("seq", second))

	res, err := tr.LoadPrevious("seq")
	require.NoError(t, err)
	require.Equal(t, LoadLoaded, res.Status)
	assert.Equal(t, 9, res.Snapshot.AwardCount)
	assert.Equal(t, "funding-diversification", res.Snapshot.AdvocacyGoal)
}

func TestSaveCurrentCreatesDir(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")
	tr := New(dir)

	require.NoError(t, tr.SaveCurrent("first", testSnapshot("first")))

	res, err := tr.LoadPrevious("first")
	require.NoError(t, err)
	assert.Equal(t, LoadLoaded, res.Status)
}

func TestBuildSnapshot(t *testing.T) {
	t.Parallel()

	pc := &model.PacketContext{
		TribeID:     "mesa-grande",
		GeneratedAt: time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC),
		Programs: []model.ScoredProgram{
			{Program: model.Program{ID: "fema-bric", Tier: model.TierCritical}, Score: 105},
			{Program: model.Program{ID: "epa-gap", Tier: model.TierHigh}, Score: 55},
		},
		Economic: model.EconomicSummary{
			Programs: []model.ProgramImpact{
				{ProgramID: "fema-bric", Amount: 2_000_000, IsBenchmark: false},
				{ProgramID: "epa-gap", Amount: 160_000, IsBenchmark: true},
			},
			ObservedTotal: 2_000_000,
			ObservedCount: 2,
		},
		TopHazards:   []string{model.HazardWildfire},
		AdvocacyGoal: "wildfire-mitigation",
	}

	snap := BuildSnapshot(pc)
	assert.Equal(t, "mesa-grande", snap.TribeID)
	assert.Equal(t, model.ProgramStatusFunded, snap.ProgramStatus["fema-bric"])
	assert.Equal(t, model.ProgramStatusEligible, snap.ProgramStatus["epa-gap"])
	assert.Equal(t, 2, snap.AwardCount)
	assert.InDelta(t, 2_000_000, snap.AwardTotal, 0.001)
	assert.Equal(t, []string{model.HazardWildfire}, snap.TopHazards)
	assert.Equal(t, "wildfire-mitigation", snap.AdvocacyGoal)
}
