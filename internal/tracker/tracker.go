// Package tracker persists per-tribe generation snapshots and detects
// changes between consecutive packet runs. Snapshot files are the only
// state the engine writes; one writer per tribe ID at a time is the
// caller's contract.
package tracker

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-policy/packet-cli/internal/model"
)

// ErrInvalidTribeID is returned when a tribe ID cannot safely name a
// snapshot file.
var ErrInvalidTribeID = eris.New("tracker: invalid tribe id")

// LoadStatus describes how loading a previous snapshot went. Anything
// but "loaded" means generation proceeds without history.
type LoadStatus string

const (
	LoadLoaded   LoadStatus = "loaded"
	LoadAbsent   LoadStatus = "absent"
	LoadOversize LoadStatus = "oversize"
	LoadCorrupt  LoadStatus = "corrupt"
)

// LoadResult pairs an optional snapshot with its load status.
type LoadResult struct {
	Snapshot *model.Snapshot
	Status   LoadStatus
}

const defaultMaxBytes = 10 << 20

// Tracker reads and writes snapshot files under a directory.
type Tracker struct {
	dir      string
	maxBytes int64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMaxBytes overrides the snapshot size ceiling.
func WithMaxBytes(n int64) Option {
	return func(t *Tracker) { t.maxBytes = n }
}

// New creates a Tracker rooted at dir.
func New(dir string, opts ...Option) *Tracker {
	t := &Tracker{dir: dir, maxBytes: defaultMaxBytes}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ValidateTribeID rejects IDs that cannot name a file without escaping
// the snapshot directory. Allowed characters: letters, digits, dot,
// underscore, hyphen; "." and ".." are rejected outright.
func ValidateTribeID(id string) error {
	if id == "" || id == "." || id == ".." {
		return ErrInvalidTribeID
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return ErrInvalidTribeID
		}
	}
	return nil
}

func (t *Tracker) path(tribeID string) string {
	return filepath.Join(t.dir, tribeID+".json")
}

// LoadPrevious reads the prior snapshot for a tribe. A missing,
// oversize, or unparseable file is not an error: the result carries a
// nil snapshot and the degraded status, and generation continues as if
// this were the first run. The only error is an invalid tribe ID.
func (t *Tracker) LoadPrevious(tribeID string) (LoadResult, error) {
	if err := ValidateTribeID(tribeID); err != nil {
		return LoadResult{Status: LoadAbsent}, err
	}

	path := t.path(tribeID)
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return LoadResult{Status: LoadAbsent}, nil
		}
		zap.L().Warn("tracker: snapshot unreadable, treating as absent",
			zap.String("tribe_id", tribeID),
			zap.Error(err),
		)
		return LoadResult{Status: LoadCorrupt}, nil
	}

	if fi.Size() > t.maxBytes {
		zap.L().Warn("tracker: snapshot exceeds size ceiling, ignoring",
			zap.String("tribe_id", tribeID),
			zap.Int64("size", fi.Size()),
			zap.Int64("max", t.maxBytes),
		)
		return LoadResult{Status: LoadOversize}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		zap.L().Warn("tracker: snapshot read failed, treating as absent",
			zap.String("tribe_id", tribeID),
			zap.Error(err),
		)
		return LoadResult{Status: LoadCorrupt}, nil
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		zap.L().Warn("tracker: snapshot corrupt, treating as absent",
			zap.String("tribe_id", tribeID),
			zap.Error(err),
		)
		return LoadResult{Status: LoadCorrupt}, nil
	}

	return LoadResult{Snapshot: &snap, Status: LoadLoaded}, nil
}

// SaveCurrent atomically replaces the tribe's snapshot file: the JSON is
// written to a temp file in the same directory and renamed into place,
// so readers never observe a partial write.
func (t *Tracker) SaveCurrent(tribeID string, snap *model.Snapshot) error {
	if err := ValidateTribeID(tribeID); err != nil {
		return err
	}
	if snap == nil {
		return eris.New("tracker: nil snapshot")
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return eris.Wrapf(err, "tracker: create snapshot dir %s", t.dir)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return eris.Wrapf(err, "tracker: marshal snapshot for %s", tribeID)
	}

	tmp, err := os.CreateTemp(t.dir, tribeID+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "tracker: create temp snapshot")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "tracker: write temp snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "tracker: close temp snapshot")
	}
	if err := os.Rename(tmpName, t.path(tribeID)); err != nil {
		os.Remove(tmpName)
		return eris.Wrapf(err, "tracker: replace snapshot for %s", tribeID)
	}
	return nil
}

// BuildSnapshot projects a packet context down to the compact record
// diffed on the next run. Programs with observed funding are "funded",
// the rest of the packet list "eligible".
func BuildSnapshot(pc *model.PacketContext) model.Snapshot {
	funded := map[string]bool{}
	for _, r := range pc.Economic.Programs {
		if !r.IsBenchmark {
			funded[r.ProgramID] = true
		}
	}

	status := make(map[string]string, len(pc.Programs))
	for _, sp := range pc.Programs {
		if funded[sp.Program.ID] {
			status[sp.Program.ID] = model.ProgramStatusFunded
		} else {
			status[sp.Program.ID] = model.ProgramStatusEligible
		}
	}

	return model.Snapshot{
		TribeID:       pc.TribeID,
		GeneratedAt:   pc.GeneratedAt,
		ProgramStatus: status,
		AwardCount:    pc.Economic.ObservedCount,
		AwardTotal:    pc.Economic.ObservedTotal,
		TopHazards:    pc.TopHazards,
		AdvocacyGoal:  pc.AdvocacyGoal,
	}
}
