package anlz

import (
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// TrackAnalysis is the merged analysis state for one track key, accumulated
// across every .DAT and .EXT file that names it.
type TrackAnalysis struct {
	Cues      []CuePoint     `json:"cues,omitempty"`
	Beats     *BeatGrid      `json:"beats,omitempty"`
	Waveforms TrackWaveforms `json:"waveforms"`
	Structure *SongStructure `json:"structure,omitempty"`
}

// Manager loads analysis files from a device export and merges them per
// track. A track is keyed by the audio path embedded in the file, falling
// back to the analysis file's own stem when no path section is present.
type Manager struct {
	tracks map[string]*TrackAnalysis
	log    *slog.Logger
}

// NewManager returns an empty manager. A nil logger discards output.
func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{tracks: make(map[string]*TrackAnalysis), log: log}
}

// ScanDirectory walks dir recursively and loads every .dat and .ext file,
// case-insensitively. Individual file failures are logged and skipped; the
// return value is the number of files that parsed. A missing or unreadable
// root is not an error either, it just loads nothing.
func (m *Manager) ScanDirectory(dir string) int {
	loaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.log.Warn("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".dat", ".ext":
			if m.LoadFile(path) {
				loaded++
			}
		}
		return nil
	})
	if err != nil {
		m.log.Warn("analysis scan aborted", "dir", dir, "error", err)
	}
	m.log.Info("scanned analysis directory", "dir", dir, "files", loaded, "tracks", len(m.tracks))
	return loaded
}

// LoadFile parses one analysis file and merges it into the per-track state.
// Parse failures are absorbed; the return value reports whether the file
// contributed.
func (m *Manager) LoadFile(path string) bool {
	f, err := Open(path, m.log)
	if err != nil {
		m.log.Warn("skipping analysis file", "path", path, "error", err)
		return false
	}

	key := f.TrackPath
	if key == "" {
		base := filepath.Base(path)
		key = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ta := m.tracks[key]
	if ta == nil {
		ta = &TrackAnalysis{}
		m.tracks[key] = ta
	}

	// Extended files carry the richer cue form and always win the cue slot;
	// otherwise the first file to bring cues keeps it.
	isExt := strings.EqualFold(filepath.Ext(path), ".ext")
	if len(f.Cues) > 0 && (isExt || len(ta.Cues) == 0) {
		ta.Cues = f.Cues
	}

	if ta.Beats == nil {
		ta.Beats = f.Beats
	}
	ta.Waveforms.mergeFrom(f.Waveforms)
	if ta.Structure == nil {
		ta.Structure = f.Structure
	}
	return true
}

// Get returns the merged analysis for an exact track key, nil when unknown.
func (m *Manager) Get(trackPath string) *TrackAnalysis {
	return m.tracks[trackPath]
}

// CuePoints returns the cue list for an exact track key.
func (m *Manager) CuePoints(trackPath string) []CuePoint {
	if ta := m.tracks[trackPath]; ta != nil {
		return ta.Cues
	}
	return nil
}

// FindByFilename returns the first track key containing the given substring,
// case-insensitively, together with its analysis. Keys are tried in sorted
// order so the match is deterministic.
func (m *Manager) FindByFilename(substr string) (string, *TrackAnalysis) {
	needle := strings.ToLower(substr)
	for _, key := range m.Keys() {
		if strings.Contains(strings.ToLower(key), needle) {
			return key, m.tracks[key]
		}
	}
	return "", nil
}

// Keys returns every known track key in sorted order.
func (m *Manager) Keys() []string {
	keys := make([]string, 0, len(m.tracks))
	for k := range m.tracks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TrackCount returns the number of track keys with any analysis loaded.
func (m *Manager) TrackCount() int { return len(m.tracks) }
