package anlz

import "sort"

// BeatEntry is one beat marker on the grid.
type BeatEntry struct {
	// BeatNumber is the beat's position within its bar, 1 through 4.
	BeatNumber uint16 `json:"beat_number"`
	// Tempo is the instantaneous tempo in hundredths of a BPM.
	Tempo uint16 `json:"tempo"`
	// Time is the beat's position in milliseconds from the start of the track.
	Time uint32 `json:"time_ms"`
}

// BPM returns the entry's tempo in beats per minute.
func (e BeatEntry) BPM() float64 { return float64(e.Tempo) / 100 }

// BeatGrid is the full beat timeline of one track, ordered by time.
type BeatGrid struct {
	Beats []BeatEntry `json:"beats"`
}

const beatEntrySize = 8

func (f *File) parseBeatGrid(payload []byte) {
	if len(payload) < 8 {
		return
	}
	count := int(be32(payload, 4))

	grid := &BeatGrid{}
	for i := 0; i < count; i++ {
		base := 8 + i*beatEntrySize
		if base+beatEntrySize > len(payload) {
			break
		}
		grid.Beats = append(grid.Beats, BeatEntry{
			BeatNumber: be16(payload, base),
			Tempo:      be16(payload, base+2),
			Time:       be32(payload, base+4),
		})
	}

	if len(grid.Beats) > 0 {
		f.Beats = grid
	}
}

// FindBeatAt returns the beat closest to the given time, preferring the
// earlier beat on an exact midpoint. Nil for an empty grid.
func (g *BeatGrid) FindBeatAt(timeMs uint32) *BeatEntry {
	if g == nil || len(g.Beats) == 0 {
		return nil
	}

	i := sort.Search(len(g.Beats), func(i int) bool {
		return g.Beats[i].Time >= timeMs
	})
	if i == len(g.Beats) {
		return &g.Beats[len(g.Beats)-1]
	}
	if i == 0 {
		return &g.Beats[0]
	}

	if timeMs-g.Beats[i-1].Time <= g.Beats[i].Time-timeMs {
		return &g.Beats[i-1]
	}
	return &g.Beats[i]
}

// BeatsInRange returns the contiguous run of beats whose times fall inside
// [fromMs, toMs].
func (g *BeatGrid) BeatsInRange(fromMs, toMs uint32) []BeatEntry {
	if g == nil || len(g.Beats) == 0 || fromMs > toMs {
		return nil
	}
	lo := sort.Search(len(g.Beats), func(i int) bool {
		return g.Beats[i].Time >= fromMs
	})
	hi := sort.Search(len(g.Beats), func(i int) bool {
		return g.Beats[i].Time > toMs
	})
	if lo >= hi {
		return nil
	}
	return g.Beats[lo:hi]
}

// AverageBPM returns the mean tempo across the grid, 0 for an empty grid.
func (g *BeatGrid) AverageBPM() float64 {
	if g == nil || len(g.Beats) == 0 {
		return 0
	}
	var sum float64
	for _, b := range g.Beats {
		sum += b.BPM()
	}
	return sum / float64(len(g.Beats))
}
