package library

import (
	"fmt"

	"github.com/cratedex/cratedex/internal/pdb"
)

// Range-clamp helpers for externally supplied values. These are input
// sanitizers only; nothing in the parse path calls them.

const (
	MinBPM             = 20.0
	MaxBPM             = 300.0
	MaxDurationSeconds = 86400
	MinRating          = 0
	MaxRating          = 5
)

// CheckBPMRange rejects an inverted range before it reaches the index.
func CheckBPMRange(min, max float64) error {
	if min > max {
		return fmt.Errorf("bpm range %.1f..%.1f: %w", min, max, pdb.ErrInvalidParameter)
	}
	return nil
}

// CheckTrackID rejects the zero id, which no stored row carries.
func CheckTrackID(id pdb.TrackID) error {
	if id == 0 {
		return fmt.Errorf("track id 0: %w", pdb.ErrInvalidParameter)
	}
	return nil
}

func ValidBPM(bpm float64) bool {
	return bpm >= MinBPM && bpm <= MaxBPM
}

func ClampBPM(bpm float64) float64 {
	if bpm < MinBPM {
		return MinBPM
	}
	if bpm > MaxBPM {
		return MaxBPM
	}
	return bpm
}

func ValidDuration(seconds uint32) bool {
	return seconds <= MaxDurationSeconds
}

func ClampDuration(seconds uint32) uint32 {
	if seconds > MaxDurationSeconds {
		return MaxDurationSeconds
	}
	return seconds
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

func ClampRating(rating int) int {
	if rating < MinRating {
		return MinRating
	}
	if rating > MaxRating {
		return MaxRating
	}
	return rating
}
