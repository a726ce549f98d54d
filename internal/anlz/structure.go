package anlz

// PhraseEntry is one phrase of the song-structure analysis. EndBeat is
// derived from the next phrase's start, or the track end for the last one.
type PhraseEntry struct {
	Index     uint16 `json:"index"`
	StartBeat uint16 `json:"start_beat"`
	EndBeat   uint16 `json:"end_beat"`
	Kind      uint16 `json:"kind"`
	K1        uint8  `json:"k1"`
	K2        uint8  `json:"k2"`
	K3        uint8  `json:"k3"`
	HasFill   bool   `json:"has_fill"`
	FillBeat  uint16 `json:"fill_beat"`
}

// SongStructure is the phrase analysis of one track.
type SongStructure struct {
	// Mood is the analysis style, 1 high, 2 mid, 3 low.
	Mood         uint16        `json:"mood"`
	Bank         uint8         `json:"bank"`
	TrackEndBeat uint16        `json:"track_end_beat"`
	Phrases      []PhraseEntry `json:"phrases"`
}

const (
	structureEntrySize = 24
	phraseBodyOffset   = 14
)

// Newer exports mask the section body with a rolling XOR. The key is this
// base sequence with the low byte of the phrase count added to every byte,
// repeated over the whole body.
var structureMaskKey = [19]byte{
	0xCB, 0xE1, 0xEE, 0xFA, 0xE5, 0xEE, 0xAD, 0xEE, 0xE9, 0xD2,
	0xE9, 0xEB, 0xE1, 0xE9, 0xF3, 0xE8, 0xE9, 0xF4, 0xE1,
}

func unmaskStructureBody(body []byte, phraseCount uint16) {
	var key [19]byte
	for i, b := range structureMaskKey {
		key[i] = b + byte(phraseCount)
	}
	for i := range body {
		body[i] ^= key[i%len(key)]
	}
}

// parseSongStructure decodes a PSI2 section, de-masking it first when the
// mood field reads as an impossible value. Returns nil when the section is
// unusable.
func parseSongStructure(payload []byte) *SongStructure {
	if len(payload) < 6 {
		return nil
	}
	if be32(payload, 0) != structureEntrySize {
		return nil
	}
	phraseCount := be16(payload, 4)

	body := make([]byte, len(payload)-6)
	copy(body, payload[6:])
	if len(body) < 2 {
		return nil
	}

	// A plausible mood is 1 through 3; anything past 20 means the body is
	// still masked.
	if be16(body, 0) > 20 {
		unmaskStructureBody(body, phraseCount)
	}

	s := &SongStructure{Mood: be16(body, 0)}
	if s.Mood < 1 || s.Mood > 3 {
		return nil
	}
	s.TrackEndBeat = be16(body, 8)
	if len(body) > 12 {
		s.Bank = body[12]
	}

	for i := 0; i < int(phraseCount); i++ {
		base := phraseBodyOffset + i*structureEntrySize
		if base+structureEntrySize > len(body) {
			break
		}
		s.Phrases = append(s.Phrases, PhraseEntry{
			Index:     be16(body, base),
			StartBeat: be16(body, base+2),
			Kind:      be16(body, base+4),
			K1:        body[base+7],
			K2:        body[base+9],
			K3:        body[base+19],
			HasFill:   body[base+21] != 0,
			FillBeat:  be16(body, base+22),
		})
	}

	for i := range s.Phrases {
		if i+1 < len(s.Phrases) {
			s.Phrases[i].EndBeat = s.Phrases[i+1].StartBeat
		} else {
			s.Phrases[i].EndBeat = s.TrackEndBeat
		}
	}
	return s
}

// FindPhraseAtBeat returns the phrase containing the given beat. A beat at
// or past the last phrase's start maps to the last phrase; a beat before
// the first phrase maps to the first. Nil when there are no phrases.
func (s *SongStructure) FindPhraseAtBeat(beat uint16) *PhraseEntry {
	if s == nil || len(s.Phrases) == 0 {
		return nil
	}

	last := &s.Phrases[len(s.Phrases)-1]
	if beat >= last.StartBeat {
		return last
	}
	for i := range s.Phrases {
		p := &s.Phrases[i]
		if beat >= p.StartBeat && beat < p.EndBeat {
			return p
		}
	}
	return &s.Phrases[0]
}
