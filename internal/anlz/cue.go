package anlz

import "sort"

// CueType classifies a cue point.
type CueType uint8

const (
	CueTypeCue CueType = iota
	CueTypeFadeIn
	CueTypeFadeOut
	CueTypeLoad
	CueTypeLoop
)

func (t CueType) String() string {
	switch t {
	case CueTypeCue:
		return "cue"
	case CueTypeFadeIn:
		return "fade_in"
	case CueTypeFadeOut:
		return "fade_out"
	case CueTypeLoad:
		return "load"
	case CueTypeLoop:
		return "loop"
	}
	return "cue"
}

// CuePoint is one memory or hot cue. Inactive entries never make it here.
type CuePoint struct {
	// HotCue is the 1-based hot cue slot, 0 for a plain memory cue.
	HotCue   uint32  `json:"hot_cue"`
	Type     CueType `json:"type"`
	Time     uint32  `json:"time_ms"`
	LoopTime uint32  `json:"loop_time_ms"`
	ColorID  uint8   `json:"color_id"`
	Comment  string  `json:"comment,omitempty"`
}

// Cue entry magics and minimum entry sizes.
const (
	cueEntryMagic    = 0x50435054 // "PCPT"
	cueEntryMagic2   = 0x50435032 // "PCP2"
	cueEntryMinSize  = 44
	cueEntryExtSize  = 64
	cueCommentOffset = 60
)

// parseCueList decodes one cue section's entries into f.Cues. Extended
// sections carry color and comment fields the standard ones lack. The
// accumulated list is kept sorted by time so interleaved sections still
// produce a stable playback order.
func (f *File) parseCueList(payload []byte, extended bool) {
	if len(payload) < 4 {
		return
	}
	count := int(be32(payload, 0))
	offset := 4

	for i := 0; i < count && offset+12 <= len(payload); i++ {
		magic := be32(payload, offset)
		entryLen := int(be32(payload, offset+8))
		if entryLen <= 0 || offset+entryLen > len(payload) {
			break
		}
		if magic != cueEntryMagic && magic != cueEntryMagic2 {
			offset += entryLen
			continue
		}

		entry := payload[offset:]
		offset += entryLen

		// An extended-list entry too short for the extended layout still
		// carries the standard fields.
		switch {
		case extended && entryLen >= cueEntryExtSize:
			f.appendCue(entry, true)
		case entryLen >= cueEntryMinSize:
			f.appendCue(entry, false)
		}
	}

	sort.SliceStable(f.Cues, func(a, b int) bool {
		return f.Cues[a].Time < f.Cues[b].Time
	})
}

// appendCue decodes one entry. The slice runs from the entry start to the
// section end, so a declared comment length is bounded by the section
// rather than the entry's own declared length.
func (f *File) appendCue(entry []byte, extended bool) {
	// Status zero marks a deleted slot.
	if be32(entry, 16) == 0 {
		return
	}

	cue := CuePoint{
		HotCue:   be32(entry, 12),
		Time:     be32(entry, 36),
		LoopTime: be32(entry, 40),
	}
	if kind := entry[32]; kind <= uint8(CueTypeLoop) {
		cue.Type = CueType(kind)
	}

	if extended {
		cue.ColorID = entry[44]
		if len(entry) > cueCommentOffset {
			commentLen := int(be32(entry, 56))
			if commentLen > 0 && cueCommentOffset+commentLen <= len(entry) {
				cue.Comment = utf16BEString(entry[cueCommentOffset : cueCommentOffset+commentLen])
			}
		}
	}

	f.Cues = append(f.Cues, cue)
}
