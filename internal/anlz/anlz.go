// Package anlz parses the section-tagged track analysis files that
// accompany a device export (ANLZNNNN.DAT / .EXT): cue lists, beat grids,
// waveforms and song-structure phrases. All multi-byte integers in this
// format are big-endian, unlike the container format.
package anlz

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrIO                = errors.New("i/o error")
)

const (
	fileMagic         = 0x504D4149 // "PMAI"
	fileHeaderSize    = 28
	sectionHeaderSize = 12
)

// Section type tags.
const (
	tagCueList          = 0x50435545 // "PCUE"
	tagCueList2         = 0x50435532 // "PCU2"
	tagExtCueList       = 0x50435832 // "PCX2"
	tagBeatGrid         = 0x50424954 // "PBIT"
	tagPath             = 0x50505448 // "PPTH"
	tagWavePreview      = 0x50574156 // "PWAV"
	tagWavePreview2     = 0x50575632 // "PWV2"
	tagWaveScroll       = 0x50575633 // "PWV3"
	tagColorPreview     = 0x50575634 // "PWV4"
	tagColorScroll      = 0x50575635 // "PWV5"
	tagThreeBandPreview = 0x50575636 // "PWV6"
	tagThreeBandScroll  = 0x50575637 // "PWV7"
	tagSongStructure    = 0x50534932 // "PSI2"
)

func be16(b []byte, off int) uint16 {
	if off < 0 || off+2 > len(b) {
		return 0
	}
	return binary.BigEndian.Uint16(b[off:])
}

func be32(b []byte, off int) uint32 {
	if off < 0 || off+4 > len(b) {
		return 0
	}
	return binary.BigEndian.Uint32(b[off:])
}

// utf16BEString decodes a UTF-16BE byte run to UTF-8, stopping early at an
// embedded zero code unit. BMP only, matching the on-disk producers.
func utf16BEString(data []byte) string {
	out := make([]byte, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		ch := binary.BigEndian.Uint16(data[i:])
		if ch == 0 {
			break
		}
		switch {
		case ch < 0x80:
			out = append(out, byte(ch))
		case ch < 0x800:
			out = append(out, 0xC0|byte(ch>>6), 0x80|byte(ch&0x3F))
		default:
			out = append(out, 0xE0|byte(ch>>12), 0x80|byte((ch>>6)&0x3F), 0x80|byte(ch&0x3F))
		}
	}
	return string(out)
}

// File holds everything decoded from one analysis file.
type File struct {
	// TrackPath is the audio file path embedded in the analysis file, empty
	// when the file carries no path section.
	TrackPath string
	Cues      []CuePoint
	Beats     *BeatGrid
	Waveforms TrackWaveforms
	Structure *SongStructure
}

// Open reads and parses a single analysis file.
func Open(path string, log *slog.Logger) (*File, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrIO, path, err)
	}
	if len(data) < fileHeaderSize {
		return nil, fmt.Errorf("%w: file too small for an analysis header", ErrInvalidFileFormat)
	}
	if be32(data, 0) != fileMagic {
		return nil, fmt.Errorf("%w: bad magic %08x", ErrInvalidFileFormat, be32(data, 0))
	}

	f := &File{}
	f.parseSections(data)
	log.Debug("parsed analysis file", "path", path, "cues", len(f.Cues))
	return f, nil
}

func (f *File) parseSections(data []byte) {
	offset := int(be32(data, 4)) // header length

	for offset >= 0 && offset+sectionHeaderSize <= len(data) {
		sectionType := be32(data, offset)
		headerLen := int(be32(data, offset+4))
		sectionLen := int(be32(data, offset+8))

		// A zero or overlong section marks the end of usable data.
		if sectionLen == 0 || offset+sectionLen > len(data) {
			return
		}

		var payload []byte
		if headerLen >= 0 && headerLen <= sectionLen {
			payload = data[offset+headerLen : offset+sectionLen]
		}

		switch sectionType {
		case tagCueList, tagCueList2:
			f.parseCueList(payload, false)
		case tagExtCueList:
			f.parseCueList(payload, true)
		case tagBeatGrid:
			f.parseBeatGrid(payload)
		case tagPath:
			f.TrackPath = parsePathSection(payload)
		case tagWavePreview, tagWavePreview2:
			f.Waveforms.setPreview(parsePlainPreview(payload))
		case tagWaveScroll:
			f.Waveforms.setDetail(parseSizedWaveform(payload, StyleBlue))
		case tagColorPreview:
			f.Waveforms.setColorPreview(parseSizedWaveform(payload, StyleRGB))
		case tagColorScroll:
			f.Waveforms.setDetail(parseSizedWaveform(payload, StyleRGB))
		case tagThreeBandPreview:
			f.Waveforms.setColorPreview(parseThreeBand(payload))
		case tagThreeBandScroll:
			f.Waveforms.setDetail(parseThreeBand(payload))
		case tagSongStructure:
			if s := parseSongStructure(payload); s != nil {
				f.Structure = s
			}
		}

		offset += sectionLen
	}
}

func parsePathSection(payload []byte) string {
	if len(payload) < 4 {
		return ""
	}
	pathLen := int(be32(payload, 0))
	if pathLen == 0 || 4+pathLen > len(payload) {
		return ""
	}
	return utf16BEString(payload[4 : 4+pathLen])
}
