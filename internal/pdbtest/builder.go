// Package pdbtest builds synthetic export containers in memory so parser
// and index tests can run against known byte layouts without fixture files.
package pdbtest

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// PageSize used by every synthetic container.
const PageSize = 4096

type table struct {
	kind uint32
	rows [][]byte
}

// Builder assembles a container with one header page and one data page per
// table. Each table takes at most 16 rows (a single row group).
type Builder struct {
	tables []table
}

func New() *Builder { return &Builder{} }

// AddTable appends a table with the given directory kind and rows.
func (b *Builder) AddTable(kind uint32, rows ...[]byte) *Builder {
	if len(rows) > 16 {
		panic("pdbtest: at most 16 rows per table")
	}
	b.tables = append(b.tables, table{kind: kind, rows: rows})
	return b
}

// Bytes renders the container image.
func (b *Builder) Bytes() []byte {
	buf := make([]byte, (1+len(b.tables))*PageSize)
	le := binary.LittleEndian

	le.PutUint32(buf[4:], PageSize)
	le.PutUint32(buf[8:], uint32(len(b.tables)))

	dirOff := 28
	for i, t := range b.tables {
		le.PutUint32(buf[dirOff:], t.kind)
		le.PutUint32(buf[dirOff+8:], uint32(i+1))  // first page
		le.PutUint32(buf[dirOff+12:], uint32(i+1)) // last page
		dirOff += 16
	}

	for i, t := range b.tables {
		pageOff := (i + 1) * PageSize
		le.PutUint32(buf[pageOff+4:], uint32(i+1))
		le.PutUint32(buf[pageOff+8:], t.kind)

		// Flags stay zero, marking a data page.
		n := uint32(len(t.rows))
		le.PutUint32(buf[pageOff+20:], n|n<<13)

		heap := pageOff + 40
		pos := 0
		var present uint16
		for r, row := range t.rows {
			copy(buf[heap+pos:], row)
			le.PutUint16(buf[pageOff+PageSize-(6+2*r):], uint16(pos))
			present |= 1 << r
			pos += len(row)
			if rem := pos % 4; rem != 0 {
				pos += 4 - rem
			}
		}
		le.PutUint16(buf[pageOff+PageSize-4:], present)
	}
	return buf
}

// WriteFile writes the container into a temp dir and returns its path.
func (b *Builder) WriteFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.pdb")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write container: %v", err)
	}
	return path
}

// ShortASCII encodes a string in the short form, whose stored length counts
// the tag byte. Strings longer than 126 bytes need LongASCII.
func ShortASCII(s string) []byte {
	if len(s) > 126 {
		panic("pdbtest: short string too long")
	}
	out := make([]byte, 0, len(s)+1)
	out = append(out, byte((len(s)+1)<<1))
	return append(out, s...)
}

// LongASCII encodes a string in the 0x40-tagged long form.
func LongASCII(s string) []byte {
	out := make([]byte, 4+len(s))
	out[0] = 0x40
	binary.LittleEndian.PutUint16(out[1:], uint16(len(s)+4))
	copy(out[4:], s)
	return out
}

// LongUTF16 encodes raw UTF-16LE code units in the 0x90-tagged long form.
func LongUTF16(units []uint16) []byte {
	out := make([]byte, 4+2*len(units))
	out[0] = 0x90
	binary.LittleEndian.PutUint16(out[1:], uint16(len(out)))
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[4+2*i:], u)
	}
	return out
}

// TrackSpec holds the fields a synthetic track row can carry.
type TrackSpec struct {
	ID, ArtistID, ComposerID, OriginalArtistID, RemixerID uint32
	AlbumID, GenreID, LabelID, KeyID, ArtworkID           uint32
	Tempo, Bitrate, SampleRate, FileSize, TrackNumber     uint32
	DiscNumber, PlayCount, Year, SampleDepth, Duration    uint16
	ColorID, Rating                                       uint8
	Title, Filename, FilePath, Comment, DateAdded         string
}

// TrackRow renders a 136-byte track header plus its string heap. Unused
// string slots point at a shared empty string.
func TrackRow(s TrackSpec) []byte {
	row := make([]byte, 136, 256)
	le := binary.LittleEndian

	le.PutUint32(row[8:], s.SampleRate)
	le.PutUint32(row[12:], s.ComposerID)
	le.PutUint32(row[16:], s.FileSize)
	le.PutUint32(row[28:], s.ArtworkID)
	le.PutUint32(row[32:], s.KeyID)
	le.PutUint32(row[36:], s.OriginalArtistID)
	le.PutUint32(row[40:], s.LabelID)
	le.PutUint32(row[44:], s.RemixerID)
	le.PutUint32(row[48:], s.Bitrate)
	le.PutUint32(row[52:], s.TrackNumber)
	le.PutUint32(row[56:], s.Tempo)
	le.PutUint32(row[60:], s.GenreID)
	le.PutUint32(row[64:], s.AlbumID)
	le.PutUint32(row[68:], s.ArtistID)
	le.PutUint32(row[72:], s.ID)
	le.PutUint16(row[76:], s.DiscNumber)
	le.PutUint16(row[78:], s.PlayCount)
	le.PutUint16(row[80:], s.Year)
	le.PutUint16(row[82:], s.SampleDepth)
	le.PutUint16(row[84:], s.Duration)
	row[88] = s.ColorID
	row[89] = s.Rating

	row = append(row, 0) // shared empty string at offset 136
	for slot := 0; slot < 21; slot++ {
		le.PutUint16(row[94+2*slot:], 136)
	}
	set := func(slot int, val string) {
		if val == "" {
			return
		}
		le.PutUint16(row[94+2*slot:], uint16(len(row)))
		row = append(row, ShortASCII(val)...)
	}
	set(10, s.DateAdded)
	set(16, s.Comment)
	set(17, s.Title)
	set(19, s.Filename)
	set(20, s.FilePath)
	return row
}

// ArtistRow renders an artist row using the near name offset.
func ArtistRow(id uint32, name string) []byte {
	row := make([]byte, 10, 10+len(name)+1)
	binary.LittleEndian.PutUint32(row[4:], id)
	row[9] = 10
	return append(row, ShortASCII(name)...)
}

// ArtistRowFar renders an artist row using the far 2-byte name offset.
func ArtistRowFar(id uint32, name string) []byte {
	row := make([]byte, 12, 12+len(name)+1)
	binary.LittleEndian.PutUint16(row[0:], 0x04)
	binary.LittleEndian.PutUint32(row[4:], id)
	binary.LittleEndian.PutUint16(row[10:], 12)
	return append(row, ShortASCII(name)...)
}

// AlbumRow renders an album row using the near name offset.
func AlbumRow(id, artistID uint32, name string) []byte {
	row := make([]byte, 22, 22+len(name)+1)
	binary.LittleEndian.PutUint32(row[8:], artistID)
	binary.LittleEndian.PutUint32(row[12:], id)
	row[21] = 22
	return append(row, ShortASCII(name)...)
}

// GenreRow renders an id-plus-name row as used by genres and labels.
func GenreRow(id uint32, name string) []byte {
	row := make([]byte, 4, 4+len(name)+1)
	binary.LittleEndian.PutUint32(row, id)
	return append(row, ShortASCII(name)...)
}

// KeyRow renders a musical key row.
func KeyRow(id uint32, name string) []byte {
	row := make([]byte, 8, 8+len(name)+1)
	binary.LittleEndian.PutUint32(row, id)
	return append(row, ShortASCII(name)...)
}

// ColorRow renders a color row.
func ColorRow(id uint16, name string) []byte {
	row := make([]byte, 10, 10+len(name)+1)
	binary.LittleEndian.PutUint16(row[6:], id)
	return append(row, ShortASCII(name)...)
}

// ArtworkRow renders an artwork row.
func ArtworkRow(id uint32, path string) []byte {
	row := make([]byte, 4, 4+len(path)+1)
	binary.LittleEndian.PutUint32(row, id)
	return append(row, ShortASCII(path)...)
}

// PlaylistEntryRow renders a playlist entry.
func PlaylistEntryRow(entryIndex, trackID, playlistID uint32) []byte {
	row := make([]byte, 12)
	binary.LittleEndian.PutUint32(row, entryIndex)
	binary.LittleEndian.PutUint32(row[4:], trackID)
	binary.LittleEndian.PutUint32(row[8:], playlistID)
	return row
}

// PlaylistTreeRow renders a playlist-tree node.
func PlaylistTreeRow(id, parentID, sortOrder uint32, isFolder bool, name string) []byte {
	row := make([]byte, 20, 20+len(name)+1)
	binary.LittleEndian.PutUint32(row, parentID)
	binary.LittleEndian.PutUint32(row[8:], sortOrder)
	binary.LittleEndian.PutUint32(row[12:], id)
	if isFolder {
		binary.LittleEndian.PutUint32(row[16:], 1)
	}
	return append(row, ShortASCII(name)...)
}

// HistoryPlaylistRow renders a history playlist row.
func HistoryPlaylistRow(id uint32, name string) []byte {
	row := make([]byte, 4, 4+len(name)+1)
	binary.LittleEndian.PutUint32(row, id)
	return append(row, ShortASCII(name)...)
}

// HistoryEntryRow renders a history entry.
func HistoryEntryRow(trackID, playlistID, entryIndex uint32) []byte {
	row := make([]byte, 12)
	binary.LittleEndian.PutUint32(row, trackID)
	binary.LittleEndian.PutUint32(row[4:], playlistID)
	binary.LittleEndian.PutUint32(row[8:], entryIndex)
	return row
}

// TagRow renders a tag or category row using the near name offset.
func TagRow(id, categoryID, categoryPos uint32, isCategory bool, name string) []byte {
	row := make([]byte, 32, 32+len(name)+1)
	binary.LittleEndian.PutUint32(row[12:], categoryID)
	binary.LittleEndian.PutUint32(row[16:], categoryPos)
	binary.LittleEndian.PutUint32(row[20:], id)
	if isCategory {
		binary.LittleEndian.PutUint32(row[24:], 1)
	}
	row[29] = 32
	return append(row, ShortASCII(name)...)
}

// TagTrackRow renders a tag-track link.
func TagTrackRow(tagID, trackID uint32) []byte {
	row := make([]byte, 8)
	binary.LittleEndian.PutUint32(row, tagID)
	binary.LittleEndian.PutUint32(row[4:], trackID)
	return row
}
