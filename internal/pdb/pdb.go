// Package pdb parses the paged DeviceSQL database export format written by
// rekordbox onto exported media (export.pdb / exportExt.pdb). The whole file
// is read into memory once; everything afterwards is offset arithmetic over
// that single buffer, so a File and all views derived from it must not
// outlive each other.
package pdb

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
)

const (
	headerSize     = 28
	tableEntrySize = 16
	maxPageSize    = 65536

	// Row heap starts at a fixed offset inside every data page; row-group
	// footers grow backward from the page end in 0x24-byte strides.
	heapOffset     = 40
	rowGroupStride = 0x24
	rowGroupSize   = 16

	// Bit 0x40 set in the page flags marks a non-data page.
	pageFlagNonData = 0x40
)

// TableKind identifies a table in a standard export container.
type TableKind uint32

const (
	TableTracks           TableKind = 0
	TableGenres           TableKind = 1
	TableArtists          TableKind = 2
	TableAlbums           TableKind = 3
	TableLabels           TableKind = 4
	TableKeys             TableKind = 5
	TableColors           TableKind = 6
	TablePlaylistTree     TableKind = 7
	TablePlaylistEntries  TableKind = 8
	TableHistoryPlaylists TableKind = 11
	TableHistoryEntries   TableKind = 12
	TableArtwork          TableKind = 13
	TableColumns          TableKind = 16
	TableHistory          TableKind = 19
)

// ExtTableKind identifies a table in an extension (exportExt) container,
// which only carries the tag hierarchy and tag-track links.
type ExtTableKind uint32

const (
	ExtTableTags      ExtTableKind = 3
	ExtTableTagTracks ExtTableKind = 4
)

// Table is one directory entry, read once at open and immutable afterward.
type Table struct {
	Kind           TableKind
	ExtKind        ExtTableKind
	EmptyCandidate uint32
	FirstPage      uint32
	LastPage       uint32
}

// RowGroup holds the presence bitmask and heap offsets for up to 16 rows.
type RowGroup struct {
	PresentFlags uint16
	RowOffsets   []uint16
	HeapPos      int // absolute file offset of this page's row heap
}

// Page is the decoded header of one fixed-size page plus its row groups.
type Page struct {
	Index         uint32
	Kind          TableKind
	ExtKind       ExtTableKind
	NextPage      uint32
	NumRowOffsets uint16
	NumRows       uint16
	Flags         uint8
	FreeSize      uint16
	UsedSize      uint16
	IsDataPage    bool
	RowGroups     []RowGroup
}

// File is an opened container. It is read-only and safe for concurrent use.
type File struct {
	r          reader
	tables     []Table
	pageSize   uint32
	tableCount uint32
	ext        bool
	log        *slog.Logger
}

// Open reads a standard export container into memory and parses its table
// directory.
func Open(path string, log *slog.Logger) (*File, error) {
	return open(path, false, log)
}

// OpenExt reads an extension (exportExt) container into memory and parses
// its table directory.
func OpenExt(path string, log *slog.Logger) (*File, error) {
	return open(path, true, log)
}

func open(path string, ext bool, log *slog.Logger) (*File, error) {
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
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: file too small for a container header", ErrInvalidFileFormat)
	}

	f := &File{r: reader{data: data}, ext: ext, log: log}
	f.pageSize = f.r.u32(4)
	f.tableCount = f.r.u32(8)

	if f.pageSize == 0 || f.pageSize > maxPageSize {
		return nil, fmt.Errorf("%w: invalid page size %d", ErrInvalidFileFormat, f.pageSize)
	}

	off := headerSize
	for i := uint32(0); i < f.tableCount; i++ {
		if !f.r.has(off, tableEntrySize) {
			return nil, fmt.Errorf("%w: table definition extends past end of file", ErrCorruptedData)
		}
		t := Table{
			EmptyCandidate: f.r.u32(off + 4),
			FirstPage:      f.r.u32(off + 8),
			LastPage:       f.r.u32(off + 12),
		}
		kind := f.r.u32(off)
		if ext {
			t.ExtKind = ExtTableKind(kind)
		} else {
			t.Kind = TableKind(kind)
		}
		f.tables = append(f.tables, t)
		off += tableEntrySize
	}

	log.Info("opened container", "path", path, "tables", f.tableCount, "page_size", f.pageSize)
	return f, nil
}

// PageSize returns the container's page size in bytes.
func (f *File) PageSize() uint32 { return f.pageSize }

// TableCount returns the number of table directory entries.
func (f *File) TableCount() uint32 { return f.tableCount }

// IsExt reports whether this is an extension container.
func (f *File) IsExt() bool { return f.ext }

// Tables returns the table directory.
func (f *File) Tables() []Table { return f.tables }

// ReadPage decodes the page at the given index, including its row groups.
func (f *File) ReadPage(index uint32) (*Page, error) {
	pageOff := int(index) * int(f.pageSize)
	if !f.r.has(pageOff, int(f.pageSize)) {
		return nil, fmt.Errorf("%w: page %d extends past end of file", ErrCorruptedData, index)
	}

	p := &Page{
		Index:    f.r.u32(pageOff + 4),
		NextPage: f.r.u32(pageOff + 12),
		FreeSize: f.r.u16(pageOff + 24),
		UsedSize: f.r.u16(pageOff + 26),
	}
	kind := f.r.u32(pageOff + 8)
	if f.ext {
		p.ExtKind = ExtTableKind(kind)
	} else {
		p.Kind = TableKind(kind)
	}

	// Packed counts-and-flags word: row-offset count in the low 13 bits,
	// row count in the next 11, page flags in the top 8.
	rowInfo := f.r.u32(pageOff + 20)
	p.NumRowOffsets = uint16(rowInfo & 0x1FFF)
	p.NumRows = uint16((rowInfo >> 13) & 0x7FF)
	p.Flags = uint8(rowInfo >> 24)
	p.IsDataPage = p.Flags&pageFlagNonData == 0

	if p.IsDataPage && p.NumRowOffsets > 0 {
		numGroups := (int(p.NumRowOffsets)-1)/rowGroupSize + 1
		pageSize := int(f.pageSize)

		for g := 0; g < numGroups; g++ {
			group := RowGroup{HeapPos: pageOff + heapOffset}
			base := pageSize - g*rowGroupStride

			// Groups whose footer would fall outside the page are kept
			// empty rather than treated as corruption.
			if base >= 4 && base <= pageSize {
				group.PresentFlags = f.r.u16(pageOff + base - 4)
			}
			for row := 0; row < rowGroupSize; row++ {
				ofsPos := base - (6 + 2*row)
				if ofsPos >= 2 && ofsPos < pageSize {
					group.RowOffsets = append(group.RowOffsets, f.r.u16(pageOff+ofsPos))
				}
			}
			p.RowGroups = append(p.RowGroups, group)
		}
	}

	return p, nil
}

// ReadString decodes the DeviceSQL string at an absolute file offset.
func (f *File) ReadString(offset int) string {
	return f.r.deviceString(offset)
}

// DataAt returns a read-only view of size bytes at offset, or nil when the
// range falls outside the file.
func (f *File) DataAt(offset, size int) []byte {
	return f.r.at(offset, size)
}
