package pdb

// Handle types. One distinct integer wrapper per entity kind so ids from
// different tables cannot be mixed up at compile time.
type (
	TrackID    uint32
	ArtistID   uint32
	AlbumID    uint32
	GenreID    uint32
	LabelID    uint32
	ColorID    uint32
	KeyID      uint32
	ArtworkID  uint32
	PlaylistID uint32
	TagID      uint32
)

// TrackRow is a fully decoded track record.
type TrackRow struct {
	ID               TrackID
	ArtistID         ArtistID
	ComposerID       ArtistID
	OriginalArtistID ArtistID
	RemixerID        ArtistID
	AlbumID          AlbumID
	GenreID          GenreID
	LabelID          LabelID
	KeyID            KeyID
	ColorID          ColorID
	ArtworkID        ArtworkID

	Duration    uint32 // seconds
	Tempo       uint32 // BPM * 100
	Rating      uint16
	Bitrate     uint32
	SampleRate  uint32
	Year        uint16
	FileSize    uint32
	TrackNumber uint32
	DiscNumber  uint16
	PlayCount   uint16
	SampleDepth uint16

	Title           string
	ISRC            string
	Texter          string
	Message         string
	KuvoPublic      string
	AutoloadHotCues string
	DateAdded       string
	ReleaseDate     string
	MixName         string
	AnalyzePath     string
	AnalyzeDate     string
	Comment         string
	Filename        string
	FilePath        string
}

type ArtistRow struct {
	ID   ArtistID
	Name string
}

type AlbumRow struct {
	ID       AlbumID
	ArtistID ArtistID
	Name     string
}

type GenreRow struct {
	ID   GenreID
	Name string
}

type LabelRow struct {
	ID   LabelID
	Name string
}

type ColorRow struct {
	ID   ColorID
	Name string
}

type KeyRow struct {
	ID   KeyID
	Name string
}

type ArtworkRow struct {
	ID   ArtworkID
	Path string
}

// PlaylistEntry links one track into one playlist at an ordinal position.
type PlaylistEntry struct {
	EntryIndex uint32
	TrackID    TrackID
	PlaylistID PlaylistID
}

// PlaylistTreeNode is one playlist or folder in the playlist tree.
type PlaylistTreeNode struct {
	ID        PlaylistID
	ParentID  PlaylistID
	SortOrder uint32
	IsFolder  bool
	Name      string
}

type HistoryPlaylistRow struct {
	ID   PlaylistID
	Name string
}

type HistoryEntry struct {
	TrackID    TrackID
	PlaylistID PlaylistID
	EntryIndex uint32
}

// TagRow is one row of the extension container's tag table. Rows with
// IsCategory set double as category headers; plain rows are tags belonging
// to CategoryID.
type TagRow struct {
	ID          TagID
	CategoryID  TagID
	CategoryPos uint32
	IsCategory  bool
	Name        string
}

// TagTrackLink associates one tag with one track.
type TagTrackLink struct {
	TagID   TagID
	TrackID TrackID
}

// Fixed header sizes of the raw row layouts. Rows shorter than the header
// are skipped by the decoders.
const (
	trackRowHeaderSize        = 136 // 94 bytes of scalars + 21 u16 string offsets
	artistRowHeaderSize       = 10
	albumRowHeaderSize        = 22
	genreRowHeaderSize        = 4
	labelRowHeaderSize        = 4
	keyRowHeaderSize          = 8
	colorRowHeaderSize        = 10
	artworkRowHeaderSize      = 4
	playlistEntryRowSize      = 12
	playlistTreeRowHeaderSize = 20
	historyPlaylistHeaderSize = 4
	historyEntryRowSize       = 12
	tagRowHeaderSize          = 32
	tagTrackRowSize           = 8

	// Subtype flag bit selecting the far 2-byte name offset in artist and
	// album rows.
	subtypeFarName = 0x04
	// Tag row subtype whose name offset goes through one extra 4-byte
	// indirection.
	tagSubtypeLongOffset = 0x0684
)

// Track string-offset slots that carry documented fields. The raw row holds
// 21 offsets; the rest point at unknown or empty strings.
const (
	trackStrISRC            = 0
	trackStrTexter          = 1
	trackStrMessage         = 5
	trackStrKuvoPublic      = 6
	trackStrAutoloadHotCues = 7
	trackStrDateAdded       = 10
	trackStrReleaseDate     = 11
	trackStrMixName         = 12
	trackStrAnalyzePath     = 14
	trackStrAnalyzeDate     = 15
	trackStrComment         = 16
	trackStrTitle           = 17
	trackStrFilename        = 19
	trackStrFilePath        = 20
)

func (f *File) trackString(rowBase, slot int) string {
	ofs := f.r.u16(rowBase + 94 + 2*slot)
	return f.r.deviceString(rowBase + int(ofs))
}

// DecodeTrackRow decodes the track row at an absolute file offset. Returns
// false when the row is too short to hold the fixed header.
func (f *File) DecodeTrackRow(rowBase int) (TrackRow, bool) {
	if !f.r.has(rowBase, trackRowHeaderSize) {
		return TrackRow{}, false
	}
	row := TrackRow{
		SampleRate:       f.r.u32(rowBase + 8),
		ComposerID:       ArtistID(f.r.u32(rowBase + 12)),
		FileSize:         f.r.u32(rowBase + 16),
		ArtworkID:        ArtworkID(f.r.u32(rowBase + 28)),
		KeyID:            KeyID(f.r.u32(rowBase + 32)),
		OriginalArtistID: ArtistID(f.r.u32(rowBase + 36)),
		LabelID:          LabelID(f.r.u32(rowBase + 40)),
		RemixerID:        ArtistID(f.r.u32(rowBase + 44)),
		Bitrate:          f.r.u32(rowBase + 48),
		TrackNumber:      f.r.u32(rowBase + 52),
		Tempo:            f.r.u32(rowBase + 56),
		GenreID:          GenreID(f.r.u32(rowBase + 60)),
		AlbumID:          AlbumID(f.r.u32(rowBase + 64)),
		ArtistID:         ArtistID(f.r.u32(rowBase + 68)),
		ID:               TrackID(f.r.u32(rowBase + 72)),
		DiscNumber:       f.r.u16(rowBase + 76),
		PlayCount:        f.r.u16(rowBase + 78),
		Year:             f.r.u16(rowBase + 80),
		SampleDepth:      f.r.u16(rowBase + 82),
		Duration:         uint32(f.r.u16(rowBase + 84)),
		ColorID:          ColorID(f.r.u8(rowBase + 88)),
		Rating:           uint16(f.r.u8(rowBase + 89)),
	}

	row.ISRC = f.trackString(rowBase, trackStrISRC)
	row.Texter = f.trackString(rowBase, trackStrTexter)
	row.Message = f.trackString(rowBase, trackStrMessage)
	row.KuvoPublic = f.trackString(rowBase, trackStrKuvoPublic)
	row.AutoloadHotCues = f.trackString(rowBase, trackStrAutoloadHotCues)
	row.DateAdded = f.trackString(rowBase, trackStrDateAdded)
	row.ReleaseDate = f.trackString(rowBase, trackStrReleaseDate)
	row.MixName = f.trackString(rowBase, trackStrMixName)
	row.AnalyzePath = f.trackString(rowBase, trackStrAnalyzePath)
	row.AnalyzeDate = f.trackString(rowBase, trackStrAnalyzeDate)
	row.Comment = f.trackString(rowBase, trackStrComment)
	row.Title = f.trackString(rowBase, trackStrTitle)
	row.Filename = f.trackString(rowBase, trackStrFilename)
	row.FilePath = f.trackString(rowBase, trackStrFilePath)
	return row, true
}

// DecodeArtistRow decodes an artist row. When the subtype's far-name bit is
// set the 1-byte near offset is replaced by a 2-byte offset stored at a
// fixed secondary location inside the row.
func (f *File) DecodeArtistRow(rowBase int) (ArtistRow, bool) {
	if !f.r.has(rowBase, artistRowHeaderSize) {
		return ArtistRow{}, false
	}
	row := ArtistRow{ID: ArtistID(f.r.u32(rowBase + 4))}

	nameOfs := int(f.r.u8(rowBase + 9))
	if f.r.u16(rowBase)&subtypeFarName != 0 && f.r.has(rowBase+0x0a, 2) {
		nameOfs = int(f.r.u16(rowBase + 0x0a))
	}
	row.Name = f.r.deviceString(rowBase + nameOfs)
	return row, true
}

// DecodeAlbumRow decodes an album row, with the same near/far name offset
// scheme as artists.
func (f *File) DecodeAlbumRow(rowBase int) (AlbumRow, bool) {
	if !f.r.has(rowBase, albumRowHeaderSize) {
		return AlbumRow{}, false
	}
	row := AlbumRow{
		ArtistID: ArtistID(f.r.u32(rowBase + 8)),
		ID:       AlbumID(f.r.u32(rowBase + 12)),
	}

	nameOfs := int(f.r.u8(rowBase + 21))
	if f.r.u16(rowBase)&subtypeFarName != 0 && f.r.has(rowBase+0x16, 2) {
		nameOfs = int(f.r.u16(rowBase + 0x16))
	}
	row.Name = f.r.deviceString(rowBase + nameOfs)
	return row, true
}

func (f *File) DecodeGenreRow(rowBase int) (GenreRow, bool) {
	if !f.r.has(rowBase, genreRowHeaderSize) {
		return GenreRow{}, false
	}
	return GenreRow{
		ID:   GenreID(f.r.u32(rowBase)),
		Name: f.r.deviceString(rowBase + genreRowHeaderSize),
	}, true
}

func (f *File) DecodeLabelRow(rowBase int) (LabelRow, bool) {
	if !f.r.has(rowBase, labelRowHeaderSize) {
		return LabelRow{}, false
	}
	return LabelRow{
		ID:   LabelID(f.r.u32(rowBase)),
		Name: f.r.deviceString(rowBase + labelRowHeaderSize),
	}, true
}

func (f *File) DecodeColorRow(rowBase int) (ColorRow, bool) {
	if !f.r.has(rowBase, colorRowHeaderSize) {
		return ColorRow{}, false
	}
	return ColorRow{
		ID:   ColorID(f.r.u16(rowBase + 6)),
		Name: f.r.deviceString(rowBase + colorRowHeaderSize),
	}, true
}

func (f *File) DecodeKeyRow(rowBase int) (KeyRow, bool) {
	if !f.r.has(rowBase, keyRowHeaderSize) {
		return KeyRow{}, false
	}
	return KeyRow{
		ID:   KeyID(f.r.u32(rowBase)),
		Name: f.r.deviceString(rowBase + keyRowHeaderSize),
	}, true
}

func (f *File) DecodeArtworkRow(rowBase int) (ArtworkRow, bool) {
	if !f.r.has(rowBase, artworkRowHeaderSize) {
		return ArtworkRow{}, false
	}
	return ArtworkRow{
		ID:   ArtworkID(f.r.u32(rowBase)),
		Path: f.r.deviceString(rowBase + artworkRowHeaderSize),
	}, true
}

func (f *File) DecodePlaylistEntry(rowBase int) (PlaylistEntry, bool) {
	if !f.r.has(rowBase, playlistEntryRowSize) {
		return PlaylistEntry{}, false
	}
	return PlaylistEntry{
		EntryIndex: f.r.u32(rowBase),
		TrackID:    TrackID(f.r.u32(rowBase + 4)),
		PlaylistID: PlaylistID(f.r.u32(rowBase + 8)),
	}, true
}

func (f *File) DecodePlaylistTreeNode(rowBase int) (PlaylistTreeNode, bool) {
	if !f.r.has(rowBase, playlistTreeRowHeaderSize) {
		return PlaylistTreeNode{}, false
	}
	return PlaylistTreeNode{
		ParentID:  PlaylistID(f.r.u32(rowBase)),
		SortOrder: f.r.u32(rowBase + 8),
		ID:        PlaylistID(f.r.u32(rowBase + 12)),
		IsFolder:  f.r.u32(rowBase+16) != 0,
		Name:      f.r.deviceString(rowBase + playlistTreeRowHeaderSize),
	}, true
}

func (f *File) DecodeHistoryPlaylistRow(rowBase int) (HistoryPlaylistRow, bool) {
	if !f.r.has(rowBase, historyPlaylistHeaderSize) {
		return HistoryPlaylistRow{}, false
	}
	return HistoryPlaylistRow{
		ID:   PlaylistID(f.r.u32(rowBase)),
		Name: f.r.deviceString(rowBase + historyPlaylistHeaderSize),
	}, true
}

func (f *File) DecodeHistoryEntry(rowBase int) (HistoryEntry, bool) {
	if !f.r.has(rowBase, historyEntryRowSize) {
		return HistoryEntry{}, false
	}
	return HistoryEntry{
		TrackID:    TrackID(f.r.u32(rowBase)),
		PlaylistID: PlaylistID(f.r.u32(rowBase + 4)),
		EntryIndex: f.r.u32(rowBase + 8),
	}, true
}

// DecodeTagRow decodes a tag or tag-category row. The 0x0684 subtype routes
// the name through one extra 4-byte offset stored where the near offset
// points.
func (f *File) DecodeTagRow(rowBase int) (TagRow, bool) {
	if !f.r.has(rowBase, tagRowHeaderSize) {
		return TagRow{}, false
	}
	row := TagRow{
		CategoryID:  TagID(f.r.u32(rowBase + 12)),
		CategoryPos: f.r.u32(rowBase + 16),
		ID:          TagID(f.r.u32(rowBase + 20)),
		IsCategory:  f.r.u32(rowBase+24) != 0,
	}

	nameOfs := rowBase + int(f.r.u8(rowBase+29))
	if f.r.u16(rowBase) == tagSubtypeLongOffset && f.r.has(nameOfs, 4) {
		nameOfs = rowBase + int(f.r.u32(nameOfs))
	}
	row.Name = f.r.deviceString(nameOfs)
	return row, true
}

func (f *File) DecodeTagTrackLink(rowBase int) (TagTrackLink, bool) {
	if !f.r.has(rowBase, tagTrackRowSize) {
		return TagTrackLink{}, false
	}
	return TagTrackLink{
		TagID:   TagID(f.r.u32(rowBase)),
		TrackID: TrackID(f.r.u32(rowBase + 4)),
	}, true
}
