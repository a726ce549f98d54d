// Package library assembles decoded container rows into an immutable,
// queryable snapshot: primary id indices, case-insensitive name indices,
// foreign-key id sets, ordinal playlist arrays and the ordered tag
// hierarchy. A snapshot is built once at open time and is safe for
// unsynchronized concurrent reads afterwards.
package library

import (
	"io"
	"log/slog"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/cratedex/cratedex/internal/pdb"
)

// Snapshot is the fully indexed contents of one container file.
type Snapshot struct {
	ext bool

	tracks   map[pdb.TrackID]pdb.TrackRow
	artists  map[pdb.ArtistID]pdb.ArtistRow
	albums   map[pdb.AlbumID]pdb.AlbumRow
	genres   map[pdb.GenreID]pdb.GenreRow
	labels   map[pdb.LabelID]pdb.LabelRow
	colors   map[pdb.ColorID]pdb.ColorRow
	keys     map[pdb.KeyID]pdb.KeyRow
	artworks map[pdb.ArtworkID]pdb.ArtworkRow

	allTracks     *roaring.Bitmap
	trackByTitle  map[string]*roaring.Bitmap
	trackByArtist map[pdb.ArtistID]*roaring.Bitmap
	trackByAlbum  map[pdb.AlbumID]*roaring.Bitmap
	trackByGenre  map[pdb.GenreID]*roaring.Bitmap
	trackByLabel  map[pdb.LabelID]*roaring.Bitmap
	trackByKey    map[pdb.KeyID]*roaring.Bitmap

	artistByName map[string]*roaring.Bitmap
	albumByName  map[string]*roaring.Bitmap
	genreByName  map[string]*roaring.Bitmap
	labelByName  map[string]*roaring.Bitmap
	colorByName  map[string]*roaring.Bitmap
	keyByName    map[string]*roaring.Bitmap

	albumsByArtist map[pdb.ArtistID]*roaring.Bitmap

	playlistNodes  map[pdb.PlaylistID]pdb.PlaylistTreeNode
	folderChildren map[pdb.PlaylistID][]pdb.PlaylistID
	playlistTracks map[pdb.PlaylistID][]pdb.TrackID

	historyLists  map[pdb.PlaylistID]pdb.HistoryPlaylistRow
	historyTracks map[pdb.PlaylistID][]pdb.TrackID

	tags          map[pdb.TagID]pdb.TagRow
	categoryOrder []pdb.TagID
	categoryTags  map[pdb.TagID][]pdb.TagID
	tracksByTag   map[pdb.TagID]*roaring.Bitmap
	tagsByTrack   map[pdb.TrackID][]pdb.TagID

	log *slog.Logger
}

// Open parses a standard export container and builds the full index set.
func Open(path string, log *slog.Logger) (*Snapshot, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := pdb.Open(path, log)
	if err != nil {
		return nil, err
	}
	s := newSnapshot(false, log)
	s.buildStandard(f)
	log.Info("built library snapshot",
		"tracks", len(s.tracks), "artists", len(s.artists),
		"albums", len(s.albums), "playlists", len(s.playlistNodes))
	return s, nil
}

// OpenExt parses an extension container, which only carries the tag
// hierarchy and tag-track links; none of the standard indices are built.
func OpenExt(path string, log *slog.Logger) (*Snapshot, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := pdb.OpenExt(path, log)
	if err != nil {
		return nil, err
	}
	s := newSnapshot(true, log)
	s.buildExt(f)
	log.Info("built tag snapshot", "tags", len(s.tags), "categories", len(s.categoryOrder))
	return s, nil
}

func newSnapshot(ext bool, log *slog.Logger) *Snapshot {
	return &Snapshot{
		ext: ext,

		tracks:   make(map[pdb.TrackID]pdb.TrackRow),
		artists:  make(map[pdb.ArtistID]pdb.ArtistRow),
		albums:   make(map[pdb.AlbumID]pdb.AlbumRow),
		genres:   make(map[pdb.GenreID]pdb.GenreRow),
		labels:   make(map[pdb.LabelID]pdb.LabelRow),
		colors:   make(map[pdb.ColorID]pdb.ColorRow),
		keys:     make(map[pdb.KeyID]pdb.KeyRow),
		artworks: make(map[pdb.ArtworkID]pdb.ArtworkRow),

		allTracks:     roaring.New(),
		trackByTitle:  make(map[string]*roaring.Bitmap),
		trackByArtist: make(map[pdb.ArtistID]*roaring.Bitmap),
		trackByAlbum:  make(map[pdb.AlbumID]*roaring.Bitmap),
		trackByGenre:  make(map[pdb.GenreID]*roaring.Bitmap),
		trackByLabel:  make(map[pdb.LabelID]*roaring.Bitmap),
		trackByKey:    make(map[pdb.KeyID]*roaring.Bitmap),

		artistByName: make(map[string]*roaring.Bitmap),
		albumByName:  make(map[string]*roaring.Bitmap),
		genreByName:  make(map[string]*roaring.Bitmap),
		labelByName:  make(map[string]*roaring.Bitmap),
		colorByName:  make(map[string]*roaring.Bitmap),
		keyByName:    make(map[string]*roaring.Bitmap),

		albumsByArtist: make(map[pdb.ArtistID]*roaring.Bitmap),

		playlistNodes:  make(map[pdb.PlaylistID]pdb.PlaylistTreeNode),
		folderChildren: make(map[pdb.PlaylistID][]pdb.PlaylistID),
		playlistTracks: make(map[pdb.PlaylistID][]pdb.TrackID),

		historyLists:  make(map[pdb.PlaylistID]pdb.HistoryPlaylistRow),
		historyTracks: make(map[pdb.PlaylistID][]pdb.TrackID),

		tags:         make(map[pdb.TagID]pdb.TagRow),
		categoryTags: make(map[pdb.TagID][]pdb.TagID),
		tracksByTag:  make(map[pdb.TagID]*roaring.Bitmap),
		tagsByTrack:  make(map[pdb.TrackID][]pdb.TagID),

		log: log,
	}
}

func addID[K comparable](m map[K]*roaring.Bitmap, key K, id uint32) {
	bm := m[key]
	if bm == nil {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(id)
}

// addName indexes a non-empty name case-insensitively.
func addName(m map[string]*roaring.Bitmap, name string, id uint32) {
	if name == "" {
		return
	}
	addID(m, strings.ToLower(name), id)
}

// Ordinal positions beyond this are treated as corrupt and dropped rather
// than allocating an absurd backing array.
const maxOrdinal = 1 << 20

// setOrdinal grows the slice with zero values so that index idx exists,
// then sets it. Duplicate ordinals overwrite.
func setOrdinal[T any](slice []T, idx int, v T) []T {
	if idx < 0 || idx > maxOrdinal {
		return slice
	}
	for len(slice) <= idx {
		var zero T
		slice = append(slice, zero)
	}
	slice[idx] = v
	return slice
}

func (s *Snapshot) buildStandard(f *pdb.File) {
	f.ScanTable(pdb.TableTracks, func(off int) {
		row, ok := f.DecodeTrackRow(off)
		if !ok {
			return
		}
		s.tracks[row.ID] = row
		id := uint32(row.ID)
		s.allTracks.Add(id)

		if row.Title != "" {
			addID(s.trackByTitle, strings.ToLower(row.Title), id)
		}
		for _, aid := range [...]pdb.ArtistID{row.ArtistID, row.ComposerID, row.OriginalArtistID, row.RemixerID} {
			if aid != 0 {
				addID(s.trackByArtist, aid, id)
			}
		}
		if row.AlbumID != 0 {
			addID(s.trackByAlbum, row.AlbumID, id)
		}
		if row.GenreID != 0 {
			addID(s.trackByGenre, row.GenreID, id)
		}
		if row.LabelID != 0 {
			addID(s.trackByLabel, row.LabelID, id)
		}
		if row.KeyID != 0 {
			addID(s.trackByKey, row.KeyID, id)
		}
	})

	f.ScanTable(pdb.TableArtists, func(off int) {
		row, ok := f.DecodeArtistRow(off)
		if !ok {
			return
		}
		s.artists[row.ID] = row
		addName(s.artistByName, row.Name, uint32(row.ID))
	})

	f.ScanTable(pdb.TableAlbums, func(off int) {
		row, ok := f.DecodeAlbumRow(off)
		if !ok {
			return
		}
		s.albums[row.ID] = row
		addName(s.albumByName, row.Name, uint32(row.ID))
		if row.ArtistID != 0 {
			addID(s.albumsByArtist, row.ArtistID, uint32(row.ID))
		}
	})

	f.ScanTable(pdb.TableGenres, func(off int) {
		row, ok := f.DecodeGenreRow(off)
		if !ok {
			return
		}
		s.genres[row.ID] = row
		addName(s.genreByName, row.Name, uint32(row.ID))
	})

	f.ScanTable(pdb.TableLabels, func(off int) {
		row, ok := f.DecodeLabelRow(off)
		if !ok {
			return
		}
		s.labels[row.ID] = row
		addName(s.labelByName, row.Name, uint32(row.ID))
	})

	f.ScanTable(pdb.TableColors, func(off int) {
		row, ok := f.DecodeColorRow(off)
		if !ok {
			return
		}
		s.colors[row.ID] = row
		addName(s.colorByName, row.Name, uint32(row.ID))
	})

	f.ScanTable(pdb.TableKeys, func(off int) {
		row, ok := f.DecodeKeyRow(off)
		if !ok {
			return
		}
		s.keys[row.ID] = row
		addName(s.keyByName, row.Name, uint32(row.ID))
	})

	f.ScanTable(pdb.TableArtwork, func(off int) {
		row, ok := f.DecodeArtworkRow(off)
		if !ok {
			return
		}
		s.artworks[row.ID] = row
	})

	f.ScanTable(pdb.TablePlaylistTree, func(off int) {
		node, ok := f.DecodePlaylistTreeNode(off)
		if !ok {
			return
		}
		s.playlistNodes[node.ID] = node
		s.folderChildren[node.ParentID] = setOrdinal(s.folderChildren[node.ParentID], int(node.SortOrder), node.ID)
	})

	f.ScanTable(pdb.TablePlaylistEntries, func(off int) {
		entry, ok := f.DecodePlaylistEntry(off)
		if !ok {
			return
		}
		s.playlistTracks[entry.PlaylistID] = setOrdinal(s.playlistTracks[entry.PlaylistID], int(entry.EntryIndex), entry.TrackID)
	})

	f.ScanTable(pdb.TableHistoryPlaylists, func(off int) {
		row, ok := f.DecodeHistoryPlaylistRow(off)
		if !ok {
			return
		}
		s.historyLists[row.ID] = row
	})

	f.ScanTable(pdb.TableHistoryEntries, func(off int) {
		entry, ok := f.DecodeHistoryEntry(off)
		if !ok {
			return
		}
		s.historyTracks[entry.PlaylistID] = setOrdinal(s.historyTracks[entry.PlaylistID], int(entry.EntryIndex), entry.TrackID)
	})
}

// IsExt reports whether this snapshot came from an extension container.
func (s *Snapshot) IsExt() bool { return s.ext }
