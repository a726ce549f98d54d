package library

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/cratedex/cratedex/internal/anlz"
	"github.com/cratedex/cratedex/internal/pdb"
)

// Primary index lookups. The bool mirrors map semantics: a missing id is an
// empty result, not an error.

func (s *Snapshot) GetTrack(id pdb.TrackID) (pdb.TrackRow, bool) {
	row, ok := s.tracks[id]
	return row, ok
}

func (s *Snapshot) GetArtist(id pdb.ArtistID) (pdb.ArtistRow, bool) {
	row, ok := s.artists[id]
	return row, ok
}

func (s *Snapshot) GetAlbum(id pdb.AlbumID) (pdb.AlbumRow, bool) {
	row, ok := s.albums[id]
	return row, ok
}

func (s *Snapshot) GetGenre(id pdb.GenreID) (pdb.GenreRow, bool) {
	row, ok := s.genres[id]
	return row, ok
}

func (s *Snapshot) GetLabel(id pdb.LabelID) (pdb.LabelRow, bool) {
	row, ok := s.labels[id]
	return row, ok
}

func (s *Snapshot) GetColor(id pdb.ColorID) (pdb.ColorRow, bool) {
	row, ok := s.colors[id]
	return row, ok
}

func (s *Snapshot) GetKey(id pdb.KeyID) (pdb.KeyRow, bool) {
	row, ok := s.keys[id]
	return row, ok
}

func (s *Snapshot) GetArtwork(id pdb.ArtworkID) (pdb.ArtworkRow, bool) {
	row, ok := s.artworks[id]
	return row, ok
}

func trackIDs(bm *roaring.Bitmap) []pdb.TrackID {
	if bm == nil || bm.IsEmpty() {
		return nil
	}
	out := make([]pdb.TrackID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, pdb.TrackID(it.Next()))
	}
	return out
}

// FindTracksByTitle returns the ids of every track whose title matches
// exactly, case-insensitively, in ascending id order.
func (s *Snapshot) FindTracksByTitle(title string) []pdb.TrackID {
	return trackIDs(s.trackByTitle[strings.ToLower(title)])
}

// FindTracksByArtist matches an artist name case-insensitively and returns
// every track credited to a matching artist as artist, composer, original
// artist or remixer.
func (s *Snapshot) FindTracksByArtist(name string) []pdb.TrackID {
	return s.tracksViaName(s.artistByName, name, func(id uint32) *roaring.Bitmap {
		return s.trackByArtist[pdb.ArtistID(id)]
	})
}

// FindTracksByAlbum matches an album name case-insensitively.
func (s *Snapshot) FindTracksByAlbum(name string) []pdb.TrackID {
	return s.tracksViaName(s.albumByName, name, func(id uint32) *roaring.Bitmap {
		return s.trackByAlbum[pdb.AlbumID(id)]
	})
}

// FindTracksByGenre matches a genre name case-insensitively.
func (s *Snapshot) FindTracksByGenre(name string) []pdb.TrackID {
	return s.tracksViaName(s.genreByName, name, func(id uint32) *roaring.Bitmap {
		return s.trackByGenre[pdb.GenreID(id)]
	})
}

// tracksViaName resolves a name to entity ids, then unions the per-entity
// track sets.
func (s *Snapshot) tracksViaName(byName map[string]*roaring.Bitmap, name string, tracksOf func(uint32) *roaring.Bitmap) []pdb.TrackID {
	ids := byName[strings.ToLower(name)]
	if ids == nil {
		return nil
	}
	result := roaring.New()
	it := ids.Iterator()
	for it.HasNext() {
		if bm := tracksOf(it.Next()); bm != nil {
			result.Or(bm)
		}
	}
	return trackIDs(result)
}

// FindTracksByBPMRange returns every track whose tempo falls inside
// [minBPM, maxBPM] inclusive, in ascending id order.
func (s *Snapshot) FindTracksByBPMRange(minBPM, maxBPM float64) []pdb.TrackID {
	var out []pdb.TrackID
	it := s.allTracks.Iterator()
	for it.HasNext() {
		id := pdb.TrackID(it.Next())
		bpm := float64(s.tracks[id].Tempo) / 100
		if bpm >= minBPM && bpm <= maxBPM {
			out = append(out, id)
		}
	}
	return out
}

// FindArtistsByName, FindAlbumsByName and AlbumsByArtist expose the
// remaining secondary indices directly.

func (s *Snapshot) FindArtistsByName(name string) []pdb.ArtistID {
	bm := s.artistByName[strings.ToLower(name)]
	if bm == nil {
		return nil
	}
	out := make([]pdb.ArtistID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, pdb.ArtistID(it.Next()))
	}
	return out
}

func (s *Snapshot) FindAlbumsByName(name string) []pdb.AlbumID {
	bm := s.albumByName[strings.ToLower(name)]
	if bm == nil {
		return nil
	}
	out := make([]pdb.AlbumID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, pdb.AlbumID(it.Next()))
	}
	return out
}

func (s *Snapshot) AlbumsByArtist(id pdb.ArtistID) []pdb.AlbumID {
	bm := s.albumsByArtist[id]
	if bm == nil {
		return nil
	}
	out := make([]pdb.AlbumID, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, pdb.AlbumID(it.Next()))
	}
	return out
}

// AllTrackIDs returns every track id in ascending order.
func (s *Snapshot) AllTrackIDs() []pdb.TrackID {
	return trackIDs(s.allTracks)
}

// AllArtistIDs returns every artist id in ascending order.
func (s *Snapshot) AllArtistIDs() []pdb.ArtistID {
	out := make([]pdb.ArtistID, 0, len(s.artists))
	for id := range s.artists {
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// AllAlbumIDs returns every album id in ascending order.
func (s *Snapshot) AllAlbumIDs() []pdb.AlbumID {
	out := make([]pdb.AlbumID, 0, len(s.albums))
	for id := range s.albums {
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// AllGenreIDs returns every genre id in ascending order.
func (s *Snapshot) AllGenreIDs() []pdb.GenreID {
	out := make([]pdb.GenreID, 0, len(s.genres))
	for id := range s.genres {
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// AllPlaylistIDs returns every playlist-tree node id in ascending order,
// folders included.
func (s *Snapshot) AllPlaylistIDs() []pdb.PlaylistID {
	out := make([]pdb.PlaylistID, 0, len(s.playlistNodes))
	for id := range s.playlistNodes {
		out = append(out, id)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// Counts.

func (s *Snapshot) TrackCount() int    { return len(s.tracks) }
func (s *Snapshot) ArtistCount() int   { return len(s.artists) }
func (s *Snapshot) AlbumCount() int    { return len(s.albums) }
func (s *Snapshot) GenreCount() int    { return len(s.genres) }
func (s *Snapshot) LabelCount() int    { return len(s.labels) }
func (s *Snapshot) KeyCount() int      { return len(s.keys) }
func (s *Snapshot) ColorCount() int    { return len(s.colors) }
func (s *Snapshot) ArtworkCount() int  { return len(s.artworks) }
func (s *Snapshot) PlaylistCount() int { return len(s.playlistNodes) }
func (s *Snapshot) HistoryCount() int  { return len(s.historyLists) }

// Bulk column extraction, always in ascending track id order so repeated
// calls line up element-for-element.

func (s *Snapshot) AllBPMs() []float64 {
	out := make([]float64, 0, len(s.tracks))
	it := s.allTracks.Iterator()
	for it.HasNext() {
		out = append(out, float64(s.tracks[pdb.TrackID(it.Next())].Tempo)/100)
	}
	return out
}

func (s *Snapshot) AllDurations() []uint32 {
	out := make([]uint32, 0, len(s.tracks))
	it := s.allTracks.Iterator()
	for it.HasNext() {
		out = append(out, s.tracks[pdb.TrackID(it.Next())].Duration)
	}
	return out
}

func (s *Snapshot) AllYears() []uint16 {
	out := make([]uint16, 0, len(s.tracks))
	it := s.allTracks.Iterator()
	for it.HasNext() {
		out = append(out, s.tracks[pdb.TrackID(it.Next())].Year)
	}
	return out
}

func (s *Snapshot) AllRatings() []uint16 {
	out := make([]uint16, 0, len(s.tracks))
	it := s.allTracks.Iterator()
	for it.HasNext() {
		out = append(out, s.tracks[pdb.TrackID(it.Next())].Rating)
	}
	return out
}

func (s *Snapshot) AllBitrates() []uint32 {
	out := make([]uint32, 0, len(s.tracks))
	it := s.allTracks.Iterator()
	for it.HasNext() {
		out = append(out, s.tracks[pdb.TrackID(it.Next())].Bitrate)
	}
	return out
}

func (s *Snapshot) AllSampleRates() []uint32 {
	out := make([]uint32, 0, len(s.tracks))
	it := s.allTracks.Iterator()
	for it.HasNext() {
		out = append(out, s.tracks[pdb.TrackID(it.Next())].SampleRate)
	}
	return out
}

// Playlist tree accessors.

func (s *Snapshot) GetPlaylistNode(id pdb.PlaylistID) (pdb.PlaylistTreeNode, bool) {
	node, ok := s.playlistNodes[id]
	return node, ok
}

// FolderChildren returns the child playlists and folders of a folder in
// sort order. Root-level nodes live under parent id 0. Gaps left by sparse
// sort orders stay as zero ids.
func (s *Snapshot) FolderChildren(parent pdb.PlaylistID) []pdb.PlaylistID {
	return s.folderChildren[parent]
}

// PlaylistTrackIDs returns a playlist's tracks in entry order. Gaps left by
// sparse entry indices stay as zero ids.
func (s *Snapshot) PlaylistTrackIDs(id pdb.PlaylistID) []pdb.TrackID {
	return s.playlistTracks[id]
}

// History accessors, mirroring the playlist shape.

func (s *Snapshot) HistoryPlaylists() []pdb.HistoryPlaylistRow {
	out := make([]pdb.HistoryPlaylistRow, 0, len(s.historyLists))
	for _, row := range s.historyLists {
		out = append(out, row)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

func (s *Snapshot) HistoryTrackIDs(id pdb.PlaylistID) []pdb.TrackID {
	return s.historyTracks[id]
}

// CuePointsForTrack joins a track to its merged analysis via the file path
// stored in the container row.
func (s *Snapshot) CuePointsForTrack(m *anlz.Manager, id pdb.TrackID) []anlz.CuePoint {
	if m == nil {
		return nil
	}
	track, ok := s.tracks[id]
	if !ok || track.FilePath == "" {
		return nil
	}
	return m.CuePoints(track.FilePath)
}
