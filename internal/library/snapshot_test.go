package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedex/cratedex/internal/pdb"
	"github.com/cratedex/cratedex/internal/pdbtest"
)

func buildLibrary(t *testing.T) *Snapshot {
	t.Helper()
	path := pdbtest.New().
		AddTable(uint32(pdb.TableTracks),
			pdbtest.TrackRow(pdbtest.TrackSpec{
				ID: 1, ArtistID: 10, AlbumID: 20, GenreID: 30,
				Tempo: 12800, Duration: 300, Year: 2018, Rating: 5,
				Title: "Deep End", FilePath: "/Contents/deep.mp3",
			}),
			pdbtest.TrackRow(pdbtest.TrackSpec{
				ID: 2, ArtistID: 11, RemixerID: 10, AlbumID: 20, GenreID: 31,
				Tempo: 17450, Duration: 250, Year: 2021, Rating: 3,
				Title: "Night Drive", FilePath: "/Contents/night.mp3",
			}),
			pdbtest.TrackRow(pdbtest.TrackSpec{
				ID: 3, ArtistID: 10, GenreID: 30,
				Tempo: 12000, Duration: 420, Year: 2018,
				Title: "deep end", FilePath: "/Contents/deep2.mp3",
			}),
		).
		AddTable(uint32(pdb.TableArtists),
			pdbtest.ArtistRow(10, "Nina"),
			pdbtest.ArtistRow(11, "Jeff"),
		).
		AddTable(uint32(pdb.TableAlbums),
			pdbtest.AlbumRow(20, 10, "Voyager"),
		).
		AddTable(uint32(pdb.TableGenres),
			pdbtest.GenreRow(30, "House"),
			pdbtest.GenreRow(31, "Techno"),
		).
		AddTable(uint32(pdb.TablePlaylistTree),
			pdbtest.PlaylistTreeRow(100, 0, 0, true, "Sets"),
			pdbtest.PlaylistTreeRow(101, 100, 0, false, "Warmup"),
		).
		AddTable(uint32(pdb.TablePlaylistEntries),
			pdbtest.PlaylistEntryRow(2, 1, 101),
			pdbtest.PlaylistEntryRow(0, 2, 101),
		).
		AddTable(uint32(pdb.TableHistoryPlaylists),
			pdbtest.HistoryPlaylistRow(200, "HISTORY 001"),
		).
		AddTable(uint32(pdb.TableHistoryEntries),
			pdbtest.HistoryEntryRow(2, 200, 0),
		).
		WriteFile(t)

	s, err := Open(path, nil)
	require.NoError(t, err)
	return s
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.pdb"), nil)
	assert.ErrorIs(t, err, pdb.ErrFileNotFound)
}

func TestPrimaryLookups(t *testing.T) {
	s := buildLibrary(t)

	track, ok := s.GetTrack(1)
	require.True(t, ok)
	assert.Equal(t, "Deep End", track.Title)

	artist, ok := s.GetArtist(10)
	require.True(t, ok)
	assert.Equal(t, "Nina", artist.Name)

	_, ok = s.GetTrack(99)
	assert.False(t, ok)

	assert.Equal(t, 3, s.TrackCount())
	assert.Equal(t, 2, s.ArtistCount())
	assert.Equal(t, 1, s.AlbumCount())
	assert.Equal(t, 2, s.GenreCount())
	assert.Equal(t, 2, s.PlaylistCount())
	assert.Equal(t, 1, s.HistoryCount())
}

func TestFindTracksByTitleIsCaseInsensitive(t *testing.T) {
	s := buildLibrary(t)

	ids := s.FindTracksByTitle("DEEP END")
	assert.Equal(t, []pdb.TrackID{1, 3}, ids)
	assert.Empty(t, s.FindTracksByTitle("unknown"))
}

func TestFindTracksByArtistIncludesAllCredits(t *testing.T) {
	s := buildLibrary(t)

	// Nina is the artist on 1 and 3 and the remixer on 2.
	assert.Equal(t, []pdb.TrackID{1, 2, 3}, s.FindTracksByArtist("nina"))
	assert.Equal(t, []pdb.TrackID{2}, s.FindTracksByArtist("Jeff"))
	assert.Empty(t, s.FindTracksByArtist("nobody"))
}

func TestFindTracksByAlbumAndGenre(t *testing.T) {
	s := buildLibrary(t)

	assert.Equal(t, []pdb.TrackID{1, 2}, s.FindTracksByAlbum("voyager"))
	assert.Equal(t, []pdb.TrackID{1, 3}, s.FindTracksByGenre("House"))
	assert.Equal(t, []pdb.TrackID{2}, s.FindTracksByGenre("techno"))
}

func TestFindTracksByBPMRangeInclusiveBounds(t *testing.T) {
	s := buildLibrary(t)

	// Tempos are 128.00, 174.50, 120.00.
	assert.Equal(t, []pdb.TrackID{1, 3}, s.FindTracksByBPMRange(120, 128))
	assert.Equal(t, []pdb.TrackID{1}, s.FindTracksByBPMRange(128, 128))
	assert.Equal(t, []pdb.TrackID{1, 2, 3}, s.FindTracksByBPMRange(0, 999))
	assert.Empty(t, s.FindTracksByBPMRange(180, 200))
}

func TestLastWriteWinsOnDuplicateID(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(pdb.TableTracks),
			pdbtest.TrackRow(pdbtest.TrackSpec{ID: 5, Title: "First"}),
			pdbtest.TrackRow(pdbtest.TrackSpec{ID: 5, Title: "Second"}),
		).
		WriteFile(t)

	s, err := Open(path, nil)
	require.NoError(t, err)

	track, ok := s.GetTrack(5)
	require.True(t, ok)
	assert.Equal(t, "Second", track.Title)
	assert.Equal(t, 1, s.TrackCount())
}

func TestPlaylistOrdinalGrowth(t *testing.T) {
	s := buildLibrary(t)

	// Entries arrived out of order at positions 2 and 0; position 1 stays a
	// zero id.
	tracks := s.PlaylistTrackIDs(101)
	assert.Equal(t, []pdb.TrackID{2, 0, 1}, tracks)

	children := s.FolderChildren(100)
	require.Len(t, children, 1)
	assert.Equal(t, pdb.PlaylistID(101), children[0])

	node, ok := s.GetPlaylistNode(100)
	require.True(t, ok)
	assert.True(t, node.IsFolder)
}

func TestHistoryMirrorsPlaylists(t *testing.T) {
	s := buildLibrary(t)

	lists := s.HistoryPlaylists()
	require.Len(t, lists, 1)
	assert.Equal(t, "HISTORY 001", lists[0].Name)
	assert.Equal(t, []pdb.TrackID{2}, s.HistoryTrackIDs(200))
}

func TestBulkExtraction(t *testing.T) {
	s := buildLibrary(t)

	assert.Equal(t, []float64{128.0, 174.5, 120.0}, s.AllBPMs())
	assert.Equal(t, []uint32{300, 250, 420}, s.AllDurations())
	assert.Equal(t, []uint16{2018, 2021, 2018}, s.AllYears())
	assert.Equal(t, []uint16{5, 3, 0}, s.AllRatings())
	assert.Equal(t, []pdb.TrackID{1, 2, 3}, s.AllTrackIDs())
}

func TestZeroForeignKeysExcluded(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(pdb.TableTracks),
			pdbtest.TrackRow(pdbtest.TrackSpec{ID: 1, Title: "Solo"}),
		).
		WriteFile(t)

	s, err := Open(path, nil)
	require.NoError(t, err)

	// ArtistID 0 must not produce an index entry.
	assert.Empty(t, s.FindTracksByArtist(""))
	assert.Equal(t, []pdb.TrackID{1}, s.FindTracksByTitle("Solo"))
}
