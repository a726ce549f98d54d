package pdb

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedex/cratedex/internal/pdbtest"
)

func writeBytes(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.pdb")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "absent.pdb"), nil)
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("undersized header", func(t *testing.T) {
		_, err := Open(writeBytes(t, make([]byte, 10)), nil)
		assert.ErrorIs(t, err, ErrInvalidFileFormat)
	})

	t.Run("zero page size", func(t *testing.T) {
		data := make([]byte, 64)
		_, err := Open(writeBytes(t, data), nil)
		assert.ErrorIs(t, err, ErrInvalidFileFormat)
	})

	t.Run("oversized page size", func(t *testing.T) {
		data := make([]byte, 64)
		binary.LittleEndian.PutUint32(data[4:], 1<<20)
		_, err := Open(writeBytes(t, data), nil)
		assert.ErrorIs(t, err, ErrInvalidFileFormat)
	})

	t.Run("table directory past end of file", func(t *testing.T) {
		data := make([]byte, 32)
		binary.LittleEndian.PutUint32(data[4:], 4096)
		binary.LittleEndian.PutUint32(data[8:], 3)
		_, err := Open(writeBytes(t, data), nil)
		assert.ErrorIs(t, err, ErrCorruptedData)
	})
}

func TestOpenAndScan(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(TableArtists),
			pdbtest.ArtistRow(1, "Nina"),
			pdbtest.ArtistRow(2, "Jeff"),
		).
		WriteFile(t)

	f, err := Open(path, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(pdbtest.PageSize), f.PageSize())
	assert.Equal(t, uint32(1), f.TableCount())
	assert.False(t, f.IsExt())

	var names []string
	f.ScanTable(TableArtists, func(off int) {
		row, ok := f.DecodeArtistRow(off)
		require.True(t, ok)
		names = append(names, row.Name)
	})
	assert.Equal(t, []string{"Nina", "Jeff"}, names)
}

func TestScanAbsentTable(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(TableArtists), pdbtest.ArtistRow(1, "Nina")).
		WriteFile(t)

	f, err := Open(path, nil)
	require.NoError(t, err)

	calls := 0
	f.ScanTable(TableGenres, func(int) { calls++ })
	assert.Zero(t, calls)
}

func TestReadPageOutOfRange(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(TableArtists), pdbtest.ArtistRow(1, "Nina")).
		WriteFile(t)

	f, err := Open(path, nil)
	require.NoError(t, err)

	_, err = f.ReadPage(99)
	assert.ErrorIs(t, err, ErrCorruptedData)
}

func TestDecodeTrackRow(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(TableTracks), pdbtest.TrackRow(pdbtest.TrackSpec{
			ID:               7,
			ArtistID:         3,
			ComposerID:       4,
			OriginalArtistID: 5,
			RemixerID:        6,
			AlbumID:          8,
			GenreID:          9,
			KeyID:            2,
			Tempo:            12800,
			Bitrate:          320,
			SampleRate:       44100,
			Year:             2019,
			Duration:         361,
			PlayCount:        12,
			Rating:           4,
			Title:            "Deep End",
			Filename:         "deep.mp3",
			FilePath:         "/Contents/deep.mp3",
			Comment:          "opener",
		})).
		WriteFile(t)

	f, err := Open(path, nil)
	require.NoError(t, err)

	var rows []TrackRow
	f.ScanTable(TableTracks, func(off int) {
		row, ok := f.DecodeTrackRow(off)
		require.True(t, ok)
		rows = append(rows, row)
	})
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, TrackID(7), row.ID)
	assert.Equal(t, ArtistID(3), row.ArtistID)
	assert.Equal(t, ArtistID(4), row.ComposerID)
	assert.Equal(t, ArtistID(5), row.OriginalArtistID)
	assert.Equal(t, ArtistID(6), row.RemixerID)
	assert.Equal(t, AlbumID(8), row.AlbumID)
	assert.Equal(t, GenreID(9), row.GenreID)
	assert.Equal(t, KeyID(2), row.KeyID)
	assert.Equal(t, uint32(12800), row.Tempo)
	assert.Equal(t, uint32(320), row.Bitrate)
	assert.Equal(t, uint32(44100), row.SampleRate)
	assert.Equal(t, uint16(2019), row.Year)
	assert.Equal(t, uint32(361), row.Duration)
	assert.Equal(t, uint16(12), row.PlayCount)
	assert.Equal(t, uint16(4), row.Rating)
	assert.Equal(t, "Deep End", row.Title)
	assert.Equal(t, "deep.mp3", row.Filename)
	assert.Equal(t, "/Contents/deep.mp3", row.FilePath)
	assert.Equal(t, "opener", row.Comment)
}

func TestDecodeArtistFarName(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(TableArtists), pdbtest.ArtistRowFar(9, "A Very Long Artist Name")).
		WriteFile(t)

	f, err := Open(path, nil)
	require.NoError(t, err)

	var rows []ArtistRow
	f.ScanTable(TableArtists, func(off int) {
		row, ok := f.DecodeArtistRow(off)
		require.True(t, ok)
		rows = append(rows, row)
	})
	require.Len(t, rows, 1)
	assert.Equal(t, ArtistID(9), rows[0].ID)
	assert.Equal(t, "A Very Long Artist Name", rows[0].Name)
}

func TestDecodeSupportingRows(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(TableAlbums), pdbtest.AlbumRow(4, 3, "Night Drive")).
		AddTable(uint32(TableGenres), pdbtest.GenreRow(2, "House")).
		AddTable(uint32(TableKeys), pdbtest.KeyRow(5, "8A")).
		AddTable(uint32(TableColors), pdbtest.ColorRow(3, "Pink")).
		AddTable(uint32(TablePlaylistTree), pdbtest.PlaylistTreeRow(10, 0, 0, false, "Warmup")).
		AddTable(uint32(TablePlaylistEntries), pdbtest.PlaylistEntryRow(1, 7, 10)).
		WriteFile(t)

	f, err := Open(path, nil)
	require.NoError(t, err)

	f.ScanTable(TableAlbums, func(off int) {
		row, ok := f.DecodeAlbumRow(off)
		require.True(t, ok)
		assert.Equal(t, AlbumID(4), row.ID)
		assert.Equal(t, ArtistID(3), row.ArtistID)
		assert.Equal(t, "Night Drive", row.Name)
	})
	f.ScanTable(TableGenres, func(off int) {
		row, ok := f.DecodeGenreRow(off)
		require.True(t, ok)
		assert.Equal(t, GenreID(2), row.ID)
		assert.Equal(t, "House", row.Name)
	})
	f.ScanTable(TableKeys, func(off int) {
		row, ok := f.DecodeKeyRow(off)
		require.True(t, ok)
		assert.Equal(t, KeyID(5), row.ID)
		assert.Equal(t, "8A", row.Name)
	})
	f.ScanTable(TableColors, func(off int) {
		row, ok := f.DecodeColorRow(off)
		require.True(t, ok)
		assert.Equal(t, ColorID(3), row.ID)
		assert.Equal(t, "Pink", row.Name)
	})
	f.ScanTable(TablePlaylistTree, func(off int) {
		row, ok := f.DecodePlaylistTreeNode(off)
		require.True(t, ok)
		assert.Equal(t, PlaylistID(10), row.ID)
		assert.False(t, row.IsFolder)
		assert.Equal(t, "Warmup", row.Name)
	})
	f.ScanTable(TablePlaylistEntries, func(off int) {
		row, ok := f.DecodePlaylistEntry(off)
		require.True(t, ok)
		assert.Equal(t, uint32(1), row.EntryIndex)
		assert.Equal(t, TrackID(7), row.TrackID)
		assert.Equal(t, PlaylistID(10), row.PlaylistID)
	})
}

func TestDecodeTagRows(t *testing.T) {
	path := pdbtest.New().
		AddTable(uint32(ExtTableTags),
			pdbtest.TagRow(100, 0, 0, true, "Energy"),
			pdbtest.TagRow(101, 100, 1, false, "Peak"),
		).
		AddTable(uint32(ExtTableTagTracks), pdbtest.TagTrackRow(101, 7)).
		WriteFile(t)

	f, err := OpenExt(path, nil)
	require.NoError(t, err)
	assert.True(t, f.IsExt())

	var tags []TagRow
	f.ScanTableExt(ExtTableTags, func(off int) {
		row, ok := f.DecodeTagRow(off)
		require.True(t, ok)
		tags = append(tags, row)
	})
	require.Len(t, tags, 2)
	assert.True(t, tags[0].IsCategory)
	assert.Equal(t, "Energy", tags[0].Name)
	assert.Equal(t, TagID(100), tags[1].CategoryID)
	assert.Equal(t, "Peak", tags[1].Name)

	f.ScanTableExt(ExtTableTagTracks, func(off int) {
		link, ok := f.DecodeTagTrackLink(off)
		require.True(t, ok)
		assert.Equal(t, TagID(101), link.TagID)
		assert.Equal(t, TrackID(7), link.TrackID)
	})
}
