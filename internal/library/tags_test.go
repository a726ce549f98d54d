package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedex/cratedex/internal/pdb"
	"github.com/cratedex/cratedex/internal/pdbtest"
)

func buildTagLibrary(t *testing.T) *Snapshot {
	t.Helper()
	// Rows arrive in page order, deliberately not display order.
	path := pdbtest.New().
		AddTable(uint32(pdb.ExtTableTags),
			pdbtest.TagRow(102, 100, 2, false, "Closer"),
			pdbtest.TagRow(200, 0, 1, true, "Situation"),
			pdbtest.TagRow(100, 0, 0, true, "Energy"),
			pdbtest.TagRow(101, 100, 1, false, "Peak"),
			pdbtest.TagRow(201, 200, 0, false, "Sunset"),
		).
		AddTable(uint32(pdb.ExtTableTagTracks),
			pdbtest.TagTrackRow(101, 7),
			pdbtest.TagTrackRow(101, 3),
			pdbtest.TagTrackRow(201, 7),
			pdbtest.TagTrackRow(0, 9), // zero ids are dropped
			pdbtest.TagTrackRow(102, 0),
		).
		WriteFile(t)

	s, err := OpenExt(path, nil)
	require.NoError(t, err)
	return s
}

func TestTagCategoryOrdering(t *testing.T) {
	s := buildTagLibrary(t)
	assert.True(t, s.IsExt())

	// Categories sorted by position, not scan order.
	assert.Equal(t, []pdb.TagID{100, 200}, s.CategoryOrder())
	assert.Equal(t, []pdb.TagID{101, 102}, s.CategoryTags(100))
	assert.Equal(t, []pdb.TagID{201}, s.CategoryTags(200))
	assert.Empty(t, s.CategoryTags(999))
}

func TestTagLookups(t *testing.T) {
	s := buildTagLibrary(t)

	tag, ok := s.GetTag(101)
	require.True(t, ok)
	assert.Equal(t, "Peak", tag.Name)
	assert.False(t, tag.IsCategory)

	category, ok := s.GetTag(100)
	require.True(t, ok)
	assert.True(t, category.IsCategory)

	assert.Equal(t, 5, s.TagCount())
}

func TestTagTrackLinks(t *testing.T) {
	s := buildTagLibrary(t)

	assert.Equal(t, []pdb.TrackID{3, 7}, s.TracksWithTag(101))
	assert.Equal(t, []pdb.TagID{101, 201}, s.TagsForTrack(7))
	assert.Empty(t, s.TracksWithTag(102))
	assert.Empty(t, s.TagsForTrack(9))
}

func TestExtSnapshotHasNoStandardIndices(t *testing.T) {
	s := buildTagLibrary(t)

	assert.Zero(t, s.TrackCount())
	assert.Zero(t, s.ArtistCount())
	assert.Empty(t, s.AllTrackIDs())
}
