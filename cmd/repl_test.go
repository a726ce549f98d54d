package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratedex/cratedex/internal/library"
	"github.com/cratedex/cratedex/internal/pdb"
	"github.com/cratedex/cratedex/internal/pdbtest"
)

func replSnapshot(t *testing.T) *library.Snapshot {
	t.Helper()
	path := pdbtest.New().
		AddTable(uint32(pdb.TableTracks),
			pdbtest.TrackRow(pdbtest.TrackSpec{
				ID: 1, ArtistID: 10, Tempo: 12800, Duration: 300,
				Title: "Deep End", FilePath: "/Contents/deep.mp3",
			}),
			pdbtest.TrackRow(pdbtest.TrackSpec{
				ID: 2, ArtistID: 10, Tempo: 14000, Duration: 250,
				Title: "Night Drive",
			}),
		).
		AddTable(uint32(pdb.TableArtists), pdbtest.ArtistRow(10, "Nina")).
		WriteFile(t)

	s, err := library.Open(path, nil)
	require.NoError(t, err)
	return s
}

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &out))
	return out
}

func TestHandleCommand(t *testing.T) {
	s := replSnapshot(t)

	t.Run("get_track", func(t *testing.T) {
		line, keepGoing := handleCommand(s, `{"command":"get_track","id":1}`)
		assert.True(t, keepGoing)
		out := decodeLine(t, line)
		assert.Equal(t, "Deep End", out["title"])
		assert.Equal(t, 128.0, out["bpm"])
	})

	t.Run("get_track zero id", func(t *testing.T) {
		line, keepGoing := handleCommand(s, `{"command":"get_track","id":0}`)
		assert.True(t, keepGoing)
		assert.Contains(t, decodeLine(t, line), "error")
	})

	t.Run("get_track missing", func(t *testing.T) {
		line, keepGoing := handleCommand(s, `{"command":"get_track","id":99}`)
		assert.True(t, keepGoing)
		assert.Contains(t, decodeLine(t, line), "error")
	})

	t.Run("find_tracks_by_title", func(t *testing.T) {
		line, _ := handleCommand(s, `{"command":"find_tracks_by_title","title":"deep end"}`)
		assert.JSONEq(t, `{"ids":[1]}`, line)
	})

	t.Run("find_tracks_by_artist", func(t *testing.T) {
		line, _ := handleCommand(s, `{"command":"find_tracks_by_artist","artist":"Nina"}`)
		assert.JSONEq(t, `{"ids":[1,2]}`, line)
	})

	t.Run("find_tracks_by_bpm_range", func(t *testing.T) {
		line, _ := handleCommand(s, `{"command":"find_tracks_by_bpm_range","min":120,"max":130}`)
		assert.JSONEq(t, `{"ids":[1]}`, line)

		line, _ = handleCommand(s, `{"command":"find_tracks_by_bpm_range","min":140,"max":120}`)
		assert.Contains(t, decodeLine(t, line), "error")
	})

	t.Run("counts", func(t *testing.T) {
		line, _ := handleCommand(s, `{"command":"track_count"}`)
		assert.JSONEq(t, `{"count":2}`, line)

		line, _ = handleCommand(s, `{"command":"artist_count"}`)
		assert.JSONEq(t, `{"count":1}`, line)
	})

	t.Run("all_track_ids", func(t *testing.T) {
		line, _ := handleCommand(s, `{"command":"all_track_ids"}`)
		assert.JSONEq(t, `{"ids":[1,2]}`, line)
	})

	t.Run("describe_api", func(t *testing.T) {
		line, _ := handleCommand(s, `{"command":"describe_api"}`)
		out := decodeLine(t, line)
		assert.Equal(t, "cratedex", out["name"])
	})

	t.Run("unknown command", func(t *testing.T) {
		line, keepGoing := handleCommand(s, `{"command":"frobnicate"}`)
		assert.True(t, keepGoing)
		assert.Contains(t, decodeLine(t, line), "error")
	})

	t.Run("malformed json", func(t *testing.T) {
		line, keepGoing := handleCommand(s, `{not json`)
		assert.True(t, keepGoing)
		assert.Contains(t, decodeLine(t, line), "error")
	})

	t.Run("exit ends the session", func(t *testing.T) {
		_, keepGoing := handleCommand(s, `{"command":"exit"}`)
		assert.False(t, keepGoing)
	})
}
