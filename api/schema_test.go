package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	schema := Describe()
	assert.Equal(t, "cratedex", schema.Name)
	require.NotEmpty(t, schema.Commands)

	names := make(map[string]Command, len(schema.Commands))
	for _, c := range schema.Commands {
		names[c.Name] = c
	}

	for _, want := range []string{
		"describe_api", "get_track", "find_tracks_by_title",
		"find_tracks_by_bpm_range", "all_track_ids", "track_count", "exit",
	} {
		assert.Contains(t, names, want)
	}

	bpm := names["find_tracks_by_bpm_range"]
	require.Len(t, bpm.Params, 2)
	require.NotNil(t, bpm.Params[0].Min)
	assert.Equal(t, 20.0, *bpm.Params[0].Min)
	require.NotNil(t, bpm.Params[0].Max)
	assert.Equal(t, 300.0, *bpm.Params[0].Max)
}

func TestDescribeSerializesToJSON(t *testing.T) {
	out, err := json.Marshal(Describe())
	require.NoError(t, err)

	var back Schema
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, Describe(), back)
}
