// Package api describes the command surface of a library snapshot in a
// machine-readable form, so external tooling can discover the available
// operations, their parameters and value ranges without parsing Go.
package api

// Schema is the root of the self-description document.
type Schema struct {
	// Name of the service exposing the commands.
	Name string `json:"name"`
	// Version of the schema document format.
	Version string `json:"version"`
	// Commands available over the line protocol.
	Commands []Command `json:"commands"`
}

// Command is one operation of the line protocol.
type Command struct {
	// Name used in the "command" field of a request line.
	Name string `json:"name"`
	// Description of what the command returns.
	Description string `json:"description"`
	// Params accepted by the command, empty for parameterless commands.
	Params []Param `json:"params,omitempty"`
}

// Param describes one command parameter.
type Param struct {
	Name string `json:"name"`
	// Type is one of "int", "float", "string".
	Type string `json:"type"`
	// Required parameters must be present in the request line.
	Required bool `json:"required"`
	// Min and Max bound numeric parameters when non-nil.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func bound(v float64) *float64 { return &v }

// Describe returns the full command set of the line protocol.
func Describe() Schema {
	return Schema{
		Name:    "cratedex",
		Version: "1",
		Commands: []Command{
			{
				Name:        "describe_api",
				Description: "Return this schema document.",
			},
			{
				Name:        "get_track",
				Description: "Return the full track row for one id.",
				Params: []Param{
					{Name: "id", Type: "int", Required: true, Min: bound(1)},
				},
			},
			{
				Name:        "find_tracks_by_title",
				Description: "Return the ids of tracks whose title matches exactly, case-insensitively.",
				Params: []Param{
					{Name: "title", Type: "string", Required: true},
				},
			},
			{
				Name:        "find_tracks_by_artist",
				Description: "Return the ids of tracks credited to a matching artist name.",
				Params: []Param{
					{Name: "artist", Type: "string", Required: true},
				},
			},
			{
				Name:        "find_tracks_by_bpm_range",
				Description: "Return the ids of tracks whose BPM falls inside the inclusive range.",
				Params: []Param{
					{Name: "min", Type: "float", Required: true, Min: bound(20), Max: bound(300)},
					{Name: "max", Type: "float", Required: true, Min: bound(20), Max: bound(300)},
				},
			},
			{
				Name:        "all_track_ids",
				Description: "Return every track id in ascending order.",
			},
			{
				Name:        "track_count",
				Description: "Return the number of tracks.",
			},
			{
				Name:        "artist_count",
				Description: "Return the number of artists.",
			},
			{
				Name:        "album_count",
				Description: "Return the number of albums.",
			},
			{
				Name:        "genre_count",
				Description: "Return the number of genres.",
			},
			{
				Name:        "playlist_count",
				Description: "Return the number of playlists and folders.",
			},
			{
				Name:        "exit",
				Description: "Close the session.",
			},
		},
	}
}
