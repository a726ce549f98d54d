package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cratedex/cratedex/api"
	"github.com/cratedex/cratedex/internal/library"
	"github.com/cratedex/cratedex/internal/pdb"
)

var replCmd = &cobra.Command{
	Use:   "repl [export.pdb]",
	Short: "Serve the JSON line protocol over stdin/stdout",
	Long: `Reads one JSON object per line from stdin and writes one JSON
response per line to stdout. See "cratedex schema" for the command set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := library.Open(args[0], newLogger())
		if err != nil {
			return err
		}

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			response, keepGoing := handleCommand(s, line)
			fmt.Println(response)
			if !keepGoing {
				break
			}
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

type replRequest struct {
	Command string  `json:"command"`
	ID      uint32  `json:"id"`
	Title   string  `json:"title"`
	Artist  string  `json:"artist"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

type trackResponse struct {
	ID         uint32  `json:"id"`
	Title      string  `json:"title"`
	ArtistID   uint32  `json:"artist_id"`
	AlbumID    uint32  `json:"album_id"`
	GenreID    uint32  `json:"genre_id"`
	BPM        float64 `json:"bpm"`
	Duration   uint32  `json:"duration_s"`
	Rating     uint16  `json:"rating"`
	Year       uint16  `json:"year"`
	Bitrate    uint32  `json:"bitrate"`
	SampleRate uint32  `json:"sample_rate"`
	PlayCount  uint16  `json:"play_count"`
	Filename   string  `json:"filename"`
	FilePath   string  `json:"file_path"`
}

func jsonLine(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return `{"error":"response encoding failed"}`
	}
	return string(out)
}

func errLine(format string, args ...any) string {
	return jsonLine(map[string]string{"error": fmt.Sprintf(format, args...)})
}

func idList(ids []pdb.TrackID) []uint32 {
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		out = append(out, uint32(id))
	}
	return out
}

// handleCommand executes one protocol line against a snapshot. The bool is
// false when the session should end. Kept free of I/O so it can be tested
// without a process.
func handleCommand(s *library.Snapshot, line string) (string, bool) {
	var req replRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return errLine("bad request: %v", err), true
	}

	switch req.Command {
	case "describe_api":
		return jsonLine(api.Describe()), true

	case "get_track":
		if err := library.CheckTrackID(pdb.TrackID(req.ID)); err != nil {
			return errLine("get_track: %v", err), true
		}
		track, ok := s.GetTrack(pdb.TrackID(req.ID))
		if !ok {
			return errLine("track %d not found", req.ID), true
		}
		return jsonLine(trackResponse{
			ID:         uint32(track.ID),
			Title:      track.Title,
			ArtistID:   uint32(track.ArtistID),
			AlbumID:    uint32(track.AlbumID),
			GenreID:    uint32(track.GenreID),
			BPM:        float64(track.Tempo) / 100,
			Duration:   track.Duration,
			Rating:     track.Rating,
			Year:       track.Year,
			Bitrate:    track.Bitrate,
			SampleRate: track.SampleRate,
			PlayCount:  track.PlayCount,
			Filename:   track.Filename,
			FilePath:   track.FilePath,
		}), true

	case "find_tracks_by_title":
		if req.Title == "" {
			return errLine("find_tracks_by_title requires a title"), true
		}
		return jsonLine(map[string][]uint32{"ids": idList(s.FindTracksByTitle(req.Title))}), true

	case "find_tracks_by_artist":
		if req.Artist == "" {
			return errLine("find_tracks_by_artist requires an artist"), true
		}
		return jsonLine(map[string][]uint32{"ids": idList(s.FindTracksByArtist(req.Artist))}), true

	case "find_tracks_by_bpm_range":
		if err := library.CheckBPMRange(req.Min, req.Max); err != nil {
			return errLine("find_tracks_by_bpm_range: %v", err), true
		}
		ids := s.FindTracksByBPMRange(library.ClampBPM(req.Min), library.ClampBPM(req.Max))
		return jsonLine(map[string][]uint32{"ids": idList(ids)}), true

	case "all_track_ids":
		return jsonLine(map[string][]uint32{"ids": idList(s.AllTrackIDs())}), true

	case "track_count":
		return jsonLine(map[string]int{"count": s.TrackCount()}), true
	case "artist_count":
		return jsonLine(map[string]int{"count": s.ArtistCount()}), true
	case "album_count":
		return jsonLine(map[string]int{"count": s.AlbumCount()}), true
	case "genre_count":
		return jsonLine(map[string]int{"count": s.GenreCount()}), true
	case "playlist_count":
		return jsonLine(map[string]int{"count": s.PlaylistCount()}), true

	case "exit", "quit":
		return jsonLine(map[string]string{"status": "bye"}), false

	default:
		return errLine("unknown command: %s", req.Command), true
	}
}
