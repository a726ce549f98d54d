package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cratedex/cratedex/internal/library"
)

var infoExt bool

var infoCmd = &cobra.Command{
	Use:   "info [export.pdb]",
	Short: "Open a database export and print its entity counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		if infoExt {
			s, err := library.OpenExt(args[0], log)
			if err != nil {
				return err
			}
			fmt.Printf("tags:       %d\n", s.TagCount())
			fmt.Printf("categories: %d\n", len(s.CategoryOrder()))
			return nil
		}

		s, err := library.Open(args[0], log)
		if err != nil {
			return err
		}
		fmt.Printf("tracks:    %d\n", s.TrackCount())
		fmt.Printf("artists:   %d\n", s.ArtistCount())
		fmt.Printf("albums:    %d\n", s.AlbumCount())
		fmt.Printf("genres:    %d\n", s.GenreCount())
		fmt.Printf("labels:    %d\n", s.LabelCount())
		fmt.Printf("keys:      %d\n", s.KeyCount())
		fmt.Printf("colors:    %d\n", s.ColorCount())
		fmt.Printf("artwork:   %d\n", s.ArtworkCount())
		fmt.Printf("playlists: %d\n", s.PlaylistCount())
		fmt.Printf("history:   %d\n", s.HistoryCount())
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoExt, "ext", false, "Treat the file as an extension (exportExt) container")
	rootCmd.AddCommand(infoCmd)
}
