package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cratedex/cratedex/internal/anlz"
	"github.com/cratedex/cratedex/internal/export"
	"github.com/cratedex/cratedex/internal/library"
)

var exportAnalysisDir string

var exportCmd = &cobra.Command{
	Use:   "export [export.pdb] [output.db]",
	Short: "Dump a database export into a fresh SQLite file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		start := time.Now()

		s, err := library.Open(args[0], log)
		if err != nil {
			return err
		}

		var m *anlz.Manager
		if exportAnalysisDir != "" {
			m = anlz.NewManager(log)
			m.ScanDirectory(exportAnalysisDir)
		}

		if err := export.WriteSnapshot(args[1], s, m, log); err != nil {
			return err
		}
		fmt.Printf("exported %d tracks in %v\n", s.TrackCount(), time.Since(start))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportAnalysisDir, "analysis", "a", "", "Also scan this analysis directory and export cue points")
	rootCmd.AddCommand(exportCmd)
}
