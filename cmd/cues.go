package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cratedex/cratedex/internal/anlz"
)

var cuesFilter string

var cuesCmd = &cobra.Command{
	Use:   "cues [analysis-dir]",
	Short: "Scan a directory of analysis files and print merged cue points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := anlz.NewManager(newLogger())
		loaded := m.ScanDirectory(args[0])
		fmt.Printf("loaded %d analysis files, %d tracks\n", loaded, m.TrackCount())

		keys := m.Keys()
		if cuesFilter != "" {
			key, ta := m.FindByFilename(cuesFilter)
			if ta == nil {
				return fmt.Errorf("no track matching %q", cuesFilter)
			}
			keys = []string{key}
		}

		for _, key := range keys {
			cues := m.CuePoints(key)
			if len(cues) == 0 {
				continue
			}
			fmt.Printf("%s\n", key)
			for _, cue := range cues {
				label := "memory"
				if cue.HotCue > 0 {
					label = fmt.Sprintf("hot %d", cue.HotCue)
				}
				fmt.Printf("  %8dms  %-8s %s", cue.Time, cue.Type, label)
				if cue.Comment != "" {
					fmt.Printf("  %q", cue.Comment)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	cuesCmd.Flags().StringVarP(&cuesFilter, "filename", "f", "", "Only print tracks whose key contains this substring")
	rootCmd.AddCommand(cuesCmd)
}
