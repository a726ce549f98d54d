package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cratedex/cratedex/api"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the line-protocol command schema as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := json.MarshalIndent(api.Describe(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
