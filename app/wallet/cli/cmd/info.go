package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showBlocks bool

// infoCmd represents the info command.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show chain information",
	Long:  `Show chain length, validity and the latest block, or the full chain with --blocks.`,
	RunE:  infoRun,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().BoolVarP(&showBlocks, "blocks", "b", false, "show every block in the chain")
}

func infoRun(cmd *cobra.Command, args []string) error {
	path := "/info"
	if showBlocks {
		path = "/blocks"
	}

	resp, err := client().R().Get(path)
	if err != nil {
		return fmt.Errorf("unable to query node: %w", err)
	}

	return display(resp)
}
