package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var miner string

// mineCmd represents the mine command.
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the pool into a new block",
	Long:  `Ask the node to commit the pool of uncommitted transactions into a new mined block.`,
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVarP(&miner, "account", "a", "", "account to credit the mining reward to")
}

func mineRun(cmd *cobra.Command, args []string) error {
	req := client().R()
	if miner != "" {
		req.SetQueryParam("account", miner)
	}

	resp, err := req.Post("/mine")
	if err != nil {
		return fmt.Errorf("unable to mine block: %w", err)
	}

	return display(resp)
}
