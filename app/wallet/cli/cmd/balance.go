package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var account string

// balanceCmd represents the balance command.
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Query the balance of an account",
	Long:  `Query the balance of an account as computed over every mined block.`,
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&account, "account", "a", "", "account to query")
	balanceCmd.MarkFlagRequired("account")
}

func balanceRun(cmd *cobra.Command, args []string) error {
	resp, err := client().R().Get("/balance/" + account)
	if err != nil {
		return fmt.Errorf("unable to query balance: %w", err)
	}

	return display(resp)
}
