// Package cmd implements the wallet command line tooling for talking to a
// running node.
package cmd

import (
	"fmt"
	"os"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
)

var url string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Client tooling for the treasury node",
	Long:  `Submit transactions, mine blocks and query balances against a running treasury node.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "url of the node to talk to")
}

// client constructs a resty client bound to the node's v1 api.
func client() *resty.Client {
	return resty.New().SetBaseURL(url + "/v1")
}

// display pretty prints the raw JSON body returned by the node.
func display(resp *resty.Response) error {
	if resp.IsError() {
		return fmt.Errorf("node returned %s: %s", resp.Status(), resp.String())
	}

	fmt.Println(resp.String())
	return nil
}
