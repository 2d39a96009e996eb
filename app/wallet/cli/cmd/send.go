package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	from   string
	to     string
	amount float64
	txType string
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the pool",
	Long:  `Submit a transaction to the node's pool of uncommitted transactions.`,
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&from, "from", "f", "", "account the money comes from")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "account the money goes to")
	sendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "amount of money to send")
	sendCmd.Flags().StringVar(&txType, "type", "transfer", "transaction type")
	sendCmd.MarkFlagRequired("from")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	body := struct {
		From   string  `json:"from"`
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
		Type   string  `json:"type"`
	}{
		From:   from,
		To:     to,
		Amount: amount,
		Type:   txType,
	}

	resp, err := client().R().SetBody(body).Post("/tx")
	if err != nil {
		return fmt.Errorf("unable to submit transaction: %w", err)
	}

	return display(resp)
}
