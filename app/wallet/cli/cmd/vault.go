package cmd

import (
	"fmt"

	"github.com/scrollsoul/qfs/business/core/vault"
	"github.com/spf13/cobra"
)

var masterKey string

// vaultCmd groups the local encryption commands. These run entirely on the
// client, nothing is sent to the node.
var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Encrypt and decrypt data locally",
	Long:  `Encrypt and decrypt data with the layered vault scheme using a local master key.`,
}

// encryptCmd represents the vault encrypt command.
var encryptCmd = &cobra.Command{
	Use:   "encrypt [data]",
	Short: "Encrypt data with the master key",
	Args:  cobra.ExactArgs(1),
	RunE:  encryptRun,
}

// decryptCmd represents the vault decrypt command.
var decryptCmd = &cobra.Command{
	Use:   "decrypt [envelope]",
	Short: "Decrypt a vault envelope with the master key",
	Args:  cobra.ExactArgs(1),
	RunE:  decryptRun,
}

func init() {
	rootCmd.AddCommand(vaultCmd)
	vaultCmd.AddCommand(encryptCmd)
	vaultCmd.AddCommand(decryptCmd)
	vaultCmd.PersistentFlags().StringVarP(&masterKey, "key", "k", "", "master key for the vault")
	vaultCmd.MarkPersistentFlagRequired("key")
}

func encryptRun(cmd *cobra.Command, args []string) error {
	v, err := vault.New(masterKey)
	if err != nil {
		return fmt.Errorf("unable to construct vault: %w", err)
	}

	fmt.Println(v.Encrypt(args[0]))
	return nil
}

func decryptRun(cmd *cobra.Command, args []string) error {
	v, err := vault.New(masterKey)
	if err != nil {
		return fmt.Errorf("unable to construct vault: %w", err)
	}

	plaintext, ok := v.Decrypt(args[0])
	if !ok {
		return fmt.Errorf("envelope failed verification")
	}

	fmt.Println(plaintext)
	return nil
}
