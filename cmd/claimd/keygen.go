package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/kumandra/claimd/pkg/identity"
)

var keygenOut string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new secp256k1 key pair",
	Long: `Generate a new secp256k1 key pair for signing the challenge message.

The private key is written as hex (mode 0600). The derived address is
printed; it is the identity the server will recover from this key's
signatures.`,
	Example: `  # Generate a key and save it
  claimd keygen --out agent.key`,
	RunE: func(_ *cobra.Command, _ []string) error {
		key, err := crypto.GenerateKey()
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}

		keyHex := fmt.Sprintf("%x", crypto.FromECDSA(key))
		address, err := identity.AddressOf(keyHex)
		if err != nil {
			return fmt.Errorf("derive address: %w", err)
		}

		if keygenOut != "" {
			if err := os.WriteFile(keygenOut, []byte(keyHex+"\n"), 0600); err != nil {
				return fmt.Errorf("write private key: %w", err)
			}
			fmt.Printf("Private key saved to %s\n", keygenOut)
		} else {
			fmt.Printf("Private key: %s\n", keyHex)
		}
		fmt.Printf("Address: %s\n", address)
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(&keygenOut, "out", "", "write the private key to this file instead of stdout")
	rootCmd.AddCommand(keygenCmd)
}
