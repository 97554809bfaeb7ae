package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kumandra/claimd/pkg/identity"
)

var (
	signKey     string
	signKeyFile string
	signSecret  string
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Mint a credential by signing the challenge message",
	Long: `Sign the challenge message with a private key and print the signature.

The output goes in the Authorization header of API requests. This is the
offline replacement for the /sign endpoint: the key never leaves this machine.

The challenge comes from --secret or CLAIMD_SECRET.`,
	Example: `  # Sign with a key from a file
  claimd sign --key-file agent.key

  # Sign with an inline hex key (avoid on shared machines; shell history)
  claimd sign --key 4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318`,
	RunE: func(_ *cobra.Command, _ []string) error {
		secret := signSecret
		if secret == "" {
			secret = os.Getenv("CLAIMD_SECRET")
		}
		if secret == "" {
			return fmt.Errorf("challenge message required: set --secret or CLAIMD_SECRET")
		}

		key := signKey
		if key == "" && signKeyFile != "" {
			data, err := os.ReadFile(signKeyFile)
			if err != nil {
				return fmt.Errorf("read key file: %w", err)
			}
			key = strings.TrimSpace(string(data))
		}
		if key == "" {
			return fmt.Errorf("private key required: set --key or --key-file")
		}

		sig, err := identity.Sign(key, secret)
		if err != nil {
			return err
		}
		fmt.Println(sig)
		return nil
	},
}

func init() {
	signCmd.Flags().StringVar(&signKey, "key", "", "hex private key")
	signCmd.Flags().StringVar(&signKeyFile, "key-file", "", "file containing the hex private key")
	signCmd.Flags().StringVar(&signSecret, "secret", "", "challenge message (overrides CLAIMD_SECRET)")
	rootCmd.AddCommand(signCmd)
}
