// Package main is the entry point for the claimd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "claimd",
	Short: "Attestation claim server",
	Long: `claimd stores attestation claim records and authorizes access to them
with signatures over a fixed challenge message: the server recovers the
signer's address from the Authorization header and uses it as the caller's
identity.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
