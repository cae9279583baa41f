// Package main provides raisectl, an operator CLI for compliance checks,
// offline scoring and user bootstrap.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "raisectl",
		Short:         "Hotel raise CRM operator tools",
		Long:          "raisectl checks outbound content against Reg D and FINRA language rules, scores investor profiles offline and bootstraps CRM users.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCheckCmd(),
		newScoreCmd(),
		newDisclaimersCmd(),
		newCreateUserCmd(),
	)
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
