// Package main provides the entry point for the receiptscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for receiptscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receiptscan",
		Short: "Fraud analysis for receipt images",
		Long: `receiptscan analyzes receipt images for signs of fraud.

It runs several independent checks concurrently - vision-based text
extraction, image manipulation forensics, metadata inspection, and
fraud-history lookups - and combines them into a trust score, a verdict,
and an actionable recommendation.

An OpenAI API key is required for text extraction. Set OPENAI_API_KEY
or add api_key to the .receiptscan configuration file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
