package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hotelcapital/raise-engine/internal/scoring"
	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an investor profile from a JSON file",
		Long:  "Score an investor described by a JSON score input. Deal minimum and target default to the standard deal sizing when both are omitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(inputFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}

			var input scoring.InvestorScoreInput
			if err := json.Unmarshal(raw, &input); err != nil {
				return fmt.Errorf("failed to parse input file: %w", err)
			}
			if input.DealMinimum == 0 && input.DealTarget == 0 {
				input.DealMinimum = scoring.DefaultDealMinimum
				input.DealTarget = scoring.DefaultDealTarget
			}
			if err := input.Validate(); err != nil {
				return err
			}

			breakdown := scoring.CalculateInvestorScore(input)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"score":      breakdown,
				"dimensions": breakdown.Dimensions(),
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Path to score input JSON")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
