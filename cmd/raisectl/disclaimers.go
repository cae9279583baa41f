package main

import (
	"fmt"

	"github.com/hotelcapital/raise-engine/internal/compliance"
	"github.com/hotelcapital/raise-engine/pkg/config"
	"github.com/spf13/cobra"
)

func newDisclaimersCmd() *cobra.Command {
	var firm string

	cmd := &cobra.Command{
		Use:   "disclaimers",
		Short: "Print the channel disclaimers for the firm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if firm == "" {
				firm = config.New().FirmName
			}
			d := compliance.NewDisclaimers(firm)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "EMAIL FOOTER\n%s\n\n", d.EmailFooter)
			fmt.Fprintf(out, "VOICE OPENING\n%s\n\n", d.VoiceOpening)
			fmt.Fprintf(out, "VOICE CLOSING\n%s\n\n", d.VoiceClosing)
			fmt.Fprintf(out, "SMS\n%s\n", d.SMS)
			return nil
		},
	}

	cmd.Flags().StringVar(&firm, "firm", "", "Firm name (default: FIRM_NAME)")
	return cmd
}
