package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hotelcapital/raise-engine/internal/compliance"
	"github.com/hotelcapital/raise-engine/internal/models"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("compliance check failed")

type checkOptions struct {
	file       string
	subject    string
	offering   string
	accredited string
	prior      bool
	optedOut   bool
	jsonOutput bool
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check outbound content for compliance violations",
		Long:  "Check an email, script or SMS body (plain text or HTML) against the compliance rules. Reads stdin unless --file is given. Exits non-zero when the content would be blocked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Path to content file (default: stdin)")
	cmd.Flags().StringVar(&opts.subject, "subject", "", "Email subject line")
	cmd.Flags().StringVar(&opts.offering, "offering", string(models.OfferingRegD506B), "Offering type (REG_D_506B or REG_D_506C)")
	cmd.Flags().StringVar(&opts.accredited, "accredited", string(models.AccreditedUnverified), "Recipient accreditation status")
	cmd.Flags().BoolVar(&opts.prior, "prior", false, "Recipient has a pre-existing relationship")
	cmd.Flags().BoolVar(&opts.optedOut, "opted-out", false, "Recipient has opted out")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	offering := models.OfferingType(opts.offering)
	if !offering.Valid() {
		return fmt.Errorf("unknown offering type %q", opts.offering)
	}

	var raw []byte
	var err error
	if opts.file != "" {
		raw, err = os.ReadFile(opts.file)
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	content, err := compliance.PlainText(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse content: %w", err)
	}

	result := compliance.Evaluate(compliance.CheckInput{
		Content:                      content,
		Subject:                      opts.subject,
		OfferingType:                 offering,
		InvestorHasPriorRelationship: opts.prior,
		InvestorOptedOut:             opts.optedOut,
		InvestorAccreditedStatus:     models.AccreditedStatus(opts.accredited),
	})

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		printCheckResult(out, result)
	}

	if !result.Passed {
		return errCheckFailed
	}
	return nil
}

func printCheckResult(w io.Writer, result compliance.CheckResult) {
	if result.Passed {
		fmt.Fprintln(w, "PASSED")
	} else {
		fmt.Fprintln(w, "BLOCKED")
	}

	for _, v := range result.Violations {
		if v.MatchedText != "" {
			fmt.Fprintf(w, "  [%s] %s: %s (%q)\n", v.Severity, v.Rule, v.Message, v.MatchedText)
		} else {
			fmt.Fprintf(w, "  [%s] %s: %s\n", v.Severity, v.Rule, v.Message)
		}
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "  [WARNING] %s: %s\n", warn.Rule, warn.Message)
	}
}
