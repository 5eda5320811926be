package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aashish23092/interest-notice-validator/dto"
	"github.com/Aashish23092/interest-notice-validator/service"
	"github.com/Aashish23092/interest-notice-validator/utils"
	"github.com/Aashish23092/interest-notice-validator/utils/noticeparser"
)

type noticeValidator interface {
	ValidateDocument(ctx context.Context, fileName string, data []byte, password string) (*dto.NoticeValidationResponse, error)
	ValidateFields(ctx context.Context, fields map[string]string) (*dto.NoticeValidationResponse, error)
}

// workbookReporter is a validator that builds the verdict workbook itself.
type workbookReporter interface {
	Report(ctx context.Context, fileName string, data []byte, password string) ([]byte, error)
}

func (a *app) validateCommand() *cobra.Command {
	var password, xlsxPath string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a PDF or text notice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read notice: %w", err)
			}

			v, done, err := a.newValidator()
			if err != nil {
				return err
			}
			defer done()

			name := filepath.Base(args[0])
			resp, err := v.ValidateDocument(cmd.Context(), name, data, password)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				var book []byte
				if r, ok := v.(workbookReporter); ok {
					book, err = r.Report(cmd.Context(), name, data, password)
				} else {
					book, err = service.BuildVerdictWorkbook(resp)
				}
				if err != nil {
					return err
				}
				if err := os.WriteFile(xlsxPath, book, 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			}
			return a.report(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password for an encrypted PDF")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also write the verdict workbook to this path")
	return cmd
}

func (a *app) fieldsCommand() *cobra.Command {
	var principal, rate, start, end, notice string

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Validate a notice given as individual field values",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{
				dto.FieldPrincipal:    principal,
				dto.FieldAnnualRate:   rate,
				dto.FieldPeriodStart:  start,
				dto.FieldPeriodEnd:    end,
				dto.FieldNoticeAmount: notice,
			}
			for k, val := range fields {
				if strings.TrimSpace(val) == "" {
					delete(fields, k)
				}
			}

			v, done, err := a.newValidator()
			if err != nil {
				return err
			}
			defer done()

			resp, err := v.ValidateFields(cmd.Context(), fields)
			if err != nil {
				return err
			}
			return a.report(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&principal, "principal", "", "principal amount, e.g. 1,000,000.00")
	cmd.Flags().StringVar(&rate, "rate", "", "annual rate, e.g. 5.25% or 0.0525")
	cmd.Flags().StringVar(&start, "start", "", "period start date")
	cmd.Flags().StringVar(&end, "end", "", "period end date (exclusive)")
	cmd.Flags().StringVar(&notice, "notice", "", "interest amount stated on the notice")
	return cmd
}

func (a *app) sampleCommand() *cobra.Command {
	var incorrect bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a demonstration notice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), noticeparser.SampleNotice(!incorrect))
			return err
		},
	}
	cmd.Flags().BoolVar(&incorrect, "incorrect", false, "print the notice with a wrong interest amount")
	return cmd
}

// report prints the response and returns errVerdictFailed for a failed verdict.
func (a *app) report(w io.Writer, resp *dto.NoticeValidationResponse) error {
	if a.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	} else {
		printResponse(w, resp)
	}

	if !resp.Verdict.Passed {
		return errVerdictFailed
	}
	return nil
}

func printResponse(w io.Writer, resp *dto.NoticeValidationResponse) {
	rec := resp.Record
	fmt.Fprintln(w, "EXTRACTED:")
	fmt.Fprintf(w, "Principal:     %s\n", utils.FormatCurrency(rec.Principal))
	fmt.Fprintf(w, "Annual rate:   %s\n", utils.FormatPercent(rec.AnnualRatePercent))
	fmt.Fprintf(w, "Period:        %s to %s (%s)\n",
		utils.FormatDate(rec.PeriodStart), utils.FormatDate(rec.PeriodEnd), utils.FormatDays(resp.Calculation.Days))
	fmt.Fprintf(w, "Notice amount: %s\n", utils.FormatCurrency(rec.NoticeAmount))

	if len(resp.Warnings) > 0 {
		fmt.Fprintln(w, "\nWARNINGS:")
		for _, warn := range resp.Warnings {
			fmt.Fprintf(w, "  - %s: %s\n", warn.Field, warn.Message)
		}
	}

	fmt.Fprintf(w, "\n%s\n", resp.Summary)

	fmt.Fprintln(w, "\nRECOMMENDATIONS:")
	for _, r := range resp.Verdict.Recommendations {
		fmt.Fprintf(w, "  - %s\n", r)
	}
}
