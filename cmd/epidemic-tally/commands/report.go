package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
	"github.com/i474232898/epidemic-tally/internal/logger"
	"github.com/i474232898/epidemic-tally/internal/render"
)

var (
	reportDate    *string
	countriesDate *string
)

func init() {
	reportDate = reportCmd.Flags().String("date", "", "Report date, e.g. 01-05-2020 or 1/5/20 (default yesterday).")
	countriesDate = countriesCmd.Flags().String("date", "", "Report date (default yesterday).")
	rootCmd.AddCommand(reportCmd, countriesCmd)
}

// resolveDate normalizes a user supplied date, defaulting to yesterday.
func resolveDate(raw string) (dates.Date, error) {
	if raw == "" {
		return dates.Today().AddDays(-1), nil
	}
	d, err := dates.Normalize(raw)
	if err != nil {
		return dates.Date{}, fmt.Errorf("%w: expected format for date is 'dd-mm-yyyy', but given %q", epidemic.ErrInvalidInput, raw)
	}
	return d, nil
}

// loadReport runs the pipeline for one date; a failed cache write is only logged.
func loadReport(cmd *cobra.Command, raw string) (dates.Date, epidemic.Report, error) {
	date, err := resolveDate(raw)
	if err != nil {
		return date, nil, err
	}

	service, reports, err := openService()
	if err != nil {
		return date, nil, err
	}
	defer reports.Close()

	report, err := service.Report(cmd.Context(), date)
	if epidemic.IsCacheWrite(err) {
		logger.Get().Warnf("report for %s was not cached: %v", date, err)
		err = nil
	}
	return date, report, err
}

var reportCmd = &cobra.Command{
	Use:   "report [--date <dd-mm-yyyy>]",
	Short: "Prints the per-country tally for one day.",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, report, err := loadReport(cmd, *reportDate)
		if err != nil {
			return err
		}
		render.NewTable().RenderReport(cmd.OutOrStdout(), "COVID-19 tally on "+date.String(), report)
		return nil
	},
}

var countriesCmd = &cobra.Command{
	Use:   "countries [--date <dd-mm-yyyy>]",
	Short: "Lists the countries available on one day.",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, report, err := loadReport(cmd, *countriesDate)
		if err != nil {
			return err
		}
		render.NewTable().RenderList(cmd.OutOrStdout(), "Countries on "+date.String(), report.Countries())
		return nil
	},
}
