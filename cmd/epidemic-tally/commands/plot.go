package commands

import (
	"github.com/spf13/cobra"

	"github.com/i474232898/epidemic-tally/internal/dates"
	"github.com/i474232898/epidemic-tally/internal/epidemic"
	"github.com/i474232898/epidemic-tally/internal/render"
)

var plotFlags struct {
	countries []string
	date      string
	days      int
	scales    []string
	metrics   []string
	transpose bool
}

func init() {
	f := plotCmd.Flags()
	// Array flags: country names such as "Korea, South" contain commas.
	f.StringArrayVarP(&plotFlags.countries, "country", "c", nil, "Country to plot; repeat for several.")
	f.StringVar(&plotFlags.date, "date", "", "Latest day of the series (default yesterday).")
	f.IntVar(&plotFlags.days, "days", 7, "Number of days to plot, ending at --date.")
	f.StringArrayVar(&plotFlags.scales, "scale", nil, "Y axis scale per chart: log or linear. One value applies to all charts, missing ones default to log.")
	f.StringArrayVar(&plotFlags.metrics, "metrics", nil, "Metrics per country: any of c(onfirmed) d(eaths) r(ecovered) a(ctive). One value applies to all, missing ones default to cdra.")
	f.BoolVar(&plotFlags.transpose, "transpose", false, "One chart per metric comparing the countries; --scale is then given per metric.")
	_ = plotCmd.MarkFlagRequired("country")
	rootCmd.AddCommand(plotCmd)
}

// plotRequest assembles the chart request from the parsed flags.
func plotRequest(end dates.Date) epidemic.PlotRequest {
	req := epidemic.PlotRequest{
		Countries: plotFlags.countries,
		Date:      end.String(),
		Days:      plotFlags.days,
		Metrics:   plotFlags.metrics,
		Transpose: plotFlags.transpose,
	}
	for _, scale := range plotFlags.scales {
		req.Scales = append(req.Scales, epidemic.Scale(scale))
	}
	return req
}

var plotCmd = &cobra.Command{
	Use:   "plot --country <name> [--country <name>...] [--date <dd-mm-yyyy>] [--days N]",
	Short: "Prints the tally series of one or more countries.",
	RunE: func(cmd *cobra.Command, args []string) error {
		end, err := resolveDate(plotFlags.date)
		if err != nil {
			return err
		}

		service, reports, err := openService()
		if err != nil {
			return err
		}
		defer reports.Close()

		charts, err := service.BuildCharts(cmd.Context(), plotRequest(end))
		if err != nil {
			return err
		}

		var renderer epidemic.Renderer = render.NewTable()
		for _, chart := range charts {
			if err := renderer.Render(cmd.OutOrStdout(), chart); err != nil {
				return err
			}
		}
		return nil
	},
}
