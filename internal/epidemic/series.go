package epidemic

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/epidemic-tally/internal/dates"
)

const xLabel = "Number of days since the latest report"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "metrics", func(fl validator.FieldLevel) bool {
		_, err := ParseMetrics(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "canonicaldate", func(fl validator.FieldLevel) bool {
		_, err := dates.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

const defaultMetrics = "cdra"

// PlotRequest holds the parameters collected by a front end for one plot.
type PlotRequest struct {
	Countries []string `json:"countries" validate:"required,min=1,dive,required"`
	Date      string   `json:"date" validate:"required,canonicaldate"`
	Days      int      `json:"days" validate:"min=1,max=1000"`
	// Scales and Metrics are given per chart: per country, or per metric
	// when Transpose is set. A single entry applies to every chart and
	// missing entries default to log and "cdra".
	Scales  []Scale  `json:"scales" validate:"dive,oneof=log linear"`
	Metrics []string `json:"metrics" validate:"dive,metrics"`
	// Transpose draws one chart per metric with a line per country. It takes
	// at most one metric set.
	Transpose bool `json:"transpose"`
}

// Validate checks the request and expands Scales and Metrics to one entry
// per chart.
func (r *PlotRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	charts := len(r.Countries)
	if r.Transpose {
		if len(r.Metrics) > 1 {
			return fmt.Errorf("%w: a transposed plot takes one metric set, got %d", ErrInvalidInput, len(r.Metrics))
		}
		set := defaultMetrics
		if len(r.Metrics) == 1 {
			set = r.Metrics[0]
		}
		metrics, err := ParseMetrics(set)
		if err != nil {
			return err
		}
		r.Metrics = []string{set}
		charts = len(metrics)
	} else {
		metrics, err := perChart(r.Metrics, charts, defaultMetrics)
		if err != nil {
			return fmt.Errorf("%w: metrics: %v", ErrInvalidInput, err)
		}
		r.Metrics = metrics
	}

	scales, err := perChart(r.Scales, charts, ScaleLog)
	if err != nil {
		return fmt.Errorf("%w: scales: %v", ErrInvalidInput, err)
	}
	r.Scales = scales
	return nil
}

// perChart stretches values to n entries: one value is repeated, fewer are
// padded with def.
func perChart[T any](values []T, n int, def T) ([]T, error) {
	if len(values) > n {
		return nil, fmt.Errorf("got %d values for %d charts", len(values), n)
	}
	out := make([]T, n)
	for i := range out {
		switch {
		case len(values) == 1:
			out[i] = values[0]
		case i < len(values):
			out[i] = values[i]
		default:
			out[i] = def
		}
	}
	return out, nil
}

// Series is one line of a chart, oldest point first.
type Series struct {
	Label   string  `json:"label"`
	Country string  `json:"country"`
	Metric  Metric  `json:"metric"`
	Points  []int64 `json:"points"`
}

// Chart is the prepared input of a Renderer.
type Chart struct {
	Title  string `json:"title"`
	XLabel string `json:"xLabel"`
	YLabel string `json:"yLabel"`
	Scale  Scale  `json:"scale"`
	// Offsets are the x values, -(days-1) up to 0.
	Offsets []int    `json:"offsets"`
	Series  []Series `json:"series"`
}

// CountrySeries returns the tallies of country for the days ending at end,
// oldest first. A country missing from any day fails with ErrCountryUnavailable.
func (s *Service) CountrySeries(ctx context.Context, country string, end dates.Date, days int) ([]Tally, error) {
	reports, err := s.reports(ctx, end, days)
	if err != nil {
		return nil, err
	}
	return pick(reports, country, end)
}

// BuildCharts validates req and prepares its charts. Without Transpose there
// is one chart per country with a line per metric; with Transpose there is
// one chart per metric with a line per country.
func (s *Service) BuildCharts(ctx context.Context, req PlotRequest) ([]Chart, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	end, err := dates.Parse(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	reports, err := s.reports(ctx, end, req.Days)
	if err != nil {
		return nil, err
	}

	tallies := make(map[string][]Tally, len(req.Countries))
	for _, country := range req.Countries {
		series, err := pick(reports, country, end)
		if err != nil {
			return nil, err
		}
		tallies[country] = series
	}

	offsets := make([]int, req.Days)
	for i := range offsets {
		offsets[i] = i - (req.Days - 1)
	}

	var charts []Chart
	if req.Transpose {
		metrics, err := ParseMetrics(req.Metrics[0])
		if err != nil {
			return nil, err
		}
		for i, m := range metrics {
			yLabel := "Number of " + m.Label()
			chart := Chart{
				Title:   yLabel + " over the world",
				XLabel:  xLabel,
				YLabel:  yLabel,
				Scale:   req.Scales[i],
				Offsets: offsets,
			}
			for _, country := range req.Countries {
				chart.Series = append(chart.Series, line(country, country, m, tallies[country]))
			}
			charts = append(charts, chart)
		}
		return charts, nil
	}

	for i, country := range req.Countries {
		metrics, err := ParseMetrics(req.Metrics[i])
		if err != nil {
			return nil, err
		}
		chart := Chart{
			Title:   "COVID-19 tally for " + country,
			XLabel:  xLabel,
			YLabel:  "Number of cases",
			Scale:   req.Scales[i],
			Offsets: offsets,
		}
		for _, m := range metrics {
			chart.Series = append(chart.Series, line(title(m.String()), country, m, tallies[country]))
		}
		charts = append(charts, chart)
	}
	return charts, nil
}

// reports loads the reports for the days ending at end, oldest first.
func (s *Service) reports(ctx context.Context, end dates.Date, days int) ([]Report, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: expected positive timespan, got %d", ErrInvalidInput, days)
	}
	out := make([]Report, 0, days)
	for i := days - 1; i >= 0; i-- {
		report, err := s.Report(ctx, end.AddDays(-i))
		if err != nil && !IsCacheWrite(err) {
			return nil, err
		}
		out = append(out, report)
	}
	return out, nil
}

func pick(reports []Report, country string, end dates.Date) ([]Tally, error) {
	out := make([]Tally, 0, len(reports))
	for i, report := range reports {
		t, ok := report[country]
		if !ok {
			day := end.AddDays(i - (len(reports) - 1))
			return nil, fmt.Errorf("%w: %q has no entry on %s", ErrCountryUnavailable, country, day)
		}
		out = append(out, t)
	}
	return out, nil
}

func line(label, country string, m Metric, tallies []Tally) Series {
	points := make([]int64, len(tallies))
	for i, t := range tallies {
		points[i] = t.Value(m)
	}
	return Series{Label: label, Country: country, Metric: m, Points: points}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Renderer draws prepared charts.
type Renderer interface {
	Render(w io.Writer, chart Chart) error
}
