package epidemic

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tally is the per-country summary for one reporting day.
type Tally struct {
	Confirmed int64
	Deaths    int64
	Recovered int64
	Active    int64
}

// Add returns the field-wise sum of t and o.
func (t Tally) Add(o Tally) Tally {
	return Tally{
		Confirmed: t.Confirmed + o.Confirmed,
		Deaths:    t.Deaths + o.Deaths,
		Recovered: t.Recovered + o.Recovered,
		Active:    t.Active + o.Active,
	}
}

// Value picks a single metric out of the tally.
func (t Tally) Value(m Metric) int64 {
	switch m {
	case MetricConfirmed:
		return t.Confirmed
	case MetricDeaths:
		return t.Deaths
	case MetricRecovered:
		return t.Recovered
	case MetricActive:
		return t.Active
	default:
		return 0
	}
}

// MarshalJSON encodes the tally as [confirmed, deaths, recovered, active].
func (t Tally) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int64{t.Confirmed, t.Deaths, t.Recovered, t.Active})
}

func (t *Tally) UnmarshalJSON(b []byte) error {
	var fields []int64
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	if len(fields) != 4 {
		return fmt.Errorf("tally: expected 4 fields, got %d", len(fields))
	}
	*t = Tally{
		Confirmed: fields[0],
		Deaths:    fields[1],
		Recovered: fields[2],
		Active:    fields[3],
	}
	return nil
}

// Report maps a country name to its tally for one date.
type Report map[string]Tally

// Countries returns the country names in lexical order.
func (r Report) Countries() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy that shares nothing with r.
func (r Report) Clone() Report {
	if r == nil {
		return nil
	}
	out := make(Report, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Metric selects one field of a Tally.
type Metric int

const (
	MetricConfirmed Metric = iota
	MetricDeaths
	MetricRecovered
	MetricActive
)

var metricLetters = map[rune]Metric{
	'c': MetricConfirmed,
	'd': MetricDeaths,
	'r': MetricRecovered,
	'a': MetricActive,
}

func (m Metric) String() string {
	switch m {
	case MetricConfirmed:
		return "confirmed"
	case MetricDeaths:
		return "deaths"
	case MetricRecovered:
		return "recovered"
	case MetricActive:
		return "active"
	default:
		return "unknown"
	}
}

// Label is the human readable quantity, e.g. "confirmed cases".
func (m Metric) Label() string {
	switch m {
	case MetricConfirmed:
		return "confirmed cases"
	case MetricRecovered:
		return "recovered cases"
	case MetricActive:
		return "active cases"
	default:
		return m.String()
	}
}

func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ParseMetrics reads a selection such as "cdra". Order follows the input,
// duplicates are dropped and unknown letters are rejected.
func ParseMetrics(s string) ([]Metric, error) {
	var (
		out  []Metric
		seen = make(map[Metric]bool)
	)
	for _, r := range strings.ToLower(s) {
		m, ok := metricLetters[r]
		if !ok {
			return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, r)
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one metric is required", ErrInvalidInput)
	}
	return out, nil
}

// Scale is the y axis scale of a chart.
type Scale string

const (
	ScaleLog    Scale = "log"
	ScaleLinear Scale = "linear"
)
