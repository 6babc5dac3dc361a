package epidemic

import (
	"fmt"
	"strconv"
	"strings"
)

// derived marks a layout field that is computed rather than read.
const derived = -1

// Layout maps the positional fields of one historical row arrangement.
type Layout struct {
	Name      string
	MinFields int

	Country   int
	Confirmed int
	Deaths    int
	Recovered int
	Active    int
}

var (
	// LayoutA is the arrangement used from late March 2020 on
	// (FIPS, Admin2, Province_State, Country_Region, ...).
	LayoutA = Layout{Name: "A", MinFields: 12, Country: 3, Confirmed: 7, Deaths: 8, Recovered: 9, Active: 10}

	// LayoutB is the older arrangement (Province/State, Country/Region, Last Update, ...)
	// which carries no active count.
	LayoutB = Layout{Name: "B", MinFields: 6, Country: 1, Confirmed: 3, Deaths: 4, Recovered: 5, Active: derived}
)

// Layouts are tried in order; the first one whose field count fits a row wins.
var Layouts = []Layout{LayoutA, LayoutB}

func matchLayout(row Row) (Layout, bool) {
	for _, l := range Layouts {
		if len(row) >= l.MinFields {
			return l, true
		}
	}
	return Layout{}, false
}

// read extracts the country and tally of a row.
func (l Layout) read(row Row) (string, Tally, error) {
	country := strings.TrimSpace(row[l.Country])
	if country == "" {
		return "", Tally{}, fmt.Errorf("empty country field %d", l.Country)
	}

	var (
		t   Tally
		err error
	)
	if t.Confirmed, err = count(row, l.Confirmed); err != nil {
		return "", Tally{}, err
	}
	if t.Deaths, err = count(row, l.Deaths); err != nil {
		return "", Tally{}, err
	}
	if t.Recovered, err = count(row, l.Recovered); err != nil {
		return "", Tally{}, err
	}
	if l.Active == derived {
		t.Active = t.Confirmed - t.Deaths - t.Recovered
	} else {
		// Active may legitimately be negative upstream.
		v := strings.TrimSpace(row[l.Active])
		if v != "" {
			if t.Active, err = strconv.ParseInt(v, 10, 64); err != nil {
				return "", Tally{}, fmt.Errorf("field %d: %q is not an integer", l.Active, v)
			}
		}
	}
	return country, t, nil
}

// count reads a non-negative integer field; a blank cell counts as zero.
func count(row Row, i int) (int64, error) {
	v := strings.TrimSpace(row[i])
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("field %d: %q is not an integer", i, v)
	}
	if n < 0 {
		return 0, fmt.Errorf("field %d: negative count %d", i, n)
	}
	return n, nil
}

// Aggregate folds the rows of one report into a tally per country, summing
// every row that names the same country. A single bad row fails the whole
// report. When sentinel is not empty the result must contain that country.
func Aggregate(rows []Row, sentinel string) (Report, error) {
	report := make(Report)

	for i, row := range rows {
		layout, ok := matchLayout(row)
		if !ok {
			return nil, fmt.Errorf("%w: row %d has %d fields, no layout matches", ErrMalformedRow, i+1, len(row))
		}
		country, t, err := layout.read(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d (layout %s): %v", ErrMalformedRow, i+1, layout.Name, err)
		}

		if existing, ok := report[country]; ok {
			report[country] = existing.Add(t)
		} else {
			report[country] = t
		}
	}

	if len(report) == 0 {
		return nil, fmt.Errorf("%w: no countries aggregated", ErrInvalidData)
	}
	if sentinel != "" {
		if _, ok := report[sentinel]; !ok {
			return nil, fmt.Errorf("%w: expected country %q is missing", ErrInvalidData, sentinel)
		}
	}
	return report, nil
}
