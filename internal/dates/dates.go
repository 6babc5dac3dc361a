// Package dates implements the canonical dd-mm-yyyy calendar date used as
// cache key and upstream locator throughout the pipeline.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// Layout is the canonical rendering, dd-mm-yyyy.
	Layout = "02-01-2006"

	upstreamLayout = "01-02-2006"
	keyLayout      = "02012006"
)

// ErrInvalidDate is returned when a string cannot be read as a calendar date.
var ErrInvalidDate = errors.New("invalid date")

var (
	canonicalRe = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	looseRe     = regexp.MustCompile(`^\s*(\d{1,2})[-/.](\d{1,2})[-/.](\d{2}|\d{4})\s*$`)
)

// Date is a calendar day. The zero value is not a valid date.
type Date struct {
	t time.Time
}

// New builds a Date; out-of-range values roll over like time.Date.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its UTC calendar day.
func FromTime(t time.Time) Date {
	t = t.UTC()
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current UTC day.
func Today() Date {
	return FromTime(time.Now())
}

// Parse accepts only the canonical dd-mm-yyyy form of an existing calendar day.
func Parse(s string) (Date, error) {
	if !canonicalRe.MatchString(s) {
		return Date{}, fmt.Errorf("%w: %q is not in dd-mm-yyyy form", ErrInvalidDate, s)
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	return Date{t: t}, nil
}

// Normalize reads a date written with '-', '/' or '.' separators, one or two
// digit day and month, and a two or four digit year ("8/5/20" is 08-05-2020).
func Normalize(raw string) (Date, error) {
	m := looseRe.FindStringSubmatch(raw)
	if m == nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	year := m[3]
	if len(year) == 2 {
		year = "20" + year
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return Parse(fmt.Sprintf("%02d-%02d-%s", day, month, year))
}

// Offset normalizes raw and moves it by n days, returning the canonical form.
func Offset(raw string, n int) (string, error) {
	d, err := Normalize(raw)
	if err != nil {
		return "", err
	}
	return d.AddDays(n).String(), nil
}

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String renders dd-mm-yyyy.
func (d Date) String() string {
	return d.t.Format(Layout)
}

// Upstream renders mm-dd-yyyy, the order used by the published file names.
func (d Date) Upstream() string {
	return d.t.Format(upstreamLayout)
}

// Key renders ddmmyyyy, the storage address of a cached report.
func (d Date) Key() string {
	return d.t.Format(keyLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
