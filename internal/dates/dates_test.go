package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw    string
		offset int
		expect string
	}{
		{raw: "08-05-2020", offset: -2, expect: "06-05-2020"},
		{raw: "8-5-2020", offset: -1, expect: "07-05-2020"},
		{raw: "08-5-20", offset: 1, expect: "09-05-2020"},
		{raw: "08/05/20", offset: 2, expect: "10-05-2020"},
		{raw: " 1.3.2020 ", offset: 0, expect: "01-03-2020"},
	}

	for _, c := range cases {
		d, err := Normalize(c.raw)
		require.NoError(t, err, c.raw)
		require.Equal(t, c.expect, d.AddDays(c.offset).String(), c.raw)

		shifted, err := Offset(c.raw, c.offset)
		require.NoError(t, err)
		require.Equal(t, c.expect, shifted)
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, raw := range []string{"08+05+2020", "08052020", "2020-05-08", "31-02-2020", "", "1-13-2020"} {
		_, err := Normalize(raw)
		require.True(t, errors.Is(err, ErrInvalidDate), raw)
	}
}

func TestParseIsStrict(t *testing.T) {
	d, err := Parse("01-04-2020")
	require.NoError(t, err)
	require.Equal(t, New(2020, time.April, 1), d)

	for _, raw := range []string{"2020-04-01", "1-5-2020", "01-4-2020", "01-06-20", "01/04/2020", "32-01-2020"} {
		_, err := Parse(raw)
		require.ErrorIs(t, err, ErrInvalidDate, raw)
	}
}

func TestRenderings(t *testing.T) {
	d := New(2020, time.April, 1)
	require.Equal(t, "01-04-2020", d.String())
	require.Equal(t, "04-01-2020", d.Upstream())
	require.Equal(t, "01042020", d.Key())
}

func TestAddDaysRollsOver(t *testing.T) {
	require.Equal(t, "01-03-2020", New(2020, time.February, 28).AddDays(2).String())
	require.Equal(t, "29-02-2020", New(2020, time.March, 1).AddDays(-1).String())
	require.Equal(t, "31-12-2019", New(2020, time.January, 1).AddDays(-1).String())
	require.True(t, New(2020, time.January, 1).Before(New(2020, time.January, 2)))
}

func TestTextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("15-06-2020")))
	b, err := d.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "15-06-2020", string(b))
	require.Error(t, d.UnmarshalText([]byte("2020-06-15")))
}
