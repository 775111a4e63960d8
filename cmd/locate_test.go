package cmd

import (
	"bytes"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/nvkalinin/workday-locator/workday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLocate(t *testing.T, args ...string) (string, error) {
	cmd := &Locate{}
	buf := &bytes.Buffer{}
	cmd.out = buf

	_, err := flags.ParseArgs(cmd, args)
	require.NoError(t, err)

	err = cmd.Execute(nil)
	return buf.String(), err
}

func TestLocateCmd(t *testing.T) {
	tbl := []struct {
		args []string
		exp  string
	}{
		{[]string{"10", "1", "2020"}, "2020-01-14\n"},
		{[]string{"-w", "mon", "-w", "tue", "-w", "wed", "-w", "thu", "10", "1", "2020"}, "2020-01-16\n"},
		{[]string{"--weekday=1,2,3,4", "10", "1", "2020"}, "2020-01-16\n"},
		{[]string{"-x", "1", "10", "1", "2020"}, "2020-01-15\n"},
		{[]string{"--format=02.01.2006", "10", "1", "2020"}, "14.01.2020\n"},
		{[]string{"--holidays=testdata/override.yml", "1", "1", "2021"}, "2021-01-11\n"},
		{[]string{"--holidays=testdata/override.yml", "-x", "11", "1", "1", "2021"}, "2021-01-12\n"},
	}

	for _, tt := range tbl {
		out, err := runLocate(t, tt.args...)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.exp, out, tt.args)
	}
}

func TestLocateCmd_errors(t *testing.T) {
	_, err := runLocate(t, "31", "2", "2021")
	assert.ErrorIs(t, err, workday.ErrNotFound)
	assert.EqualError(t, err, "There isn't a 31st working day (Monday, Tuesday, Wednesday, Thursday, Friday) in February 2021.")

	_, err = runLocate(t, "--weekday=none", "1", "2", "2020")
	assert.EqualError(t, err, "There isn't a 1st working day (none) in February 2020.")

	_, err = runLocate(t, "--exclude=", "24", "1", "2020")
	assert.EqualError(t, err, "There isn't a 24th working day (Monday, Tuesday, Wednesday, Thursday, Friday) in January 2020, excluding day(s) of month: none.")

	// Отрицательный nth можно передать только после "--".
	_, err = runLocate(t, "--", "-1", "1", "2020")
	assert.ErrorIs(t, err, workday.ErrInvalidArgument)
	assert.ErrorContains(t, err, "nth out of range")

	_, err = runLocate(t, "1", "13", "2020")
	assert.ErrorIs(t, err, workday.ErrInvalidArgument)

	_, err = runLocate(t, "--holidays=testdata/missing.yml", "1", "1", "2020")
	assert.ErrorContains(t, err, "cannot read overrides yaml")

	cmd := &Locate{}
	_, err = flags.ParseArgs(cmd, []string{"--weekday=funday", "1", "1", "2020"})
	assert.ErrorContains(t, err, "unknown weekday 'funday'")

	cmd = &Locate{}
	_, err = flags.ParseArgs(cmd, []string{"1", "1"})
	assert.Error(t, err)
}

func TestWeekdayList(t *testing.T) {
	var w WeekdayList
	require.NoError(t, w.UnmarshalFlag("none"))
	assert.NotNil(t, w)
	assert.Len(t, w, 0)

	require.NoError(t, w.UnmarshalFlag("sunday,6"))
	assert.Equal(t, WeekdayList{0, 6}, w)
}

func TestDayList(t *testing.T) {
	var d DayList
	require.NoError(t, d.UnmarshalFlag(""))
	assert.NotNil(t, d)

	require.NoError(t, d.UnmarshalFlag("1, 7"))
	require.NoError(t, d.UnmarshalFlag("40"))
	assert.Equal(t, DayList{1, 7, 40}, d)

	assert.ErrorIs(t, d.UnmarshalFlag("x"), workday.ErrInvalidArgument)
}
