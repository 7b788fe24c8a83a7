package frame

import (
	"sort"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

const (
	secondsPerDay = 86400.0
	// ttMinusTAI is the constant offset between Terrestrial Time and TAI in seconds.
	ttMinusTAI = 32.184
)

type leapSecond struct {
	from   time.Time
	offset float64
}

// leapSeconds holds TAI-UTC since the 1972 reform.
var leapSeconds = []leapSecond{
	{time.Date(1972, 1, 1, 0, 0, 0, 0, time.UTC), 10},
	{time.Date(1972, 7, 1, 0, 0, 0, 0, time.UTC), 11},
	{time.Date(1973, 1, 1, 0, 0, 0, 0, time.UTC), 12},
	{time.Date(1974, 1, 1, 0, 0, 0, 0, time.UTC), 13},
	{time.Date(1975, 1, 1, 0, 0, 0, 0, time.UTC), 14},
	{time.Date(1976, 1, 1, 0, 0, 0, 0, time.UTC), 15},
	{time.Date(1977, 1, 1, 0, 0, 0, 0, time.UTC), 16},
	{time.Date(1978, 1, 1, 0, 0, 0, 0, time.UTC), 17},
	{time.Date(1979, 1, 1, 0, 0, 0, 0, time.UTC), 18},
	{time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC), 19},
	{time.Date(1981, 7, 1, 0, 0, 0, 0, time.UTC), 20},
	{time.Date(1982, 7, 1, 0, 0, 0, 0, time.UTC), 21},
	{time.Date(1983, 7, 1, 0, 0, 0, 0, time.UTC), 22},
	{time.Date(1985, 7, 1, 0, 0, 0, 0, time.UTC), 23},
	{time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC), 24},
	{time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), 25},
	{time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC), 26},
	{time.Date(1992, 7, 1, 0, 0, 0, 0, time.UTC), 27},
	{time.Date(1993, 7, 1, 0, 0, 0, 0, time.UTC), 28},
	{time.Date(1994, 7, 1, 0, 0, 0, 0, time.UTC), 29},
	{time.Date(1996, 1, 1, 0, 0, 0, 0, time.UTC), 30},
	{time.Date(1997, 7, 1, 0, 0, 0, 0, time.UTC), 31},
	{time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), 32},
	{time.Date(2006, 1, 1, 0, 0, 0, 0, time.UTC), 33},
	{time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), 34},
	{time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), 35},
	{time.Date(2015, 7, 1, 0, 0, 0, 0, time.UTC), 36},
	{time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC), 37},
}

// TAIMinusUTC returns the number of leap seconds in effect at t.
// Instants before 1972 use the initial 10 s offset.
func TAIMinusUTC(t time.Time) float64 {
	t = t.UTC()
	idx := sort.Search(len(leapSeconds), func(i int) bool {
		return leapSeconds[i].from.After(t)
	})
	if idx == 0 {
		return leapSeconds[0].offset
	}
	return leapSeconds[idx-1].offset
}

// JulianDateTT returns the Julian date of t on the Terrestrial Time scale.
func JulianDateTT(t time.Time) float64 {
	return julian.TimeToJD(t.UTC()) + (TAIMinusUTC(t)+ttMinusTAI)/secondsPerDay
}

// JulianDateUT1 returns the Julian date of t on the UT1 scale given UT1-UTC in seconds.
func JulianDateUT1(t time.Time, dut1 float64) float64 {
	return julian.TimeToJD(t.UTC()) + dut1/secondsPerDay
}
