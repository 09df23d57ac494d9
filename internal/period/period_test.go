package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigate(t *testing.T) {
	tests := []struct {
		name string
		from Period
		dir  Direction
		want Period
	}{
		{name: "prev mid-year", from: Period{2025, 3}, dir: Prev, want: Period{2025, 2}},
		{name: "next mid-year", from: Period{2025, 3}, dir: Next, want: Period{2025, 4}},
		{name: "prev from january", from: Period{2025, 1}, dir: Prev, want: Period{2024, 12}},
		{name: "next from december", from: Period{2024, 12}, dir: Next, want: Period{2025, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.from.Navigate(tt.dir)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestNavigate_RoundTrip(t *testing.T) {
	for year := 1999; year <= 2001; year++ {
		for month := 1; month <= 12; month++ {
			p := Period{Year: year, Month: month}
			assert.Equal(t, p, p.Navigate(Prev).Navigate(Next), "prev then next for %s", p)
			assert.Equal(t, p, p.Navigate(Next).Navigate(Prev), "next then prev for %s", p)
		}
	}
}

func TestShift(t *testing.T) {
	p := Period{Year: 2025, Month: 3}
	assert.Equal(t, Period{2024, 3}, p.Shift(-12))
	assert.Equal(t, Period{2026, 1}, p.Shift(10))
	assert.Equal(t, p, p.Shift(0))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("prev")
	require.NoError(t, err)
	assert.Equal(t, Prev, d)

	d, err = ParseDirection(" NEXT ")
	require.NoError(t, err)
	assert.Equal(t, Next, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestNew(t *testing.T) {
	_, err := New(2025, 13)
	assert.Error(t, err)
	_, err = New(2025, 0)
	assert.Error(t, err)

	p, err := New(2025, 3)
	require.NoError(t, err)
	assert.Equal(t, "March 2025", p.Label())
	assert.Equal(t, "2025-03", p.String())
}

func TestBounds(t *testing.T) {
	first, last := Period{Year: 2024, Month: 2}.Bounds()
	assert.Equal(t, 1, first.Day())
	assert.Equal(t, 29, last.Day())
	assert.Equal(t, time.February, last.Month())

	assert.True(t, Period{2024, 2}.Contains(time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)))
	assert.False(t, Period{2024, 2}.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCurrent(t *testing.T) {
	now := time.Date(2025, time.March, 18, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, Period{Year: 2025, Month: 3}, Current(now))
}
