// Package period models the (year, month) window the dashboard and the
// transaction list are scoped to.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Direction moves a period one month backwards or forwards.
type Direction int

const (
	// Prev moves to the previous month.
	Prev Direction = iota
	// Next moves to the following month.
	Next
)

// ErrInvalidDirection is returned for directions other than prev and next.
var ErrInvalidDirection = errors.New("direction must be 'prev' or 'next'")

// ParseDirection parses "prev" or "next".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous":
		return Prev, nil
	case "next":
		return Next, nil
	}
	return 0, fmt.Errorf("%w: got %q", ErrInvalidDirection, s)
}

func (d Direction) String() string {
	if d == Next {
		return "next"
	}
	return "prev"
}

// Period is a calendar month.
type Period struct {
	Year  int
	Month int
}

// New returns the period for year and month, rejecting months outside 1..12.
func New(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	if !p.Valid() {
		return Period{}, fmt.Errorf("invalid month %d: must be between 1 and 12", month)
	}
	return p, nil
}

// Current returns the period containing now.
func Current(now time.Time) Period {
	return Period{Year: now.Year(), Month: int(now.Month())}
}

// Valid reports whether the month is within 1..12.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12
}

// Navigate returns the neighbouring period in the given direction, rolling
// the year over at January and December.
func (p Period) Navigate(d Direction) Period {
	switch d {
	case Prev:
		if p.Month <= 1 {
			return Period{Year: p.Year - 1, Month: 12}
		}
		return Period{Year: p.Year, Month: p.Month - 1}
	case Next:
		if p.Month >= 12 {
			return Period{Year: p.Year + 1, Month: 1}
		}
		return Period{Year: p.Year, Month: p.Month + 1}
	}
	return p
}

// Shift navigates n months; negative n moves backwards.
func (p Period) Shift(n int) Period {
	d := Next
	if n < 0 {
		d, n = Prev, -n
	}
	for range n {
		p = p.Navigate(d)
	}
	return p
}

// Bounds returns the first and last day of the period.
func (p Period) Bounds() (first, last time.Time) {
	first = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// Contains reports whether t falls on a day inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// Label renders the period as "March 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", time.Month(p.Month), p.Year)
}

// String renders the period as "2025-03".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
