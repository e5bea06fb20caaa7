// Package intrange implements the chapter/volume range filter syntax:
// "start..end", "start..=end", "..end", "start..", ".." or a bare integer,
// which is shorthand for the closed unit range [n, n].
package intrange

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an interval over non-negative integers. A nil bound means the
// range is unbounded on that side. The start bound is always inclusive;
// the end bound is exclusive unless EndInclusive is set.
type Range struct {
	Start        *int
	End          *int
	EndInclusive bool
}

// Parse parses the textual range syntax. A string without ".." is treated
// as a single number n and yields the closed range [n, n].
func Parse(s string) (Range, error) {
	if !strings.Contains(s, "..") {
		n, err := parseBound(s)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start value %q: %w", s, err)
		}
		return Range{Start: &n, End: &n, EndInclusive: true}, nil
	}

	startStr, endStr, _ := strings.Cut(s, "..")

	var r Range
	if startStr != "" {
		n, err := parseBound(startStr)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start value %q: %w", startStr, err)
		}
		r.Start = &n
	}

	if strings.HasPrefix(endStr, "=") {
		r.EndInclusive = true
		endStr = strings.TrimPrefix(endStr, "=")
	}
	if endStr != "" {
		n, err := parseBound(endStr)
		if err != nil {
			return Range{}, fmt.Errorf("invalid end value %q: %w", endStr, err)
		}
		r.End = &n
	}

	return r, nil
}

func parseBound(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Contains reports whether value falls inside the range.
func (r Range) Contains(value int) bool {
	if r.Start != nil && value < *r.Start {
		return false
	}
	if r.End != nil {
		if r.EndInclusive {
			return value <= *r.End
		}
		return value < *r.End
	}
	return true
}

func (r Range) String() string {
	var b strings.Builder
	if r.Start != nil {
		fmt.Fprintf(&b, "%d", *r.Start)
	}
	b.WriteString("..")
	if r.End != nil {
		if r.EndInclusive {
			b.WriteByte('=')
		}
		fmt.Fprintf(&b, "%d", *r.End)
	}
	return b.String()
}
