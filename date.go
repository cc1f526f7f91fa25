package clausewitz

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Era selects how written years map onto Date.Year. It is a decoder-wide
// setting (DecodeOpt.Era), never chosen per field.
type Era int

const (
	// EraNative takes the written year verbatim. Negative years are allowed.
	EraNative Era = iota
	// EraAUC reads years counted ab urbe condita (AUC 754 is year 1) and
	// stores astronomical years, so AUC 753 becomes year 0.
	EraAUC
)

const aucOffset = 753

func (e Era) String() string {
	switch e {
	case EraNative:
		return "native"
	case EraAUC:
		return "auc"
	}
	return "era(" + strconv.Itoa(int(e)) + ")"
}

// ParseEra parses the configuration spelling of an era.
func ParseEra(s string) (Era, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "native":
		return EraNative, nil
	case "auc":
		return EraAUC, nil
	}
	return 0, fmt.Errorf("clausewitz: unknown era %q", s)
}

func (e Era) toYear(written int) (int, bool) {
	switch e {
	case EraAUC:
		if written < 1 {
			return 0, false
		}
		return written - aucOffset, true
	default:
		return written, true
	}
}

func (e Era) toWritten(year int) int {
	if e == EraAUC {
		return year + aucOffset
	}
	return year
}

// Date is a calendar date of the game calendar: 12 months, 365 days per
// year, no leap days.
type Date struct {
	Year  int
	Month uint8
	Day   uint8
}

var daysInMonth = [13]uint8{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// daysBeforeMonth[m] is the day-of-year offset of the first of month m.
var daysBeforeMonth = [13]int{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// DaysInMonth returns the number of days of month m, or 0 if m is out of range.
func DaysInMonth(m int) int {
	if m < 1 || m > 12 {
		return 0
	}
	return int(daysInMonth[m])
}

// NewDate validates and returns a Date.
func NewDate(year, month, day int) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, &DateError{Reason: fmt.Sprintf("month %d out of range", month)}
	}
	if day < 1 || day > int(daysInMonth[month]) {
		return Date{}, &DateError{Reason: fmt.Sprintf("day %d out of range for month %d", day, month)}
	}
	return Date{Year: year, Month: uint8(month), Day: uint8(day)}, nil
}

// DateError describes why a date token was rejected.
type DateError struct {
	Input  string
	Reason string
}

func (e *DateError) Error() string {
	if e.Input == "" {
		return "invalid date: " + e.Reason
	}
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

// ParseDate parses "Y.M.D" written in era.
func ParseDate(s string, era Era) (Date, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Date{}, &DateError{Input: s, Reason: fmt.Sprintf("expected 3 components, got %d", len(parts))}
	}
	var n [3]int
	for i, p := range parts {
		digits := p
		if i == 0 {
			digits = strings.TrimPrefix(p, "-")
		}
		if digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			return Date{}, &DateError{Input: s, Reason: fmt.Sprintf("component %d is not an integer", i+1)}
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, &DateError{Input: s, Reason: err.Error()}
		}
		n[i] = v
	}
	year, ok := era.toYear(n[0])
	if !ok {
		return Date{}, &DateError{Input: s, Reason: fmt.Sprintf("year %d not valid in %s era", n[0], era)}
	}
	d, err := NewDate(year, n[1], n[2])
	if err != nil {
		var de *DateError
		if errors.As(err, &de) {
			de.Input = s
		}
		return Date{}, err
	}
	return d, nil
}

// MustParseDate is like ParseDate in the native era but panics on error.
func MustParseDate(s string) Date {
	d, err := ParseDate(s, EraNative)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date (which is not a valid date).
func (d Date) IsZero() bool { return d == Date{} }

// Compare returns -1, 0 or +1 ordering d against o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		if d.Year < o.Year {
			return -1
		}
		return 1
	case d.Month != o.Month:
		if d.Month < o.Month {
			return -1
		}
		return 1
	case d.Day != o.Day:
		if d.Day < o.Day {
			return -1
		}
		return 1
	}
	return 0
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// Days returns the number of days since 0.1.1.
func (d Date) Days() int {
	return d.Year*365 + daysBeforeMonth[d.Month] + int(d.Day) - 1
}

// AddDays returns d moved by n days.
func (d Date) AddDays(n int) Date {
	total := d.Days() + n
	year := total / 365
	rem := total % 365
	if rem < 0 {
		rem += 365
		year--
	}
	m := 12
	for daysBeforeMonth[m] > rem {
		m--
	}
	return Date{Year: year, Month: uint8(m), Day: uint8(rem - daysBeforeMonth[m] + 1)}
}

// Format renders d as written in era.
func (d Date) Format(era Era) string {
	return fmt.Sprintf("%d.%d.%d", era.toWritten(d.Year), d.Month, d.Day)
}

// String renders d in the native era.
func (d Date) String() string { return d.Format(EraNative) }

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler (native era).
func (d *Date) UnmarshalText(b []byte) error {
	v, err := ParseDate(string(b), EraNative)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
