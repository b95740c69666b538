// Package extract is the generic field extractor: it slices a fixed-width
// CNAB line according to a layout table and produces typed values.
// Money is kept in integer cents; dates follow the FEBRABAN DDMMYYYY
// convention where an all-zero date means "not applicable", not an error.
package extract

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

var (
	ErrInvalidField = errors.New("invalid field content")
	ErrLineTooShort = errors.New("line shorter than field range")
)

// Value is one decoded field.
type Value struct {
	Kind   layout.FieldKind
	Text   string     // trimmed, Text fields
	Number int64      // Numeric and Money (cents) fields
	Date   *time.Time // Date fields; nil when the raw field was all zeros
}

// Fields maps field name to decoded value.
type Fields map[string]Value

// Text returns the trimmed text of a named field, or "".
func (f Fields) Text(name string) string { return f[name].Text }

// Number returns the numeric value of a named field, or 0.
func (f Fields) Number(name string) int64 { return f[name].Number }

// Date returns the parsed date of a named field, or nil.
func (f Fields) Date(name string) *time.Time { return f[name].Date }

// FieldError records a single malformed field. Field errors are collected,
// never thrown: one bad field must not abort the rest of the line or file.
type FieldError struct {
	Name string
	Raw  string
	Err  error
}

func (e FieldError) Error() string {
	return fmt.Sprintf("field %q: %v (raw %q)", e.Name, e.Err, e.Raw)
}

// Extract decodes every field in specs from line. Malformed fields are
// returned as FieldErrors alongside the successfully decoded ones.
func Extract(line string, specs []layout.FieldSpec) (Fields, []FieldError) {
	fields := make(Fields, len(specs))
	var errs []FieldError

	for _, spec := range specs {
		if spec.End > len(line) {
			errs = append(errs, FieldError{Name: spec.Name, Err: ErrLineTooShort})
			continue
		}
		raw := line[spec.Start:spec.End]

		switch spec.Kind {
		case layout.Text:
			fields[spec.Name] = Value{Kind: spec.Kind, Text: strings.TrimSpace(raw)}

		case layout.Numeric:
			n, err := ParseNumeric(raw)
			if err != nil {
				errs = append(errs, FieldError{Name: spec.Name, Raw: raw, Err: err})
				continue
			}
			fields[spec.Name] = Value{Kind: spec.Kind, Number: n}

		case layout.Money:
			cents, err := ParseMoney(raw)
			if err != nil {
				errs = append(errs, FieldError{Name: spec.Name, Raw: raw, Err: err})
				continue
			}
			fields[spec.Name] = Value{Kind: spec.Kind, Number: cents}

		case layout.Date:
			d, err := ParseDate(raw)
			if err != nil {
				errs = append(errs, FieldError{Name: spec.Name, Raw: raw, Err: err})
				continue
			}
			fields[spec.Name] = Value{Kind: spec.Kind, Date: d}
		}
	}

	return fields, errs
}

// ParseNumeric parses a digits-only field into an int64.
func ParseNumeric(raw string) (int64, error) {
	if !allDigits(raw) {
		return 0, ErrInvalidField
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidField
	}
	return n, nil
}

// ParseMoney parses a digits-only field with two implied decimal places
// into integer cents. "000000000012345" is 123.45. Non-digit content is an
// error, never silently zero.
func ParseMoney(raw string) (int64, error) {
	return ParseNumeric(raw)
}

// ParseDate parses DDMMYYYY (8 bytes) or DDMMYY (6 bytes). Two-digit years
// above 50 resolve to 19xx, the rest to 20xx. An all-zero field decodes to
// nil: FEBRABAN uses zeros for "not applicable".
func ParseDate(raw string) (*time.Time, error) {
	if !allDigits(raw) {
		return nil, ErrInvalidField
	}
	if isAllZero(raw) {
		return nil, nil
	}

	var day, month, year int
	switch len(raw) {
	case 8:
		day, _ = strconv.Atoi(raw[0:2])
		month, _ = strconv.Atoi(raw[2:4])
		year, _ = strconv.Atoi(raw[4:8])
	case 6:
		day, _ = strconv.Atoi(raw[0:2])
		month, _ = strconv.Atoi(raw[2:4])
		yy, _ := strconv.Atoi(raw[4:6])
		if yy > 50 {
			year = 1900 + yy
		} else {
			year = 2000 + yy
		}
	default:
		return nil, ErrInvalidField
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes Feb 30 into March; reject anything that moved.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return nil, ErrInvalidField
	}
	return &t, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAllZero(s string) bool {
	for _, r := range s {
		if r != '0' {
			return false
		}
	}
	return s != ""
}
