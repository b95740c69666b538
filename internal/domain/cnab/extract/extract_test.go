package extract

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"000000000012345", 12345, false}, // 123.45
		{"0000000000", 0, false},
		{"000000000000001", 1, false},
		{"999999999999999", 999999999999999, false},
		{"00000001,5", 0, true},
		{"          ", 0, true},
		{"0000000000000AB", 0, true},
		{"", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseMoney(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMoney(%q) expected error, got %d", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMoney(%q) error: %v", tc.input, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseMoney(%q) = %d, want %d", tc.input, got, tc.expected)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string // ISO date, "" for nil
		wantErr bool
	}{
		{"31122023", "2023-12-31", false},
		{"29022024", "2024-02-29", false}, // leap year
		{"29022023", "", true},            // not a leap year
		{"30022024", "", true},            // Feb 30 never exists
		{"00000000", "", false},           // all-zero means not applicable
		{"000000", "", false},
		{"31129999", "9999-12-31", false},
		{"311223", "2023-12-31", false}, // DDMMYY, 23 -> 2023
		{"310185", "1985-01-31", false}, // DDMMYY, 85 -> 1985
		{"32011990", "", true},
		{"0101202A", "", true},
		{"1234567", "", true}, // unsupported width
	}

	for _, tc := range tests {
		got, err := ParseDate(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDate(%q) error: %v", tc.input, err)
			continue
		}
		if tc.want == "" {
			if got != nil {
				t.Errorf("ParseDate(%q) = %v, want nil", tc.input, got)
			}
			continue
		}
		if got == nil || got.Format("2006-01-02") != tc.want {
			t.Errorf("ParseDate(%q) = %v, want %s", tc.input, got, tc.want)
		}
	}
}

func TestExtract_CollectsFieldErrors(t *testing.T) {
	specs := []layout.FieldSpec{
		{Name: "banco", Start: 0, End: 3, Kind: layout.Numeric},
		{Name: "valor", Start: 3, End: 10, Kind: layout.Money},
		{Name: "nome", Start: 10, End: 20, Kind: layout.Text},
	}
	line := "341XX34567JOAO      "

	fields, errs := Extract(line, specs)
	if len(errs) != 1 {
		t.Fatalf("expected 1 field error, got %d: %v", len(errs), errs)
	}
	if errs[0].Name != "valor" {
		t.Errorf("expected error on field valor, got %s", errs[0].Name)
	}
	// Bad field must not abort the rest of the line.
	if fields.Number("banco") != 341 {
		t.Errorf("banco = %d, want 341", fields.Number("banco"))
	}
	if fields.Text("nome") != "JOAO" {
		t.Errorf("nome = %q, want JOAO", fields.Text("nome"))
	}
}

func TestExtract_LineTooShort(t *testing.T) {
	specs := []layout.FieldSpec{{Name: "campo", Start: 0, End: 10, Kind: layout.Text}}
	_, errs := Extract("curta", specs)
	if len(errs) != 1 || errs[0].Err != ErrLineTooShort {
		t.Fatalf("expected ErrLineTooShort, got %v", errs)
	}
}

// TestExtract_RoundTrip re-encodes extracted fields back to fixed width and
// expects the original line byte for byte: numerics left-padded with zeros,
// text right-padded with spaces.
func TestExtract_RoundTrip(t *testing.T) {
	specs := []layout.FieldSpec{
		{Name: "banco", Start: 0, End: 3, Kind: layout.Numeric},
		{Name: "lote", Start: 3, End: 7, Kind: layout.Numeric},
		{Name: "nome", Start: 7, End: 27, Kind: layout.Text},
		{Name: "data", Start: 27, End: 35, Kind: layout.Date},
		{Name: "valor", Start: 35, End: 50, Kind: layout.Money},
	}
	line := "3410001ACME PAGAMENTOS SA  31122023000000000012345"

	fields, errs := Extract(line, specs)
	if len(errs) != 0 {
		t.Fatalf("unexpected field errors: %v", errs)
	}

	if got := reencode(fields, specs); got != line {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, line)
	}
}

func reencode(fields Fields, specs []layout.FieldSpec) string {
	var b strings.Builder
	for _, spec := range specs {
		width := spec.End - spec.Start
		v := fields[spec.Name]
		switch spec.Kind {
		case layout.Text:
			b.WriteString(fmt.Sprintf("%-*s", width, v.Text))
		case layout.Numeric, layout.Money:
			b.WriteString(fmt.Sprintf("%0*d", width, v.Number))
		case layout.Date:
			if v.Date == nil {
				b.WriteString(strings.Repeat("0", width))
			} else if width == 6 {
				b.WriteString(v.Date.Format("020106"))
			} else {
				b.WriteString(v.Date.Format("02012006"))
			}
		}
	}
	return b.String()
}

func TestParseDate_ReturnsUTCMidnight(t *testing.T) {
	d, err := ParseDate("15082026")
	if err != nil || d == nil {
		t.Fatalf("ParseDate: %v %v", d, err)
	}
	want := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	if !d.Equal(want) {
		t.Errorf("got %v, want %v", d, want)
	}
}
