package detect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

// line240 builds a synthetic 240-byte line from zero filler plus overlays.
func line240(overlays map[int]string) string {
	b := []byte(strings.Repeat("0", 240))
	for at, s := range overlays {
		copy(b[at:], s)
	}
	return string(b)
}

func header240(bank string, fileType byte) string {
	return line240(map[int]string{0: bank, 3: "0000", 7: "0", 142: string(fileType)})
}

func sample240() string {
	return strings.Join([]string{
		header240("341", '1'),
		line240(map[int]string{0: "341", 3: "0001", 7: "1"}),
		line240(map[int]string{0: "341", 3: "0001", 7: "3", 13: "A"}),
		line240(map[int]string{0: "341", 3: "0001", 7: "5"}),
		line240(map[int]string{0: "341", 3: "9999", 7: "9"}),
	}, "\n")
}

func TestDetect_CNAB240Full(t *testing.T) {
	res, err := Detect(sample240())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if res.Format != layout.CNAB240 {
		t.Errorf("format = %v, want CNAB240", res.Format)
	}
	if res.BankCode != "341" || res.BankName != "Itaú Unibanco" {
		t.Errorf("bank = %s/%s, want 341/Itaú Unibanco", res.BankCode, res.BankName)
	}
	if !res.HasHeader || !res.HasTrailer {
		t.Errorf("header/trailer flags = %v/%v", res.HasHeader, res.HasTrailer)
	}
	if res.FileType != FileTypeRemessa {
		t.Errorf("file type = %s, want remessa", res.FileType)
	}
	// 30 width + 25 known bank + 25 header&trailer + 10 detail + 10 remessa
	if res.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", res.Confidence)
	}
	if res.RecordTypes["3"] != 1 || res.RecordTypes["0"] != 1 {
		t.Errorf("record inventory wrong: %v", res.RecordTypes)
	}
}

func TestDetect_Idempotent(t *testing.T) {
	input := sample240()
	first, err := Detect(input)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	second, err := Detect(input)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("detection not idempotent:\n first %+v\nsecond %+v", first, second)
	}
}

func TestDetect_UnknownBankLowersConfidence(t *testing.T) {
	res, err := Detect(header240("999", '1'))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	// 30 width + 10 remessa; no trailer, no detail, unknown bank.
	if res.Confidence != 40 {
		t.Errorf("confidence = %d, want 40", res.Confidence)
	}
	if res.BankName != "" {
		t.Errorf("unexpected bank name %q", res.BankName)
	}
}

func TestDetect_EmptyFile(t *testing.T) {
	for _, input := range []string{"", "\n\n", "  \r\n"} {
		if _, err := Detect(input); err != ErrEmptyFile {
			t.Errorf("Detect(%q) err = %v, want ErrEmptyFile", input, err)
		}
	}
}

func TestDetect_UnsupportedLineLength(t *testing.T) {
	if _, err := Detect(strings.Repeat("0", 100)); err != ErrUnsupportedLineLength {
		t.Errorf("err = %v, want ErrUnsupportedLineLength", err)
	}
}

func TestDetect_CNAB400(t *testing.T) {
	header := []byte(strings.Repeat("0", 400))
	copy(header[0:], "01RETORNO")
	copy(header[76:], "237")
	detail := []byte(strings.Repeat("0", 400))
	detail[0] = '1'
	trailer := []byte(strings.Repeat("0", 400))
	trailer[0] = '9'

	res, err := Detect(string(header) + "\n" + string(detail) + "\n" + string(trailer))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.Format != layout.CNAB400 {
		t.Errorf("format = %v, want CNAB400", res.Format)
	}
	if res.BankCode != "237" || res.BankName != "Bradesco" {
		t.Errorf("bank = %s/%s", res.BankCode, res.BankName)
	}
	if res.FileType != FileTypeRetorno {
		t.Errorf("file type = %s, want retorno", res.FileType)
	}
	if res.Confidence != 100 {
		t.Errorf("confidence = %d, want 100", res.Confidence)
	}
}

func TestQuickDetect_SingleLine(t *testing.T) {
	res, err := QuickDetect(header240("104", '2') + "\r\n")
	if err != nil {
		t.Fatalf("QuickDetect: %v", err)
	}
	if res.BankCode != "104" || res.FileType != FileTypeRetorno {
		t.Errorf("got %s/%s", res.BankCode, res.FileType)
	}
	if res.HasTrailer {
		t.Error("single header line cannot have a trailer")
	}
	// 30 width + 25 known bank + 10 retorno; no trailer pair, no details.
	if res.Confidence != 65 {
		t.Errorf("confidence = %d, want 65", res.Confidence)
	}
}

func TestQuickDetect_Empty(t *testing.T) {
	if _, err := QuickDetect("   "); err != ErrEmptyFile {
		t.Errorf("err = %v, want ErrEmptyFile", err)
	}
}
