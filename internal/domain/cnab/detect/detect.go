// Package detect provides automatic recognition of CNAB file formats.
// It identifies the line width (240/400), the issuing bank, the record-type
// inventory and whether the file is a remessa or retorno, and scores its own
// confidence. Low confidence is a signal for the caller, never a hard gate:
// a file is parseable as soon as the line width is supported.
package detect

import (
	"errors"
	"strings"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

var (
	ErrEmptyFile             = errors.New("file has no non-empty lines")
	ErrUnsupportedLineLength = errors.New("line length is not a supported CNAB width")
)

// FileType is the remessa/retorno direction guess.
type FileType string

const (
	FileTypeRemessa FileType = "remessa"
	FileTypeRetorno FileType = "retorno"
	FileTypeUnknown FileType = "unknown"
)

// Result is the outcome of format detection. It is computed once per input
// and never mutated afterwards.
type Result struct {
	Format      layout.Format
	BankCode    string
	BankName    string
	Confidence  int            // 0-100, additive heuristic
	RecordTypes map[string]int // record-type byte -> occurrences
	HasHeader   bool
	HasTrailer  bool
	FileType    FileType
	LineCount   int
}

// Registered FEBRABAN bank codes this engine knows by name.
var knownBanks = map[string]string{
	"001": "Banco do Brasil",
	"033": "Santander",
	"041": "Banrisul",
	"070": "BRB",
	"077": "Inter",
	"104": "Caixa Econômica Federal",
	"208": "BTG Pactual",
	"212": "Banco Original",
	"237": "Bradesco",
	"260": "Nubank",
	"336": "C6 Bank",
	"341": "Itaú Unibanco",
	"356": "Banco Real",
	"389": "Mercantil do Brasil",
	"422": "Safra",
	"748": "Sicredi",
	"756": "Sicoob",
}

// BankName resolves a bank code to its registered name, or "".
func BankName(code string) string { return knownBanks[code] }

// KnownBank reports whether the code is in the registered bank table.
func KnownBank(code string) bool {
	_, ok := knownBanks[code]
	return ok
}

// SplitLines breaks raw text into non-empty lines, tolerating CRLF endings.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Detect inspects the whole file and produces a detection result.
// Detect is idempotent: the same input always yields the same result.
func Detect(text string) (*Result, error) {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	format := formatForLength(len(lines[0]))
	if format == layout.FormatUnknown {
		return nil, ErrUnsupportedLineLength
	}

	res := &Result{
		Format:      format,
		RecordTypes: make(map[string]int),
		FileType:    FileTypeUnknown,
		LineCount:   len(lines),
	}

	for _, line := range lines {
		if len(line) != format.LineLength() {
			continue
		}
		rt := recordType(line, format)
		res.RecordTypes[rt]++

		switch format {
		case layout.CNAB240:
			switch rt[0] {
			case layout.Type240HeaderArquivo:
				res.HasHeader = true
				res.BankCode = line[layout.BankOffset240 : layout.BankOffset240+3]
				res.FileType = fileType240(line)
			case layout.Type240TrailerArquivo:
				res.HasTrailer = true
			}
		case layout.CNAB400:
			switch rt[0] {
			case layout.Type400Header:
				res.HasHeader = true
				res.BankCode = line[layout.BankOffset400 : layout.BankOffset400+3]
				res.FileType = fileType400(line)
			case layout.Type400Trailer:
				res.HasTrailer = true
			}
		}
	}

	res.BankName = knownBanks[res.BankCode]
	res.Confidence = score(res)
	return res, nil
}

// QuickDetect classifies a single line, for triage before a full decode.
func QuickDetect(firstLine string) (*Result, error) {
	firstLine = strings.TrimRight(firstLine, "\r\n")
	if strings.TrimSpace(firstLine) == "" {
		return nil, ErrEmptyFile
	}
	return Detect(firstLine)
}

func formatForLength(n int) layout.Format {
	switch n {
	case 240:
		return layout.CNAB240
	case 400:
		return layout.CNAB400
	default:
		return layout.FormatUnknown
	}
}

func recordType(line string, format layout.Format) string {
	if format == layout.CNAB400 {
		return line[layout.RecordTypeOffset400 : layout.RecordTypeOffset400+1]
	}
	return line[layout.RecordTypeOffset240 : layout.RecordTypeOffset240+1]
}

// fileType240 reads the remessa/retorno byte of a CNAB240 file header.
func fileType240(line string) FileType {
	switch line[142] {
	case '1':
		return FileTypeRemessa
	case '2':
		return FileTypeRetorno
	default:
		return FileTypeUnknown
	}
}

// fileType400 reads the literal REMESSA/RETORNO of a CNAB400 header.
func fileType400(line string) FileType {
	switch strings.TrimSpace(line[2:9]) {
	case "REMESSA":
		return FileTypeRemessa
	case "RETORNO":
		return FileTypeRetorno
	default:
		return FileTypeUnknown
	}
}

// score computes the additive 0-100 confidence:
// +30 known line width, +25 known bank, +25 header and trailer present,
// +10 at least one detail record, +10 remessa/retorno discriminator found.
func score(res *Result) int {
	s := 0
	if res.Format != layout.FormatUnknown {
		s += 30
	}
	if KnownBank(res.BankCode) {
		s += 25
	}
	if res.HasHeader && res.HasTrailer {
		s += 25
	}
	if hasDetail(res) {
		s += 10
	}
	if res.FileType != FileTypeUnknown {
		s += 10
	}
	return s
}

func hasDetail(res *Result) bool {
	switch res.Format {
	case layout.CNAB240:
		return res.RecordTypes[string(layout.Type240Detalhe)] > 0
	case layout.CNAB400:
		return res.RecordTypes[string(layout.Type400Detalhe)] > 0
	}
	return false
}
