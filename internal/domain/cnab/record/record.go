// Package record decodes individual CNAB lines into typed records.
// There is one decoder per record kind; each validates its discriminator
// byte(s) before touching the layout table, and a mismatch is fatal for
// that line only.
package record

import (
	"fmt"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/extract"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

// Type is the top-level record kind.
type Type int

const (
	HeaderArquivo Type = iota
	HeaderLote
	Detalhe
	TrailerLote
	TrailerArquivo
)

func (t Type) String() string {
	switch t {
	case HeaderArquivo:
		return "header_arquivo"
	case HeaderLote:
		return "header_lote"
	case Detalhe:
		return "detalhe"
	case TrailerLote:
		return "trailer_lote"
	case TrailerArquivo:
		return "trailer_arquivo"
	}
	return "unknown"
}

// Segment identifies the detail sub-kind.
type Segment string

const (
	SegmentA Segment = "A"
	SegmentB Segment = "B"
	SegmentJ Segment = "J"
	SegmentO Segment = "O"
	// Segment400 marks CNAB400 title details, which carry no segment letter.
	Segment400 Segment = "1"
)

// BSubtype is the Segment B variant: a PIX key kind or the legacy
// address layout.
type BSubtype string

const (
	B01          BSubtype = "B01" // phone key
	B02          BSubtype = "B02" // email key
	B03          BSubtype = "B03" // CPF/CNPJ key
	B04          BSubtype = "B04" // random UUID key
	BTradicional BSubtype = "TRAD"
)

// JSubtype distinguishes the boleto payment line from its payer complement.
type JSubtype string

const (
	J01 JSubtype = "J01"
	J02 JSubtype = "J02"
)

// Kind is the full tagged record identity.
type Kind struct {
	Type     Type
	Segment  Segment  // detail records only
	BSubtype BSubtype // Segment B only
	JSubtype JSubtype // Segment J only
}

func (k Kind) String() string {
	if k.Type != Detalhe {
		return k.Type.String()
	}
	switch k.Segment {
	case SegmentB:
		return fmt.Sprintf("detalhe_%s_%s", k.Segment, k.BSubtype)
	case SegmentJ:
		return fmt.Sprintf("detalhe_%s_%s", k.Segment, k.JSubtype)
	}
	return fmt.Sprintf("detalhe_%s", k.Segment)
}

// Decoded is one parsed line: its kind, its typed fields, and whatever
// field-level errors were collected while decoding it.
type Decoded struct {
	Kind   Kind
	Line   int // 1-based position in the file
	Fields extract.Fields
	Errors []extract.FieldError
}

// Lote returns the batch number stamped on the record (CNAB240), or 0.
func (d *Decoded) Lote() int64 { return d.Fields.Number("lote") }

// WrongKindError reports a discriminator mismatch. It is scoped to one
// line and never aborts the rest of the file.
type WrongKindError struct {
	Line     int
	Expected string
	Found    string
}

func (e *WrongKindError) Error() string {
	return fmt.Sprintf("line %d: expected record kind %s, found %q", e.Line, e.Expected, e.Found)
}

// Parse decodes one line of the given format. The line length must already
// match the format; Parse dispatches on the record-type discriminator and,
// for details, on the segment letter.
func Parse(line string, lineNum int, format layout.Format) (*Decoded, error) {
	if format == layout.CNAB400 {
		return parse400(line, lineNum)
	}
	return parse240(line, lineNum)
}

func parse240(line string, lineNum int) (*Decoded, error) {
	switch line[layout.RecordTypeOffset240] {
	case layout.Type240HeaderArquivo:
		return decode(line, lineNum, Kind{Type: HeaderArquivo}, layout.HeaderArquivo240), nil
	case layout.Type240HeaderLote:
		return decode(line, lineNum, Kind{Type: HeaderLote}, layout.HeaderLote240), nil
	case layout.Type240Detalhe:
		return parseDetail240(line, lineNum)
	case layout.Type240TrailerLote:
		return decode(line, lineNum, Kind{Type: TrailerLote}, layout.TrailerLote240), nil
	case layout.Type240TrailerArquivo:
		return decode(line, lineNum, Kind{Type: TrailerArquivo}, layout.TrailerArquivo240), nil
	}
	return nil, &WrongKindError{
		Line:     lineNum,
		Expected: "0|1|3|5|9",
		Found:    string(line[layout.RecordTypeOffset240]),
	}
}

func parseDetail240(line string, lineNum int) (*Decoded, error) {
	segment := Segment(line[layout.SegmentOffset240])
	switch segment {
	case SegmentA:
		return decode(line, lineNum, Kind{Type: Detalhe, Segment: SegmentA}, layout.SegmentoA240), nil
	case SegmentB:
		return parseSegmentB(line, lineNum), nil
	case SegmentJ:
		return parseSegmentJ(line, lineNum), nil
	case SegmentO:
		return decode(line, lineNum, Kind{Type: Detalhe, Segment: SegmentO}, layout.SegmentoO240), nil
	}
	return nil, &WrongKindError{Line: lineNum, Expected: "segmento A|B|J|O", Found: string(segment)}
}

func parse400(line string, lineNum int) (*Decoded, error) {
	switch line[layout.RecordTypeOffset400] {
	case layout.Type400Header:
		return decode(line, lineNum, Kind{Type: HeaderArquivo}, layout.Header400), nil
	case layout.Type400Detalhe:
		return decode(line, lineNum, Kind{Type: Detalhe, Segment: Segment400}, layout.Detalhe400), nil
	case layout.Type400Trailer:
		return decode(line, lineNum, Kind{Type: TrailerArquivo}, layout.Trailer400), nil
	}
	return nil, &WrongKindError{
		Line:     lineNum,
		Expected: "0|1|9",
		Found:    string(line[layout.RecordTypeOffset400]),
	}
}

func decode(line string, lineNum int, kind Kind, specs []layout.FieldSpec) *Decoded {
	fields, errs := extract.Extract(line, specs)
	return &Decoded{Kind: kind, Line: lineNum, Fields: fields, Errors: errs}
}
