// Package document folds a decoded record stream into the hierarchical
// CNAB document: file -> batches -> detail groups.
package document

import (
	"fmt"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/record"
)

// DetailGroup is a multi-line payment instruction: the primary segment plus
// the complements paired to it by sequence adjacency (A+B, J01+J02).
type DetailGroup struct {
	Records []*record.Decoded
}

// Primary returns the leading record of the group.
func (g *DetailGroup) Primary() *record.Decoded {
	if len(g.Records) == 0 {
		return nil
	}
	return g.Records[0]
}

// Batch is one lote: header, detail groups, trailer.
type Batch struct {
	Number  int64
	Header  *record.Decoded
	Details []*DetailGroup
	Trailer *record.Decoded
}

// DetailCount returns the number of detail records (not groups) in the batch.
func (b *Batch) DetailCount() int {
	n := 0
	for _, g := range b.Details {
		n += len(g.Records)
	}
	return n
}

// SkippedLine records a line the decoder could not attribute to any record
// kind. Skipped lines never abort the file; validation surfaces them.
type SkippedLine struct {
	Line   int
	Reason string
}

// Document is the assembled file. It is owned by the caller; the engine
// keeps no state across invocations.
type Document struct {
	Format   layout.Format
	BankCode string
	Header   *record.Decoded
	Batches  []*Batch
	Trailer  *record.Decoded
	Skipped  []SkippedLine
	// RecordCount is the number of successfully decoded records,
	// headers and trailers included.
	RecordCount int
}

// DetailCount returns the total number of detail records in the file.
func (d *Document) DetailCount() int {
	n := 0
	for _, b := range d.Batches {
		n += b.DetailCount()
	}
	return n
}

// StructuralError is a record-ordering violation. The hierarchical shape is
// no longer reconstructable, so assembly aborts; the caller must re-request
// a fixed file.
type StructuralError struct {
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type assembleState int

const (
	awaitingFileHeader assembleState = iota
	inFile
	inBatch
	done
)

// Assemble folds records, in file order, into a Document. CNAB400 files
// carry no lote framing, so their details land in a single implicit batch.
func Assemble(records []*record.Decoded, skipped []SkippedLine, format layout.Format) (*Document, error) {
	doc := &Document{Format: format, Skipped: skipped}
	if format == layout.CNAB400 {
		return assemble400(doc, records)
	}
	return assemble240(doc, records)
}

func assemble240(doc *Document, records []*record.Decoded) (*Document, error) {
	state := awaitingFileHeader
	var current *Batch

	for _, rec := range records {
		doc.RecordCount++
		switch rec.Kind.Type {
		case record.HeaderArquivo:
			if state != awaitingFileHeader {
				return nil, &StructuralError{Line: rec.Line, Msg: "duplicate file header"}
			}
			doc.Header = rec
			doc.BankCode = fmt.Sprintf("%03d", rec.Fields.Number("banco"))
			state = inFile

		case record.HeaderLote:
			if state != inFile {
				return nil, &StructuralError{Line: rec.Line, Msg: "batch header outside file body"}
			}
			current = &Batch{Number: rec.Lote(), Header: rec}
			state = inBatch

		case record.Detalhe:
			if state != inBatch {
				return nil, &StructuralError{Line: rec.Line, Msg: "detail record outside a batch"}
			}
			attachDetail(current, rec)

		case record.TrailerLote:
			if state != inBatch {
				return nil, &StructuralError{Line: rec.Line, Msg: "batch trailer without open batch"}
			}
			current.Trailer = rec
			doc.Batches = append(doc.Batches, current)
			current = nil
			state = inFile

		case record.TrailerArquivo:
			if state != inFile {
				return nil, &StructuralError{Line: rec.Line, Msg: "file trailer out of order"}
			}
			doc.Trailer = rec
			state = done
		}
	}

	if doc.Header == nil {
		return nil, &StructuralError{Line: 1, Msg: "missing file header"}
	}
	if state == inBatch {
		line := 0
		if current.Header != nil {
			line = current.Header.Line
		}
		return nil, &StructuralError{Line: line, Msg: "batch not closed by trailer"}
	}
	return doc, nil
}

func assemble400(doc *Document, records []*record.Decoded) (*Document, error) {
	state := awaitingFileHeader
	implicit := &Batch{Number: 1}

	for _, rec := range records {
		doc.RecordCount++
		switch rec.Kind.Type {
		case record.HeaderArquivo:
			if state != awaitingFileHeader {
				return nil, &StructuralError{Line: rec.Line, Msg: "duplicate file header"}
			}
			doc.Header = rec
			doc.BankCode = fmt.Sprintf("%03d", rec.Fields.Number("banco"))
			state = inFile

		case record.Detalhe:
			if state != inFile {
				return nil, &StructuralError{Line: rec.Line, Msg: "detail record outside file body"}
			}
			implicit.Details = append(implicit.Details, &DetailGroup{Records: []*record.Decoded{rec}})

		case record.TrailerArquivo:
			if state != inFile {
				return nil, &StructuralError{Line: rec.Line, Msg: "file trailer before header"}
			}
			doc.Trailer = rec
			state = done

		default:
			return nil, &StructuralError{Line: rec.Line, Msg: "record kind not valid in CNAB400"}
		}
	}

	if doc.Header == nil {
		return nil, &StructuralError{Line: 1, Msg: "missing file header"}
	}
	if len(implicit.Details) > 0 {
		doc.Batches = append(doc.Batches, implicit)
	}
	return doc, nil
}

// attachDetail pairs complements with the preceding primary segment:
// a B rides with the A before it, a J02 with the J01 before it. Everything
// else opens a new group.
func attachDetail(batch *Batch, rec *record.Decoded) {
	if len(batch.Details) > 0 {
		last := batch.Details[len(batch.Details)-1]
		primary := last.Primary()
		switch {
		case rec.Kind.Segment == record.SegmentB && primary.Kind.Segment == record.SegmentA:
			last.Records = append(last.Records, rec)
			return
		case rec.Kind.Segment == record.SegmentJ && rec.Kind.JSubtype == record.J02 &&
			primary.Kind.Segment == record.SegmentJ && primary.Kind.JSubtype == record.J01:
			last.Records = append(last.Records, rec)
			return
		}
	}
	batch.Details = append(batch.Details, &DetailGroup{Records: []*record.Decoded{rec}})
}
