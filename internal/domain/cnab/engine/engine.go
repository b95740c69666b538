// Package engine is the collaborator-facing surface of the CNAB core:
// detect, decode and validate. Every call is a pure transformation of its
// input; the engine retains no state across invocations, so callers may
// fan out across files freely.
package engine

import (
	"errors"
	"fmt"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/detect"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/record"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/validator"
)

// DecodeError is a fatal decode failure: detection rejected the file or
// the record stream could not be assembled into a document.
type DecodeError struct {
	Stage string // "detect" or "assemble"
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cnab decode failed at %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Detect inspects the whole input and reports format, bank and confidence.
// Low confidence is surfaced, never escalated to an error: callers pick
// their own thresholds.
func Detect(text string) (*detect.Result, error) {
	return detect.Detect(text)
}

// QuickDetect triages a single line before committing to a full decode.
func QuickDetect(firstLine string) (*detect.Result, error) {
	return detect.QuickDetect(firstLine)
}

// Decode turns raw CNAB text into an assembled document. Lines with a wrong
// length or an unknown discriminator are collected on the document, not
// fatal; only a failed detection or a record-ordering violation aborts.
func Decode(text string) (*document.Document, error) {
	detection, err := Detect(text)
	if err != nil {
		return nil, &DecodeError{Stage: "detect", Err: err}
	}

	lines := detect.SplitLines(text)
	want := detection.Format.LineLength()

	var records []*record.Decoded
	var skipped []document.SkippedLine

	for i, line := range lines {
		lineNum := i + 1
		if len(line) != want {
			skipped = append(skipped, document.SkippedLine{
				Line:   lineNum,
				Reason: fmt.Sprintf("line length %d, expected %d", len(line), want),
			})
			continue
		}

		rec, err := record.Parse(line, lineNum, detection.Format)
		if err != nil {
			var wrongKind *record.WrongKindError
			if errors.As(err, &wrongKind) {
				skipped = append(skipped, document.SkippedLine{Line: lineNum, Reason: wrongKind.Error()})
				continue
			}
			return nil, &DecodeError{Stage: "assemble", Err: err}
		}
		records = append(records, rec)
	}

	doc, err := document.Assemble(records, skipped, detection.Format)
	if err != nil {
		return nil, &DecodeError{Stage: "assemble", Err: err}
	}
	if doc.BankCode == "" || doc.BankCode == "000" {
		doc.BankCode = detection.BankCode
	}
	return doc, nil
}

// Validate runs the full validation suite over an assembled document and
// returns the merged report.
func Validate(doc *document.Document) *validator.Report {
	return validator.Run(doc)
}
