package validator

import (
	"fmt"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

// ValidateStructure checks the document's shape: header/trailer presence,
// the reserved lote numbers, batch-number consistency, undecodable lines
// and field-level decode errors.
func ValidateStructure(doc *document.Document) []Finding {
	var findings []Finding

	if doc.Header == nil {
		findings = append(findings, errorf(CategoryStructural, "STR001", 1, "", "missing file header"))
	}
	if doc.Trailer == nil {
		findings = append(findings, errorf(CategoryStructural, "STR002", 0, "", "missing file trailer"))
	}

	if doc.Format == layout.CNAB240 {
		if doc.Header != nil && doc.Header.Fields.Number("lote") != 0 {
			findings = append(findings, errorf(CategoryStructural, "STR003", doc.Header.Line, "lote",
				"file header must carry lote 0000"))
		}
		if doc.Trailer != nil && doc.Trailer.Fields.Number("lote") != 9999 {
			findings = append(findings, errorf(CategoryStructural, "STR004", doc.Trailer.Line, "lote",
				"file trailer must carry lote 9999"))
		}
		findings = append(findings, checkBatchNumbers(doc)...)
	}

	for _, skipped := range doc.Skipped {
		findings = append(findings, errorf(CategoryStructural, "STR006", skipped.Line, "",
			fmt.Sprintf("unrecognized record: %s", skipped.Reason)))
	}

	findings = append(findings, decodeErrors(doc)...)
	return findings
}

// checkBatchNumbers verifies every member of a batch is stamped with the
// batch's own number.
func checkBatchNumbers(doc *document.Document) []Finding {
	var findings []Finding
	for _, batch := range doc.Batches {
		members := batchMembers(batch)
		for _, rec := range members {
			if rec.Lote() != batch.Number {
				findings = append(findings, errorf(CategoryStructural, "STR005", rec.Line, "lote",
					fmt.Sprintf("record carries lote %04d inside batch %04d", rec.Lote(), batch.Number)))
			}
		}
	}
	return findings
}

// decodeErrors promotes field-level extraction errors collected during
// decoding into structural findings.
func decodeErrors(doc *document.Document) []Finding {
	var findings []Finding
	for _, rec := range allRecords(doc) {
		for _, fe := range rec.Errors {
			findings = append(findings, errorf(CategoryStructural, "STR007", rec.Line, fe.Name,
				fmt.Sprintf("malformed field: %v", fe.Err)))
		}
	}
	return findings
}
