package validator

import (
	"fmt"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/record"
)

// Mismatches beyond one cent are errors, not warnings: money must reconcile.
const epsilonCents = 1

// ValidateIntegrity reconciles trailer counts and monetary totals against
// the sums computed by walking the detail records.
func ValidateIntegrity(doc *document.Document) []Finding {
	if doc.Format == layout.CNAB400 {
		return integrity400(doc)
	}
	return integrity240(doc)
}

func integrity240(doc *document.Document) []Finding {
	var findings []Finding

	for _, batch := range doc.Batches {
		if batch.Trailer == nil {
			continue
		}
		declared := batch.Trailer.Fields.Number("quantidadeRegistros")
		actual := int64(batch.DetailCount())
		if declared != actual {
			findings = append(findings, errorf(CategoryIntegrity, "INT001", batch.Trailer.Line, "quantidadeRegistros",
				fmt.Sprintf("batch %04d trailer declares %d records, found %d", batch.Number, declared, actual)))
		}

		declaredSum := batch.Trailer.Fields.Number("somatoriaValores")
		actualSum := batchPaymentTotal(batch)
		if diff := declaredSum - actualSum; diff > epsilonCents || diff < -epsilonCents {
			findings = append(findings, errorf(CategoryIntegrity, "INT002", batch.Trailer.Line, "somatoriaValores",
				fmt.Sprintf("batch %04d trailer declares total %d cents, computed %d", batch.Number, declaredSum, actualSum)))
		}
	}

	if doc.Trailer != nil {
		declaredLotes := doc.Trailer.Fields.Number("quantidadeLotes")
		if declaredLotes != int64(len(doc.Batches)) {
			findings = append(findings, errorf(CategoryIntegrity, "INT003", doc.Trailer.Line, "quantidadeLotes",
				fmt.Sprintf("file trailer declares %d batches, found %d", declaredLotes, len(doc.Batches))))
		}
		declaredRecords := doc.Trailer.Fields.Number("quantidadeRegistros")
		if declaredRecords != int64(doc.RecordCount) {
			findings = append(findings, errorf(CategoryIntegrity, "INT004", doc.Trailer.Line, "quantidadeRegistros",
				fmt.Sprintf("file trailer declares %d records, found %d", declaredRecords, doc.RecordCount)))
		}
	}

	return findings
}

func integrity400(doc *document.Document) []Finding {
	var findings []Finding
	if doc.Trailer == nil {
		return findings
	}

	declared := doc.Trailer.Fields.Number("quantidadeTitulos")
	actual := int64(doc.DetailCount())
	if declared != actual {
		findings = append(findings, errorf(CategoryIntegrity, "INT005", doc.Trailer.Line, "quantidadeTitulos",
			fmt.Sprintf("trailer declares %d titles, found %d", declared, actual)))
	}

	declaredSum := doc.Trailer.Fields.Number("valorTotal")
	var actualSum int64
	for _, batch := range doc.Batches {
		for _, det := range batchDetails(batch) {
			actualSum += det.Fields.Number("valorTitulo")
		}
	}
	if diff := declaredSum - actualSum; diff > epsilonCents || diff < -epsilonCents {
		findings = append(findings, errorf(CategoryIntegrity, "INT006", doc.Trailer.Line, "valorTotal",
			fmt.Sprintf("trailer declares total %d cents, computed %d", declaredSum, actualSum)))
	}
	return findings
}

// batchPaymentTotal sums the payment value of every primary detail record.
// Complement segments (B, J02) carry no payment of their own.
func batchPaymentTotal(batch *document.Batch) int64 {
	var total int64
	for _, group := range batch.Details {
		primary := group.Primary()
		if primary == nil {
			continue
		}
		switch primary.Kind.Segment {
		case record.SegmentA, record.SegmentJ, record.SegmentO:
			total += primary.Fields.Number("valorPagamento")
		}
	}
	return total
}
