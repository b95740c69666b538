package validator

import (
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/record"
)

func batchMembers(batch *document.Batch) []*record.Decoded {
	var members []*record.Decoded
	if batch.Header != nil {
		members = append(members, batch.Header)
	}
	for _, group := range batch.Details {
		members = append(members, group.Records...)
	}
	if batch.Trailer != nil {
		members = append(members, batch.Trailer)
	}
	return members
}

func allRecords(doc *document.Document) []*record.Decoded {
	var records []*record.Decoded
	if doc.Header != nil {
		records = append(records, doc.Header)
	}
	for _, batch := range doc.Batches {
		records = append(records, batchMembers(batch)...)
	}
	if doc.Trailer != nil {
		records = append(records, doc.Trailer)
	}
	return records
}

func batchDetails(batch *document.Batch) []*record.Decoded {
	var details []*record.Decoded
	for _, group := range batch.Details {
		details = append(details, group.Records...)
	}
	return details
}
