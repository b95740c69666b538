package validator

import (
	"fmt"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

// bankOverrides relaxes or tightens rules for a specific bank. Banks differ
// in how strictly they follow the FEBRABAN layout, so the base rules are
// adjusted per bank code instead of forked per parser.
type bankOverrides struct {
	// convenioRequired: the bank rejects files whose header carries a
	// blank convênio.
	convenioRequired bool
	// layoutVersions the bank accepts on the file header; empty means any.
	layoutVersions []int64
	// strictRecords: unrecognized lines are an error for this bank rather
	// than something it tolerates.
	strictRecords bool
}

var bankRules = map[string]bankOverrides{
	"001": {convenioRequired: true, layoutVersions: []int64{40, 80, 87}},
	"033": {layoutVersions: []int64{40, 60}},
	"104": {convenioRequired: true},
	"237": {strictRecords: true, layoutVersions: []int64{89, 103}},
	"341": {layoutVersions: []int64{40, 80, 103}},
	"756": {convenioRequired: true, strictRecords: true},
}

// ValidateBankRules applies the per-bank override table.
func ValidateBankRules(doc *document.Document) []Finding {
	var findings []Finding

	rules, known := bankRules[doc.BankCode]
	if !known {
		if doc.BankCode != "" && doc.BankCode != "000" {
			findings = append(findings, warnf(CategoryBank, "BNK001", headerLine(doc), "banco",
				fmt.Sprintf("no bank-specific rules registered for bank %s", doc.BankCode)))
		}
		return findings
	}

	if doc.Format != layout.CNAB240 || doc.Header == nil {
		return findings
	}

	if rules.convenioRequired && doc.Header.Fields.Text("convenio") == "" {
		findings = append(findings, errorf(CategoryBank, "BNK002", doc.Header.Line, "convenio",
			fmt.Sprintf("bank %s requires the convênio field on the file header", doc.BankCode)))
	}

	if len(rules.layoutVersions) > 0 {
		version := doc.Header.Fields.Number("versaoLayout")
		if !containsInt64(rules.layoutVersions, version) {
			findings = append(findings, warnf(CategoryBank, "BNK003", doc.Header.Line, "versaoLayout",
				fmt.Sprintf("layout version %03d not published by bank %s", version, doc.BankCode)))
		}
	}

	if rules.strictRecords {
		for _, skipped := range doc.Skipped {
			findings = append(findings, errorf(CategoryBank, "BNK004", skipped.Line, "",
				fmt.Sprintf("bank %s does not tolerate unrecognized records", doc.BankCode)))
		}
	}

	return findings
}

func headerLine(doc *document.Document) int {
	if doc.Header != nil {
		return doc.Header.Line
	}
	return 1
}

func containsInt64(values []int64, v int64) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
