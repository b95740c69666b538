// Package validator certifies an assembled CNAB document against
// structural, integrity, business, bank-specific and operation-code rules.
// Findings are data, never exceptions: validation is expected to find
// problems and always returns the full picture.
package validator

import (
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
)

// Severity of a finding. Warnings never block a file.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category names the validator that produced a finding.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryIntegrity  Category = "integrity"
	CategoryBusiness   Category = "business"
	CategoryBank       Category = "bank"
	CategoryOperation  Category = "operation"
)

// Finding is one validation result with its locator.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
	Field    string   `json:"field,omitempty"`
}

// Report aggregates the findings of every validator. It is created fresh
// per run and immutable once returned.
type Report struct {
	Valid       bool                   `json:"valid"`
	Errors      []Finding              `json:"errors"`
	Warnings    []Finding              `json:"warnings"`
	PerCategory map[Category][]Finding `json:"perCategory"`
}

// Func is one independent validator. Validators share nothing and may not
// depend on each other's output.
type Func func(doc *document.Document) []Finding

// validators is the fixed orchestration order. Order affects only the
// listing of findings, never their content.
var validators = []Func{
	ValidateStructure,
	ValidateIntegrity,
	ValidateBusiness,
	ValidateBankRules,
	ValidateOperationCodes,
}

// Run executes every validator over the document and merges the findings.
// It never short-circuits: all validators run even when one fails, and
// Valid is true iff zero errors were found across all categories.
func Run(doc *document.Document) *Report {
	report := &Report{
		Errors:      []Finding{},
		Warnings:    []Finding{},
		PerCategory: make(map[Category][]Finding),
	}

	for _, validate := range validators {
		for _, f := range validate(doc) {
			report.PerCategory[f.Category] = append(report.PerCategory[f.Category], f)
			if f.Severity == SeverityError {
				report.Errors = append(report.Errors, f)
			} else {
				report.Warnings = append(report.Warnings, f)
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func errorf(cat Category, code string, line int, field, msg string) Finding {
	return Finding{Severity: SeverityError, Category: cat, Code: code, Message: msg, Line: line, Field: field}
}

func warnf(cat Category, code string, line int, field, msg string) Finding {
	return Finding{Severity: SeverityWarning, Category: cat, Code: code, Message: msg, Line: line, Field: field}
}
