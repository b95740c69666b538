package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/record"
)

var (
	pixPhonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{9,13}$`)
	pixEmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateBusiness applies domain rules: CPF/CNPJ check digits, date
// plausibility and PIX key shape.
func ValidateBusiness(doc *document.Document) []Finding {
	var findings []Finding

	for _, rec := range allRecords(doc) {
		findings = append(findings, checkInscricao(rec)...)
		findings = append(findings, checkDates(rec)...)
		if rec.Kind.Segment == record.SegmentB && rec.Kind.BSubtype != record.BTradicional {
			findings = append(findings, checkPixKey(rec)...)
		}
	}

	return findings
}

// checkInscricao validates the CPF or CNPJ carried by a record, according
// to its declared tipo de inscrição. All-zero means "not provided".
func checkInscricao(rec *record.Decoded) []Finding {
	tipo, ok := rec.Fields["tipoInscricao"]
	if !ok {
		return nil
	}
	inscricao, ok := rec.Fields["inscricao"]
	if !ok || inscricao.Number == 0 {
		return nil
	}

	switch tipo.Number {
	case 1:
		digits := fmt.Sprintf("%011d", inscricao.Number)
		if !ValidCPF(digits) {
			return []Finding{errorf(CategoryBusiness, "BUS001", rec.Line, "inscricao",
				fmt.Sprintf("invalid CPF check digits: %s", digits))}
		}
	case 2:
		digits := fmt.Sprintf("%014d", inscricao.Number)
		if !ValidCNPJ(digits) {
			return []Finding{errorf(CategoryBusiness, "BUS002", rec.Line, "inscricao",
				fmt.Sprintf("invalid CNPJ check digits: %s", digits))}
		}
	}
	return nil
}

// checkDates flags dates far outside the plausible operating window.
// Calendar validity (Feb 30, leap years) is already enforced at extraction.
func checkDates(rec *record.Decoded) []Finding {
	var findings []Finding
	for name, val := range rec.Fields {
		if val.Date == nil {
			continue
		}
		year := val.Date.Year()
		if year < 1980 || year > 2100 {
			findings = append(findings, warnf(CategoryBusiness, "BUS003", rec.Line, name,
				fmt.Sprintf("date %s outside plausible range", val.Date.Format("2006-01-02"))))
		}
	}
	return findings
}

// checkPixKey verifies the key content matches the declared subtype.
func checkPixKey(rec *record.Decoded) []Finding {
	key := rec.Fields.Text("chave")
	if key == "" {
		return []Finding{errorf(CategoryBusiness, "BUS004", rec.Line, "chave", "PIX segment without key")}
	}

	valid := false
	switch rec.Kind.BSubtype {
	case record.B01:
		valid = pixPhonePattern.MatchString(key)
	case record.B02:
		valid = pixEmailPattern.MatchString(key)
	case record.B03:
		digits := onlyDigits(key)
		valid = (len(digits) == 11 && ValidCPF(digits)) || (len(digits) == 14 && ValidCNPJ(digits))
	case record.B04:
		_, err := uuid.Parse(key)
		valid = err == nil
	}
	if !valid {
		return []Finding{errorf(CategoryBusiness, "BUS005", rec.Line, "chave",
			fmt.Sprintf("PIX key does not match declared type %s", rec.Kind.BSubtype))}
	}
	return nil
}

// ValidCPF runs the standard weighted mod-11 check over an 11-digit CPF.
// Repeated-digit sequences are rejected outright.
func ValidCPF(cpf string) bool {
	if len(cpf) != 11 || !numeric(cpf) || repeated(cpf) {
		return false
	}
	if digit := checkDigit(cpf[:9], 10); digit != int(cpf[9]-'0') {
		return false
	}
	return checkDigit(cpf[:10], 11) == int(cpf[10]-'0')
}

// ValidCNPJ runs the standard weighted mod-11 check over a 14-digit CNPJ.
// Repeated-digit sequences are rejected outright.
func ValidCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || !numeric(cnpj) || repeated(cnpj) {
		return false
	}
	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	if weightedDigit(cnpj[:12], weights1) != int(cnpj[12]-'0') {
		return false
	}
	return weightedDigit(cnpj[:13], weights2) == int(cnpj[13]-'0')
}

// checkDigit computes a CPF verification digit with descending weights
// starting at firstWeight.
func checkDigit(digits string, firstWeight int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * (firstWeight - i)
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func weightedDigit(digits string, weights []int) int {
	sum := 0
	for i, r := range digits {
		sum += int(r-'0') * weights[i]
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func numeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func repeated(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
