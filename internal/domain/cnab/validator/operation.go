package validator

import (
	"fmt"

	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/document"
	"github.com/FACorreiaa/cnab-engine/internal/domain/cnab/layout"
)

// serviceNames is the FEBRABAN tipo de serviço table.
var serviceNames = map[int64]string{
	1:  "cobrança",
	3:  "boleto eletrônico",
	10: "dividendos",
	14: "consignação de parcelas",
	20: "pagamento a fornecedor",
	22: "pagamento de contas e tributos",
	25: "compror",
	30: "pagamento de salários",
	50: "pagamento de sinistros",
	60: "pagamento de despesas",
	75: "pagamento de honorários",
	80: "pagamento de representantes",
	98: "pagamentos diversos",
}

// launchForms is the forma de lançamento table, keyed by the service codes
// each form is published for. An empty set means any service accepts it.
var launchForms = map[int64][]int64{
	1:  {20, 25, 30, 50, 60, 75, 80, 98}, // crédito em conta corrente
	2:  {20, 30, 98},                     // cheque pagamento
	3:  {20, 30, 98},                     // DOC/TED
	5:  {20, 30, 98},                     // crédito em conta poupança
	10: {20, 98},                         // OP à disposição
	11: {22, 98},                         // pagamento de contas com código de barras
	30: {20, 98},                         // liquidação de títulos do próprio banco
	31: {20, 98},                         // liquidação de títulos de outros bancos
	41: {20, 30, 98},                     // TED outra titularidade
	43: {20, 30, 98},                     // TED mesma titularidade
	45: {20, 30, 98},                     // PIX transferência
	47: {20, 22, 98},                     // PIX QR code
}

// ValidateOperationCodes checks each batch's service/lançamento codes
// against the known-code tables. Unknown combinations are warnings, not
// errors: banks roll out custom codes faster than any table can track.
func ValidateOperationCodes(doc *document.Document) []Finding {
	if doc.Format != layout.CNAB240 {
		return nil
	}

	var findings []Finding
	for _, batch := range doc.Batches {
		if batch.Header == nil {
			continue
		}
		service := batch.Header.Fields.Number("tipoServico")
		form := batch.Header.Fields.Number("formaLancamento")

		if _, ok := serviceNames[service]; !ok {
			findings = append(findings, warnf(CategoryOperation, "OPR001", batch.Header.Line, "tipoServico",
				fmt.Sprintf("unknown service code %02d on batch %04d", service, batch.Number)))
			continue
		}

		services, ok := launchForms[form]
		if !ok {
			findings = append(findings, warnf(CategoryOperation, "OPR002", batch.Header.Line, "formaLancamento",
				fmt.Sprintf("unknown launch form %02d on batch %04d", form, batch.Number)))
			continue
		}
		if len(services) > 0 && !containsInt64(services, service) {
			findings = append(findings, warnf(CategoryOperation, "OPR003", batch.Header.Line, "formaLancamento",
				fmt.Sprintf("launch form %02d not published for service %02d", form, service)))
		}
	}
	return findings
}
