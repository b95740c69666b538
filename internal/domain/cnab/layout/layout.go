// Package layout holds the FEBRABAN positional tables for CNAB files.
// Every record decoder consumes these tables through the generic field
// extractor; the tables, not the parsers, are the layout specification.
package layout

// Format identifies the CNAB line width of a file.
type Format int

const (
	FormatUnknown Format = iota
	CNAB240
	CNAB400
)

// LineLength returns the exact line width the format requires.
func (f Format) LineLength() int {
	switch f {
	case CNAB240:
		return 240
	case CNAB400:
		return 400
	default:
		return 0
	}
}

func (f Format) String() string {
	switch f {
	case CNAB240:
		return "CNAB240"
	case CNAB400:
		return "CNAB400"
	default:
		return "unknown"
	}
}

// FieldKind selects how the extractor types a field's raw bytes.
type FieldKind int

const (
	Text FieldKind = iota
	Numeric
	Date  // DDMMYYYY, or DDMMYY for 6-byte fields; all zeros means "not applicable"
	Money // digits only, implied 2 decimal places, stored as int64 cents
)

// FieldSpec describes one fixed-width field: half-open byte range [Start, End).
type FieldSpec struct {
	Name  string
	Start int
	End   int
	Kind  FieldKind
}

// Offsets shared by every CNAB240 record.
const (
	BankOffset240       = 0 // [0,3) bank code
	LoteOffset240       = 3 // [3,7) batch number
	RecordTypeOffset240 = 7 // single byte record type
	SegmentOffset240    = 13 // single byte segment letter on detail records

	RecordTypeOffset400 = 0  // single byte record type
	BankOffset400       = 76 // [76,79), meaningful on header lines only
)

// CNAB240 record type bytes.
const (
	Type240HeaderArquivo  = '0'
	Type240HeaderLote     = '1'
	Type240Detalhe        = '3'
	Type240TrailerLote    = '5'
	Type240TrailerArquivo = '9'
)

// CNAB400 record type bytes.
const (
	Type400Header  = '0'
	Type400Detalhe = '1'
	Type400Trailer = '9'
)

var prefix240 = []FieldSpec{
	{"banco", 0, 3, Numeric},
	{"lote", 3, 7, Numeric},
	{"registro", 7, 8, Numeric},
}

var detailPrefix240 = append(append([]FieldSpec{}, prefix240...),
	FieldSpec{"sequencial", 8, 13, Numeric},
	FieldSpec{"segmento", 13, 14, Text},
)

// HeaderArquivo240 is the CNAB240 file header layout.
var HeaderArquivo240 = append(append([]FieldSpec{}, prefix240...),
	FieldSpec{"tipoInscricao", 17, 18, Numeric},
	FieldSpec{"inscricao", 18, 32, Numeric},
	FieldSpec{"convenio", 32, 52, Text},
	FieldSpec{"agencia", 52, 57, Numeric},
	FieldSpec{"agenciaDV", 57, 58, Text},
	FieldSpec{"conta", 58, 70, Numeric},
	FieldSpec{"contaDV", 70, 71, Text},
	FieldSpec{"agenciaContaDV", 71, 72, Text},
	FieldSpec{"nomeEmpresa", 72, 102, Text},
	FieldSpec{"nomeBanco", 102, 132, Text},
	FieldSpec{"codigoRemessaRetorno", 142, 143, Numeric},
	FieldSpec{"dataGeracao", 143, 151, Date},
	FieldSpec{"horaGeracao", 151, 157, Numeric},
	FieldSpec{"sequencialArquivo", 157, 163, Numeric},
	FieldSpec{"versaoLayout", 163, 166, Numeric},
)

// HeaderLote240 is the CNAB240 batch header layout.
var HeaderLote240 = append(append([]FieldSpec{}, prefix240...),
	FieldSpec{"tipoOperacao", 8, 9, Text},
	FieldSpec{"tipoServico", 9, 11, Numeric},
	FieldSpec{"formaLancamento", 11, 13, Numeric},
	FieldSpec{"versaoLayoutLote", 13, 16, Numeric},
	FieldSpec{"tipoInscricao", 17, 18, Numeric},
	FieldSpec{"inscricao", 18, 32, Numeric},
	FieldSpec{"convenio", 32, 52, Text},
	FieldSpec{"agencia", 52, 57, Numeric},
	FieldSpec{"agenciaDV", 57, 58, Text},
	FieldSpec{"conta", 58, 70, Numeric},
	FieldSpec{"contaDV", 70, 71, Text},
	FieldSpec{"agenciaContaDV", 71, 72, Text},
	FieldSpec{"nomeEmpresa", 72, 102, Text},
	FieldSpec{"mensagem", 102, 142, Text},
	FieldSpec{"logradouro", 142, 172, Text},
	FieldSpec{"numeroLocal", 172, 177, Numeric},
	FieldSpec{"complemento", 177, 192, Text},
	FieldSpec{"cidade", 192, 212, Text},
	FieldSpec{"cep", 212, 217, Numeric},
	FieldSpec{"complementoCEP", 217, 220, Text},
	FieldSpec{"estado", 220, 222, Text},
)

// SegmentoA240 carries the main credit instruction of an A/B detail pair.
var SegmentoA240 = append(append([]FieldSpec{}, detailPrefix240...),
	FieldSpec{"tipoMovimento", 14, 15, Numeric},
	FieldSpec{"codigoMovimento", 15, 17, Numeric},
	FieldSpec{"camara", 17, 20, Numeric},
	FieldSpec{"bancoFavorecido", 20, 23, Numeric},
	FieldSpec{"agenciaFavorecido", 23, 28, Numeric},
	FieldSpec{"agenciaFavorecidoDV", 28, 29, Text},
	FieldSpec{"contaFavorecido", 29, 41, Numeric},
	FieldSpec{"contaFavorecidoDV", 41, 42, Text},
	FieldSpec{"agenciaContaDV", 42, 43, Text},
	FieldSpec{"nomeFavorecido", 43, 73, Text},
	FieldSpec{"numeroDocumento", 73, 93, Text},
	FieldSpec{"dataPagamento", 93, 101, Date},
	FieldSpec{"tipoMoeda", 101, 104, Text},
	FieldSpec{"quantidadeMoeda", 104, 119, Numeric},
	FieldSpec{"valorPagamento", 119, 134, Money},
	FieldSpec{"nossoNumero", 134, 154, Text},
	FieldSpec{"dataEfetivacao", 154, 162, Date},
	FieldSpec{"valorEfetivacao", 162, 177, Money},
	FieldSpec{"informacao", 177, 217, Text},
	FieldSpec{"aviso", 229, 230, Numeric},
	FieldSpec{"ocorrencias", 230, 240, Text},
)

// SegmentoBTradicional240 is the legacy Segment B layout: favored-party
// address data, no PIX key.
var SegmentoBTradicional240 = append(append([]FieldSpec{}, detailPrefix240...),
	FieldSpec{"subtipo", 14, 17, Text},
	FieldSpec{"tipoInscricao", 17, 18, Numeric},
	FieldSpec{"inscricao", 18, 32, Numeric},
	FieldSpec{"logradouro", 32, 62, Text},
	FieldSpec{"numeroLocal", 62, 67, Numeric},
	FieldSpec{"complemento", 67, 82, Text},
	FieldSpec{"bairro", 82, 97, Text},
	FieldSpec{"cidade", 97, 117, Text},
	FieldSpec{"cep", 117, 122, Numeric},
	FieldSpec{"complementoCEP", 122, 125, Text},
	FieldSpec{"estado", 125, 127, Text},
	FieldSpec{"dataVencimento", 127, 135, Date},
	FieldSpec{"valorDocumento", 135, 150, Money},
	FieldSpec{"valorAbatimento", 150, 165, Money},
	FieldSpec{"valorDesconto", 165, 180, Money},
	FieldSpec{"valorMora", 180, 195, Money},
	FieldSpec{"valorMulta", 195, 210, Money},
	FieldSpec{"informacoes", 210, 240, Text},
)

// SegmentoBPix240 is the PIX variant of Segment B (subtypes B01..B04).
// The key region holds the PIX key; its expected shape depends on the subtype.
var SegmentoBPix240 = append(append([]FieldSpec{}, detailPrefix240...),
	FieldSpec{"subtipo", 14, 17, Text},
	FieldSpec{"tipoInscricao", 17, 18, Numeric},
	FieldSpec{"inscricao", 18, 32, Numeric},
	FieldSpec{"chave", 32, 131, Text},
	FieldSpec{"identificadorTX", 131, 166, Text},
)

// PIX key content region of Segment B, used by the subtype classifier.
const (
	BSubtypeStart = 14
	BSubtypeEnd   = 17
	BKeyStart     = 32
	BKeyEnd       = 131
)

// SegmentoJ240 is the boleto payment line (subtype J01).
var SegmentoJ240 = append(append([]FieldSpec{}, detailPrefix240...),
	FieldSpec{"tipoMovimento", 14, 15, Numeric},
	FieldSpec{"codigoMovimento", 15, 17, Numeric},
	FieldSpec{"codigoBarras", 17, 61, Text},
	FieldSpec{"nomeBeneficiario", 61, 91, Text},
	FieldSpec{"dataVencimento", 91, 99, Date},
	FieldSpec{"valorTitulo", 99, 114, Money},
	FieldSpec{"valorDesconto", 114, 129, Money},
	FieldSpec{"valorMoraMulta", 129, 144, Money},
	FieldSpec{"dataPagamento", 144, 152, Date},
	FieldSpec{"valorPagamento", 152, 167, Money},
	FieldSpec{"quantidadeMoeda", 167, 182, Numeric},
	FieldSpec{"referenciaSacado", 182, 202, Text},
	FieldSpec{"nossoNumero", 202, 215, Text},
	FieldSpec{"ocorrencias", 230, 240, Text},
)

// SegmentoJ02240 is the payer/company complement of a J01 line (subtype J02).
var SegmentoJ02240 = append(append([]FieldSpec{}, detailPrefix240...),
	FieldSpec{"marcador", 17, 21, Text},
	FieldSpec{"tipoInscricaoPagador", 21, 22, Numeric},
	FieldSpec{"inscricaoPagador", 22, 37, Numeric},
	FieldSpec{"nomePagador", 37, 77, Text},
	FieldSpec{"tipoInscricaoBeneficiario", 77, 78, Numeric},
	FieldSpec{"inscricaoBeneficiario", 78, 93, Numeric},
	FieldSpec{"nomeBeneficiario", 93, 133, Text},
	FieldSpec{"tipoInscricaoSacador", 133, 134, Numeric},
	FieldSpec{"inscricaoSacador", 134, 149, Numeric},
	FieldSpec{"nomeSacador", 149, 189, Text},
)

// Marker region that distinguishes J01 from J02 lines.
const (
	JMarkerStart = 17
	JMarkerEnd   = 21
)

// SegmentoO240 covers utility/tax payments identified by a 48-digit barcode.
var SegmentoO240 = append(append([]FieldSpec{}, detailPrefix240...),
	FieldSpec{"tipoMovimento", 14, 15, Numeric},
	FieldSpec{"codigoMovimento", 15, 17, Numeric},
	FieldSpec{"codigoBarras", 17, 65, Text},
	FieldSpec{"nomeConcessionaria", 65, 95, Text},
	FieldSpec{"dataVencimento", 95, 103, Date},
	FieldSpec{"dataPagamento", 103, 111, Date},
	FieldSpec{"valorPagamento", 111, 126, Money},
	FieldSpec{"seuNumero", 126, 146, Text},
	FieldSpec{"nossoNumero", 146, 166, Text},
	FieldSpec{"ocorrencias", 230, 240, Text},
)

// TrailerLote240 closes a batch with record counts and monetary totals.
var TrailerLote240 = append(append([]FieldSpec{}, prefix240...),
	FieldSpec{"quantidadeRegistros", 17, 23, Numeric},
	FieldSpec{"somatoriaValores", 23, 41, Money},
	FieldSpec{"somatoriaQuantidadeMoedas", 41, 59, Numeric},
	FieldSpec{"numeroAvisoDebito", 59, 65, Numeric},
	FieldSpec{"ocorrencias", 230, 240, Text},
)

// TrailerArquivo240 closes the file with batch and record counts.
var TrailerArquivo240 = append(append([]FieldSpec{}, prefix240...),
	FieldSpec{"quantidadeLotes", 17, 23, Numeric},
	FieldSpec{"quantidadeRegistros", 23, 29, Numeric},
	FieldSpec{"quantidadeContas", 29, 35, Numeric},
)

// Header400 is the CNAB400 file header layout.
var Header400 = []FieldSpec{
	{"registro", 0, 1, Numeric},
	{"codigoRemessaRetorno", 1, 2, Numeric},
	{"literalRemessa", 2, 9, Text},
	{"codigoServico", 9, 11, Numeric},
	{"literalServico", 11, 26, Text},
	{"agencia", 26, 30, Numeric},
	{"conta", 32, 37, Numeric},
	{"contaDV", 37, 38, Text},
	{"nomeEmpresa", 46, 76, Text},
	{"banco", 76, 79, Numeric},
	{"nomeBanco", 79, 94, Text},
	{"dataGeracao", 94, 100, Date},
	{"sequencial", 394, 400, Numeric},
}

// Detalhe400 is the CNAB400 title detail layout (record type 1).
var Detalhe400 = []FieldSpec{
	{"registro", 0, 1, Numeric},
	{"tipoInscricao", 1, 3, Numeric},
	{"inscricao", 3, 17, Numeric},
	{"agencia", 17, 21, Numeric},
	{"conta", 23, 28, Numeric},
	{"contaDV", 28, 29, Text},
	{"nossoNumero", 62, 70, Text},
	{"dataOcorrencia", 110, 116, Date},
	{"numeroDocumento", 116, 126, Text},
	{"dataVencimento", 146, 152, Date},
	{"valorTitulo", 152, 165, Money},
	{"bancoCobranca", 165, 168, Numeric},
	{"agenciaCobranca", 168, 172, Numeric},
	{"sequencial", 394, 400, Numeric},
}

// Trailer400 is the CNAB400 file trailer layout.
var Trailer400 = []FieldSpec{
	{"registro", 0, 1, Numeric},
	{"codigoRemessaRetorno", 1, 2, Numeric},
	{"quantidadeTitulos", 17, 25, Numeric},
	{"valorTotal", 25, 39, Money},
	{"sequencial", 394, 400, Numeric},
}
