package afip

// =============================================================================
// Condición frente al IVA (tabla de categorías de contribuyente)
// =============================================================================

const (
	TaxCategoryResponsableInscripto   = 1
	TaxCategoryResponsableNoInscripto = 2
	TaxCategoryNoResponsable          = 3
	TaxCategoryExento                 = 4
	TaxCategoryConsumidorFinal        = 5
	TaxCategoryMonotributo            = 6
)

// =============================================================================
// Tipos de comprobante (FEParamGetTiposCbte)
// =============================================================================

const (
	CbteFacturaA     = 1
	CbteNotaDebitoA  = 2
	CbteNotaCreditoA = 3
	CbteFacturaB     = 6
	CbteNotaDebitoB  = 7
	CbteNotaCreditoB = 8
	CbteFacturaC     = 11
	CbteNotaDebitoC  = 12
	CbteNotaCreditoC = 13
)

// CbteFchDesde vigencia informada para todos los tipos de comprobante.
const CbteFchDesde = "20100917"

// =============================================================================
// Tipos de documento del receptor (DocTipo)
// =============================================================================

const (
	DocTipoCUIT           = 80
	DocTipoCUIL           = 86
	DocTipoDNI            = 96
	DocTipoSinIdentificar = 99
)

// IsTaxIDDocument indica si el tipo de documento lleva dígito verificador de CUIT.
func IsTaxIDDocument(docTipo int) bool {
	return docTipo == DocTipoCUIT || docTipo == DocTipoCUIL
}

// =============================================================================
// Resultado del comprobante (FECAESolicitar)
// =============================================================================

const (
	ResultadoAprobado  = "A"
	ResultadoRechazado = "R"
	ResultadoParcial   = "P"
)

// EmisionTipoCAE modalidad de emisión de los puntos de venta simulados.
const EmisionTipoCAE = "CAE"

// =============================================================================
// Códigos de observación
// =============================================================================

const (
	ObsInternalError      = 10000
	ObsInvalidPOS         = 10005
	ObsInvalidInvoiceType = 10007
	ObsInvalidCUIT        = 10016
	ObsInvalidAmount      = 10048
	ObsSequenceMismatch   = 10017
	ObsInvalidDate        = 10036
	ObsInvalidIVA         = 10051
	ObsInvalidCategory    = 10052
)

// MonedaPesos código de moneda local.
const MonedaPesos = "PES"

// QRBaseURL URL del código QR de comprobantes electrónicos.
const QRBaseURL = "https://www.afip.gob.ar/fe/qr/?p="
