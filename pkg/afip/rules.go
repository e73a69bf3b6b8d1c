package afip

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TaxCategory condición frente al IVA con su alícuota (fracción, ej. 0.21).
type TaxCategory struct {
	Code    int             `json:"code"`
	Name    string          `json:"name"`
	IVARate decimal.Decimal `json:"iva_rate"`
}

// InvoiceType tipo de comprobante (Factura A, Nota de Crédito B, ...).
type InvoiceType struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// ValidationRules umbrales de importes y vigencia del CAE.
type ValidationRules struct {
	MinInvoiceAmount  decimal.Decimal `json:"min_invoice_amount"`
	MaxInvoiceAmount  decimal.Decimal `json:"max_invoice_amount"`
	CAEExpirationDays int             `json:"cae_expiration_days"`
}

// ResponseDelays demoras simuladas por tipo de operación.
type ResponseDelays struct {
	Auth       time.Duration `json:"auth"`
	Invoice    time.Duration `json:"invoice"`
	Validation time.Duration `json:"validation"`
}

// Rules instantánea inmutable de la configuración de negocio.
// Recargar significa construir una nueva; nunca se modifica en sitio.
type Rules struct {
	taxCategories map[int]TaxCategory
	invoiceTypes  map[int]InvoiceType
	validation    ValidationRules
	delays        ResponseDelays
}

// NewRules copia las tablas recibidas en una instantánea nueva.
func NewRules(categories []TaxCategory, types []InvoiceType, validation ValidationRules, delays ResponseDelays) *Rules {
	r := &Rules{
		taxCategories: make(map[int]TaxCategory, len(categories)),
		invoiceTypes:  make(map[int]InvoiceType, len(types)),
		validation:    validation,
		delays:        delays,
	}
	for _, c := range categories {
		r.taxCategories[c.Code] = c
	}
	for _, t := range types {
		r.invoiceTypes[t.Code] = t
	}
	if r.validation.CAEExpirationDays <= 0 {
		r.validation.CAEExpirationDays = DefaultCAEExpirationDays
	}
	return r
}

// DefaultRules tablas de AFIP usadas cuando no hay archivo de reglas.
func DefaultRules() *Rules {
	return NewRules(
		[]TaxCategory{
			{Code: TaxCategoryResponsableInscripto, Name: "IVA Responsable Inscripto", IVARate: decimal.RequireFromString("0.21")},
			{Code: TaxCategoryResponsableNoInscripto, Name: "IVA Responsable no Inscripto", IVARate: decimal.RequireFromString("0.21")},
			{Code: TaxCategoryNoResponsable, Name: "IVA no Responsable", IVARate: decimal.Zero},
			{Code: TaxCategoryExento, Name: "IVA Sujeto Exento", IVARate: decimal.Zero},
			{Code: TaxCategoryConsumidorFinal, Name: "Consumidor Final", IVARate: decimal.RequireFromString("0.21")},
			{Code: TaxCategoryMonotributo, Name: "Responsable Monotributo", IVARate: decimal.Zero},
		},
		[]InvoiceType{
			{Code: CbteFacturaA, Name: "Factura A"},
			{Code: CbteNotaDebitoA, Name: "Nota de Débito A"},
			{Code: CbteNotaCreditoA, Name: "Nota de Crédito A"},
			{Code: CbteFacturaB, Name: "Factura B"},
			{Code: CbteNotaDebitoB, Name: "Nota de Débito B"},
			{Code: CbteNotaCreditoB, Name: "Nota de Crédito B"},
			{Code: CbteFacturaC, Name: "Factura C"},
			{Code: CbteNotaDebitoC, Name: "Nota de Débito C"},
			{Code: CbteNotaCreditoC, Name: "Nota de Crédito C"},
		},
		ValidationRules{
			MinInvoiceAmount:  decimal.RequireFromString("0.01"),
			MaxInvoiceAmount:  decimal.RequireFromString("999999999.99"),
			CAEExpirationDays: DefaultCAEExpirationDays,
		},
		ResponseDelays{},
	)
}

// TaxCategory busca una categoría por código.
func (r *Rules) TaxCategory(code int) (TaxCategory, bool) {
	c, ok := r.taxCategories[code]
	return c, ok
}

// InvoiceType busca un tipo de comprobante por código.
func (r *Rules) InvoiceType(code int) (InvoiceType, bool) {
	t, ok := r.invoiceTypes[code]
	return t, ok
}

// TaxCategories lista ordenada por código.
func (r *Rules) TaxCategories() []TaxCategory {
	out := make([]TaxCategory, 0, len(r.taxCategories))
	for _, c := range r.taxCategories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// InvoiceTypes lista ordenada por código.
func (r *Rules) InvoiceTypes() []InvoiceType {
	out := make([]InvoiceType, 0, len(r.invoiceTypes))
	for _, t := range r.invoiceTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Validation umbrales vigentes.
func (r *Rules) Validation() ValidationRules { return r.validation }

// Delays demoras simuladas.
func (r *Rules) Delays() ResponseDelays { return r.delays }

// AmountInRange indica si total está dentro de [min, max].
func (r *Rules) AmountInRange(total decimal.Decimal) bool {
	return total.GreaterThanOrEqual(r.validation.MinInvoiceAmount) &&
		total.LessThanOrEqual(r.validation.MaxInvoiceAmount)
}
