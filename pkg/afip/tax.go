package afip

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidTaxCategory la categoría de IVA no existe en las reglas vigentes.
var ErrInvalidTaxCategory = errors.New("afip: categoría de IVA inválida")

// IVABreakdown resultado del cálculo de IVA.
type IVABreakdown struct {
	BaseAmount  decimal.Decimal `json:"base_amount"`
	IVARate     decimal.Decimal `json:"iva_rate"`
	IVAAmount   decimal.Decimal `json:"iva_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// TaxCalculator calcula IVA según la categoría del contribuyente.
type TaxCalculator struct {
	rules *Rules
}

// NewTaxCalculator construye el calculador sobre una instantánea de reglas.
func NewTaxCalculator(rules *Rules) *TaxCalculator {
	return &TaxCalculator{rules: rules}
}

// CalculateIVA iva = round2(base * alícuota); total = round2(base + iva).
// Redondeo half-up a 2 decimales; el total se calcula con el IVA ya redondeado.
func (c *TaxCalculator) CalculateIVA(base decimal.Decimal, category int) (IVABreakdown, error) {
	cat, ok := c.rules.TaxCategory(category)
	if !ok {
		return IVABreakdown{}, fmt.Errorf("%w: %d", ErrInvalidTaxCategory, category)
	}
	iva := base.Mul(cat.IVARate).Round(2)
	return IVABreakdown{
		BaseAmount:  base,
		IVARate:     cat.IVARate,
		IVAAmount:   iva,
		TotalAmount: base.Add(iva).Round(2),
	}, nil
}

// SplitTotal separa un total en base e IVA: base = total - iva.
func SplitTotal(total, iva decimal.Decimal) decimal.Decimal {
	return total.Sub(iva).Round(2)
}
