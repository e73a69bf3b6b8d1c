// Package afip contiene las reglas de dominio para autorizar comprobantes AFIP.
// Utiliza algoritmos y catálogos de pkg/afip.
package afip

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

// Campos informados en las violaciones.
const (
	FieldCUITEmisor     = "cuit_emisor"
	FieldCUITReceptor   = "cuit_receptor"
	FieldPOS            = "pos"
	FieldTotalAmount    = "total_amount"
	FieldIVAAmount      = "iva_amount"
	FieldTaxCategory    = "tax_category"
	FieldInvoiceType    = "invoice_type"
	FieldInvoiceDate    = "invoice_date"
	FieldExpectedNumber = "invoice_number"
)

// ValidateInvoiceRequest aplica todas las reglas y devuelve un *domain.ValidationError
// con cada violación, o nil.
func ValidateInvoiceRequest(req entity.InvoiceRequest, rules *afip.Rules) error {
	verr := &domain.ValidationError{}

	switch {
	case req.CUITEmisor == "":
		verr.Add(FieldCUITEmisor, afip.ObsInvalidCUIT, "CUIT emisor es obligatorio")
	default:
		checkCUIT(verr, FieldCUITEmisor, "CUIT emisor", req.CUITEmisor)
	}
	if req.CUITReceptor != "" {
		checkCUIT(verr, FieldCUITReceptor, "CUIT receptor", req.CUITReceptor)
	}

	if req.POS < 1 {
		verr.Add(FieldPOS, afip.ObsInvalidPOS, "punto de venta inválido (debe ser >= 1)")
	}

	val := rules.Validation()
	if !rules.AmountInRange(req.TotalAmount) {
		verr.Add(FieldTotalAmount, afip.ObsInvalidAmount,
			"el importe total debe estar entre %s y %s", val.MinInvoiceAmount, val.MaxInvoiceAmount)
	}
	if req.IVAAmount != nil {
		switch {
		case req.IVAAmount.IsNegative():
			verr.Add(FieldIVAAmount, afip.ObsInvalidIVA, "el IVA no puede ser negativo")
		case req.IVAAmount.GreaterThan(req.TotalAmount):
			verr.Add(FieldIVAAmount, afip.ObsInvalidIVA, "el IVA no puede superar el importe total")
		}
	}

	if _, ok := rules.TaxCategory(req.TaxCategory); !ok {
		verr.Add(FieldTaxCategory, afip.ObsInvalidCategory, "categoría de IVA inválida: %d", req.TaxCategory)
	}
	if _, ok := rules.InvoiceType(req.InvoiceType); !ok {
		verr.Add(FieldInvoiceType, afip.ObsInvalidInvoiceType, "tipo de comprobante inválido: %d", req.InvoiceType)
	}
	if req.InvoiceDate != "" {
		if _, ok := afip.ParseDate(req.InvoiceDate); !ok {
			verr.Add(FieldInvoiceDate, afip.ObsInvalidDate, "fecha de comprobante inválida: %q (YYYYMMDD)", req.InvoiceDate)
		}
	}
	if req.ExpectedNumber < 0 {
		verr.Add(FieldExpectedNumber, afip.ObsSequenceMismatch, "número de comprobante inválido: %d", req.ExpectedNumber)
	}

	return verr.OrNil()
}

// IVAFor devuelve el IVA informado o, si no vino, el calculado sobre el total
// con la alícuota de la categoría (total = base * (1 + alícuota)).
//
// Sin iva_amount la base NO es total - 0 (el total completo): el IVA sale
// siempre del total con la alícuota. No volver a total - (iva_amount || 0).
func IVAFor(req entity.InvoiceRequest, rules *afip.Rules) decimal.Decimal {
	if req.IVAAmount != nil {
		return req.IVAAmount.Round(2)
	}
	cat, ok := rules.TaxCategory(req.TaxCategory)
	if !ok || cat.IVARate.IsZero() {
		return decimal.Zero
	}
	base := req.TotalAmount.Div(decimal.NewFromInt(1).Add(cat.IVARate))
	return req.TotalAmount.Sub(base).Round(2)
}

func checkCUIT(verr *domain.ValidationError, field, label, raw string) {
	err := afip.VerifyCUIT(raw)
	if err == nil {
		return
	}
	var cdErr *afip.CheckDigitError
	if errors.As(err, &cdErr) {
		verr.Add(field, afip.ObsInvalidCUIT, "%s inválido: dígito verificador esperado %d, recibido %d",
			label, cdErr.Expected, cdErr.Provided)
		return
	}
	verr.Add(field, afip.ObsInvalidCUIT, "%s inválido: debe tener 11 dígitos", label)
}
