package afip_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/internal/domain"
	domafip "github.com/jhoicas/afip-mock/internal/domain/afip"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

func request() entity.InvoiceRequest {
	return entity.InvoiceRequest{
		CUITEmisor:  "20123456786",
		POS:         1,
		InvoiceType: afip.CbteFacturaB,
		Concept:     1,
		TotalAmount: decimal.RequireFromString("121"),
		TaxCategory: afip.TaxCategoryResponsableInscripto,
	}
}

func codeOf(t *testing.T, err error, field string) int {
	t.Helper()
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, v := range verr.Violations {
		if v.Field == field {
			return v.Code
		}
	}
	t.Fatalf("sin violación de %s", field)
	return 0
}

func TestValidateInvoiceRequest_CodigosPorCampo(t *testing.T) {
	rules := afip.DefaultRules()
	require.NoError(t, domafip.ValidateInvoiceRequest(request(), rules))

	req := request()
	req.POS = 0
	posCode := codeOf(t, domafip.ValidateInvoiceRequest(req, rules), domafip.FieldPOS)
	assert.Equal(t, afip.ObsInvalidPOS, posCode)

	req = request()
	req.InvoiceType = 99
	typeCode := codeOf(t, domafip.ValidateInvoiceRequest(req, rules), domafip.FieldInvoiceType)
	assert.Equal(t, afip.ObsInvalidInvoiceType, typeCode)

	assert.NotEqual(t, afip.ObsInternalError, posCode)
	assert.NotEqual(t, afip.ObsInternalError, typeCode)
	assert.NotEqual(t, posCode, typeCode)
}

func TestIVAFor(t *testing.T) {
	rules := afip.DefaultRules()

	// sin IVA informado se deriva del total, no del total completo como base.
	got := domafip.IVAFor(request(), rules)
	assert.True(t, got.Equal(decimal.RequireFromString("21")), "iva %s", got)

	req := request()
	iva := decimal.RequireFromString("20.999")
	req.IVAAmount = &iva
	got = domafip.IVAFor(req, rules)
	assert.True(t, got.Equal(decimal.RequireFromString("21")), "iva %s", got)

	req = request()
	req.TaxCategory = afip.TaxCategoryMonotributo
	assert.True(t, domafip.IVAFor(req, rules).IsZero())
}
