package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

func newWSFE(t *testing.T) (*billing.WSFEUseCase, *billing.InvoiceService) {
	t.Helper()
	svc := newService(t, nil)
	return billing.NewWSFEUseCase(svc, 0), svc
}

func lote(pos, cbteTipo int, lines ...dto.FeDetReq) dto.FECAESolicitarRequest {
	return dto.FECAESolicitarRequest{
		FeCAEReq: &dto.FeCAEReq{
			FeCabReq: &dto.FeCabReq{CantReg: len(lines), PtoVta: pos, CbteTipo: cbteTipo},
			FeDetReq: lines,
		},
	}
}

func linea(desde int64, total string) dto.FeDetReq {
	return dto.FeDetReq{
		Concepto:  1,
		DocTipo:   afip.DocTipoSinIdentificar,
		DocNro:    "0",
		CbteDesde: desde,
		CbteHasta: desde,
		ImpTotal:  dec(total),
		MonID:     afip.MonedaPesos,
	}
}

func TestSolicitarCAE_LoteAprobado(t *testing.T) {
	uc, _ := newWSFE(t)

	resp, err := uc.SolicitarCAE(context.Background(), emisorCUIT, lote(1, afip.CbteFacturaB, linea(1, "121"), linea(2, "242")))
	require.NoError(t, err)

	cab := resp.FECAESolicitarResult.FeCabResp
	assert.Equal(t, afip.ResultadoAprobado, cab.Resultado)
	assert.Equal(t, emisorCUIT, cab.Cuit)
	assert.Equal(t, "20240315", cab.FchProceso)
	assert.Equal(t, 2, cab.CantReg)

	det := resp.FECAESolicitarResult.FeDetResp
	require.Len(t, det, 2)
	for i, d := range det {
		assert.Equal(t, afip.ResultadoAprobado, d.Resultado)
		assert.Equal(t, int64(i+1), d.CbteDesde)
		assert.True(t, afip.ValidateCAEFormat(d.CAE))
		assert.Equal(t, "20240325", d.CAEFchVto)
		assert.Empty(t, d.Observaciones)
	}
}

func TestSolicitarCAE_LoteParcial(t *testing.T) {
	uc, svc := newWSFE(t)
	ctx := context.Background()

	resp, err := uc.SolicitarCAE(ctx, emisorCUIT, lote(1, afip.CbteFacturaB,
		linea(1, "121"),
		linea(3, "121"),
		linea(2, "0"),
	))
	require.NoError(t, err)

	assert.Equal(t, afip.ResultadoParcial, resp.FECAESolicitarResult.FeCabResp.Resultado)
	det := resp.FECAESolicitarResult.FeDetResp
	require.Len(t, det, 3)

	assert.Equal(t, afip.ResultadoAprobado, det[0].Resultado)

	assert.Equal(t, afip.ResultadoRechazado, det[1].Resultado)
	require.NotEmpty(t, det[1].Observaciones)
	assert.Equal(t, afip.ObsSequenceMismatch, det[1].Observaciones[0].Code)
	assert.Empty(t, det[1].CAE)

	assert.Equal(t, afip.ResultadoRechazado, det[2].Resultado)
	require.NotEmpty(t, det[2].Observaciones)
	assert.Equal(t, afip.ObsInvalidAmount, det[2].Observaciones[0].Code)

	last, err := svc.LastAuthorized(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), last)
}

func TestSolicitarCAE_RangoDeVariosComprobantesRechazado(t *testing.T) {
	uc, _ := newWSFE(t)
	l := linea(1, "121")
	l.CbteHasta = 3

	resp, err := uc.SolicitarCAE(context.Background(), emisorCUIT, lote(1, afip.CbteFacturaB, l))
	require.NoError(t, err)
	det := resp.FECAESolicitarResult.FeDetResp[0]
	assert.Equal(t, afip.ResultadoRechazado, det.Resultado)
	assert.Equal(t, afip.ObsSequenceMismatch, det.Observaciones[0].Code)
	assert.Equal(t, afip.ResultadoParcial, resp.FECAESolicitarResult.FeCabResp.Resultado)
}

func TestSolicitarCAE_ErroresEstructurales(t *testing.T) {
	uc, _ := newWSFE(t)
	ctx := context.Background()

	_, err := uc.SolicitarCAE(ctx, emisorCUIT, dto.FECAESolicitarRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.SolicitarCAE(ctx, emisorCUIT, lote(0, afip.CbteFacturaB, linea(1, "121")))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.SolicitarCAE(ctx, emisorCUIT, lote(1, 99, linea(1, "121")))
	assert.True(t, errors.Is(err, domain.ErrInvalidInvoiceType))
}

func TestSolicitarCAE_FacturaCSinIVA(t *testing.T) {
	uc, _ := newWSFE(t)
	ctx := context.Background()

	resp, err := uc.SolicitarCAE(ctx, emisorCUIT, lote(2, afip.CbteFacturaC, linea(0, "100")))
	require.NoError(t, err)
	det := resp.FECAESolicitarResult.FeDetResp[0]
	require.Equal(t, afip.ResultadoAprobado, det.Resultado)

	got, err := uc.Consultar(ctx, det.CAE, 0, 0)
	require.NoError(t, err)
	r := got.FECompConsultarResult.ResultGet
	assert.True(t, r.ImpIVA.IsZero())
	assert.True(t, r.ImpNeto.Equal(dec("100")))
	assert.Equal(t, afip.CbteFacturaC, r.CbteTipo)
	assert.Equal(t, afip.EmisionTipoCAE, r.EmisionTipo)
}

func TestSolicitarCAE_ReceptorConCUIT(t *testing.T) {
	uc, svc := newWSFE(t)
	ctx := context.Background()

	ok := linea(1, "121")
	ok.DocTipo = afip.DocTipoCUIT
	ok.DocNro = dto.FlexString(receptorCUIT)
	bad := linea(2, "121")
	bad.DocTipo = afip.DocTipoCUIT
	bad.DocNro = "30712345670"

	resp, err := uc.SolicitarCAE(ctx, emisorCUIT, lote(1, afip.CbteFacturaA, ok, bad))
	require.NoError(t, err)
	det := resp.FECAESolicitarResult.FeDetResp
	assert.Equal(t, afip.ResultadoAprobado, det[0].Resultado)
	assert.Equal(t, afip.ResultadoRechazado, det[1].Resultado)
	assert.Equal(t, afip.ObsInvalidCUIT, det[1].Observaciones[0].Code)

	inv, err := svc.GetByCAE(ctx, det[0].CAE)
	require.NoError(t, err)
	assert.Equal(t, receptorCUIT, inv.CUITReceptor)
	assert.Equal(t, afip.DocTipoCUIT, inv.DocTipo)
}

func TestSolicitarCAE_IVAInformado(t *testing.T) {
	uc, _ := newWSFE(t)
	ctx := context.Background()
	l := linea(1, "110.5")
	iva := decimal.RequireFromString("10.5")
	l.ImpIVA = &iva
	l.CondicionIVAEmisor = afip.TaxCategoryResponsableInscripto

	resp, err := uc.SolicitarCAE(ctx, emisorCUIT, lote(5, afip.CbteFacturaA, l))
	require.NoError(t, err)
	det := resp.FECAESolicitarResult.FeDetResp[0]
	require.Equal(t, afip.ResultadoAprobado, det.Resultado)

	got, err := uc.Consultar(ctx, "", 5, 1)
	require.NoError(t, err)
	r := got.FECompConsultarResult.ResultGet
	assert.True(t, r.ImpNeto.Equal(dec("100")), "neto %s", r.ImpNeto)
	assert.True(t, r.ImpIVA.Equal(dec("21")), "iva %s", r.ImpIVA)
	assert.True(t, r.ImpTotal.Equal(dec("121")), "total %s", r.ImpTotal)
}

func TestSolicitarCAE_ContextoCancelado(t *testing.T) {
	uc, _ := newWSFE(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.SolicitarCAE(ctx, emisorCUIT, lote(1, afip.CbteFacturaB, linea(1, "121")))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestUltimoAutorizadoYConsultar(t *testing.T) {
	uc, _ := newWSFE(t)
	ctx := context.Background()

	last, err := uc.UltimoAutorizado(ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last.FECompUltimoAutorizadoResult.CbteNro)
	assert.Equal(t, afip.CbteFacturaB, last.FECompUltimoAutorizadoResult.CbteTipo)

	_, err = uc.SolicitarCAE(ctx, emisorCUIT, lote(7, afip.CbteFacturaB, linea(1, "121")))
	require.NoError(t, err)

	last, err = uc.UltimoAutorizado(ctx, 7, afip.CbteFacturaB)
	require.NoError(t, err)
	assert.Equal(t, int64(1), last.FECompUltimoAutorizadoResult.CbteNro)

	_, err = uc.UltimoAutorizado(ctx, 0, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = uc.Consultar(ctx, "", 0, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = uc.Consultar(ctx, "", 7, 2)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	pts, err := uc.PuntosDeVenta(ctx)
	require.NoError(t, err)
	require.Len(t, pts.FEParamGetPtosVentaResult.ResultGet, 1)
	assert.Equal(t, 7, pts.FEParamGetPtosVentaResult.ResultGet[0].Nro)
	assert.Equal(t, "N", pts.FEParamGetPtosVentaResult.ResultGet[0].Bloqueado)
}

func TestCatalogos(t *testing.T) {
	uc, _ := newWSFE(t)

	tipos := uc.TiposComprobante().FEParamGetTiposCbteResult.ResultGet
	assert.Len(t, tipos, 9)
	assert.Equal(t, afip.CbteFacturaA, tipos[0].ID)

	conds := uc.CondicionesIva().FEParamGetCondicionIvaReceptorResult.ResultGet
	require.Len(t, conds, 6)
	assert.True(t, conds[0].IVARate.Equal(dec("0.21")))
}
