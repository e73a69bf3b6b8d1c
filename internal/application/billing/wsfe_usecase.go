package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/afip-mock/internal/application/dto"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

const msgInternalError = "Error interno al procesar la solicitud"

// WSFEUseCase operaciones WSFEv1 sobre InvoiceService.
type WSFEUseCase struct {
	invoices           *InvoiceService
	defaultTaxCategory int
}

// NewWSFEUseCase construye el caso de uso. defaultTaxCategory se usa cuando la
// línea no informa la condición de IVA y el comprobante no es clase C.
func NewWSFEUseCase(invoices *InvoiceService, defaultTaxCategory int) *WSFEUseCase {
	if defaultTaxCategory == 0 {
		defaultTaxCategory = afip.TaxCategoryResponsableInscripto
	}
	return &WSFEUseCase{invoices: invoices, defaultTaxCategory: defaultTaxCategory}
}

// SolicitarCAE procesa un lote línea por línea. Los errores estructurales abortan
// el lote; los de una línea la rechazan sin afectar al resto.
func (uc *WSFEUseCase) SolicitarCAE(ctx context.Context, cuitEmisor string, in dto.FECAESolicitarRequest) (*dto.FECAESolicitarResponse, error) {
	if in.FeCAEReq == nil || in.FeCAEReq.FeCabReq == nil || len(in.FeCAEReq.FeDetReq) == 0 {
		return nil, fmt.Errorf("%w: FeCAEReq, FeCabReq y FeDetReq son obligatorios", domain.ErrInvalidInput)
	}
	cab := in.FeCAEReq.FeCabReq
	if cab.PtoVta == 0 || cab.CbteTipo == 0 || cab.CantReg == 0 {
		return nil, fmt.Errorf("%w: PtoVta, CbteTipo y CantReg son obligatorios", domain.ErrInvalidInput)
	}
	if _, ok := uc.invoices.Rules().InvoiceType(cab.CbteTipo); !ok {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidInvoiceType, cab.CbteTipo)
	}

	results := make([]dto.FeDetResp, 0, len(in.FeCAEReq.FeDetReq))
	allApproved := true
	for _, det := range in.FeCAEReq.FeDetReq {
		res, err := uc.solicitarLinea(ctx, cuitEmisor, cab, det)
		if err != nil {
			return nil, err
		}
		if res.Resultado != afip.ResultadoAprobado {
			allApproved = false
		}
		results = append(results, res)
	}

	resultado := afip.ResultadoAprobado
	if !allApproved {
		resultado = afip.ResultadoParcial
	}
	return &dto.FECAESolicitarResponse{
		FECAESolicitarResult: dto.FECAESolicitarResult{
			FeCabResp: dto.FeCabResp{
				Cuit:       afip.CleanCUIT(cuitEmisor),
				PtoVta:     cab.PtoVta,
				CbteTipo:   cab.CbteTipo,
				FchProceso: uc.invoices.caeGen.Now().Format(afip.DateLayout),
				CantReg:    len(results),
				Resultado:  resultado,
			},
			FeDetResp: results,
		},
	}, nil
}

// solicitarLinea devuelve error solo si el contexto fue cancelado.
func (uc *WSFEUseCase) solicitarLinea(ctx context.Context, cuitEmisor string, cab *dto.FeCabReq, det dto.FeDetReq) (dto.FeDetResp, error) {
	if det.CbteHasta != 0 && det.CbteHasta != det.CbteDesde {
		return rejected(det, dto.Observacion{
			Code: afip.ObsSequenceMismatch,
			Msg:  "Se admite un único comprobante por línea (CbteDesde = CbteHasta)",
		}), nil
	}

	req := entity.InvoiceRequest{
		CUITEmisor:     cuitEmisor,
		DocTipo:        det.DocTipo,
		DocNro:         det.DocNro.String(),
		POS:            cab.PtoVta,
		InvoiceType:    cab.CbteTipo,
		Concept:        det.Concepto,
		TotalAmount:    det.ImpTotal,
		IVAAmount:      det.ImpIVA,
		TaxCategory:    uc.taxCategoryFor(cab.CbteTipo, det.CondicionIVAEmisor),
		InvoiceDate:    det.CbteFch,
		ExpectedNumber: det.CbteDesde,
	}
	if afip.IsTaxIDDocument(det.DocTipo) {
		req.CUITReceptor = det.DocNro.String()
	}

	inv, err := uc.invoices.Issue(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return dto.FeDetResp{}, ctxErr
		}
		return rejected(det, observationsFor(err)...), nil
	}
	return dto.FeDetResp{
		Concepto:      inv.Concept,
		DocTipo:       inv.DocTipo,
		DocNro:        inv.DocNro,
		CbteDesde:     inv.InvoiceNumber,
		CbteHasta:     inv.InvoiceNumber,
		CbteFch:       inv.InvoiceDate,
		CAE:           inv.CAE,
		CAEFchVto:     inv.CAEExpiration,
		Resultado:     afip.ResultadoAprobado,
		Observaciones: []dto.Observacion{},
	}, nil
}

// taxCategoryFor categoría informada, Monotributo para clase C, o la de configuración.
func (uc *WSFEUseCase) taxCategoryFor(cbteTipo, informed int) int {
	if informed != 0 {
		return informed
	}
	switch cbteTipo {
	case afip.CbteFacturaC, afip.CbteNotaDebitoC, afip.CbteNotaCreditoC:
		return afip.TaxCategoryMonotributo
	}
	return uc.defaultTaxCategory
}

// UltimoAutorizado último número emitido; tipo de comprobante por defecto Factura B.
func (uc *WSFEUseCase) UltimoAutorizado(ctx context.Context, pos, cbteTipo int) (*dto.FECompUltimoAutorizadoResponse, error) {
	if cbteTipo == 0 {
		cbteTipo = afip.CbteFacturaB
	}
	last, err := uc.invoices.LastAuthorized(ctx, pos)
	if err != nil {
		return nil, err
	}
	return &dto.FECompUltimoAutorizadoResponse{
		FECompUltimoAutorizadoResult: dto.FECompUltimoAutorizadoResult{
			PtoVta:   pos,
			CbteTipo: cbteTipo,
			CbteNro:  last,
		},
	}, nil
}

// Consultar busca por CAE o, si cae está vacío, por punto de venta y número.
func (uc *WSFEUseCase) Consultar(ctx context.Context, cae string, pos int, number int64) (*dto.FECompConsultarResponse, error) {
	var (
		inv *entity.Invoice
		err error
	)
	switch {
	case cae != "":
		inv, err = uc.invoices.GetByCAE(ctx, cae)
	case pos > 0 && number > 0:
		inv, err = uc.invoices.GetByNumber(ctx, pos, number)
	default:
		return nil, fmt.Errorf("%w: se requiere cae o pos e invoice_number", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}
	out := &dto.FECompConsultarResponse{}
	out.FECompConsultarResult.ResultGet = dto.FECompConsultarResultGet{
		Concepto:        inv.Concept,
		DocTipo:         inv.DocTipo,
		DocNro:          inv.DocNro,
		CbteNro:         inv.InvoiceNumber,
		CbteDesde:       inv.InvoiceNumber,
		CbteHasta:       inv.InvoiceNumber,
		PtoVta:          inv.POS,
		CbteTipo:        inv.InvoiceType,
		CbteFch:         inv.InvoiceDate,
		ImpTotal:        inv.TotalAmount,
		ImpIVA:          inv.IVAAmount,
		ImpNeto:         inv.BaseAmount(),
		MonID:           inv.Currency,
		CodAutorizacion: inv.CAE,
		EmisionTipo:     afip.EmisionTipoCAE,
		FchVto:          inv.CAEExpiration,
		Resultado:       afip.ResultadoAprobado,
	}
	return out, nil
}

// PuntosDeVenta puntos de venta conocidos, todos habilitados para CAE.
func (uc *WSFEUseCase) PuntosDeVenta(ctx context.Context) (*dto.FEParamGetPtosVentaResponse, error) {
	list, err := uc.invoices.PointsOfSale(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.FEParamGetPtosVentaResponse{}
	out.FEParamGetPtosVentaResult.ResultGet = make([]dto.PtoVenta, 0, len(list))
	for _, p := range list {
		out.FEParamGetPtosVentaResult.ResultGet = append(out.FEParamGetPtosVentaResult.ResultGet, dto.PtoVenta{
			Nro:         p.POS,
			EmisionTipo: afip.EmisionTipoCAE,
			Bloqueado:   "N",
		})
	}
	return out, nil
}

// TiposComprobante tabla de tipos de comprobante de las reglas vigentes.
func (uc *WSFEUseCase) TiposComprobante() *dto.FEParamGetTiposCbteResponse {
	types := uc.invoices.Rules().InvoiceTypes()
	out := &dto.FEParamGetTiposCbteResponse{}
	out.FEParamGetTiposCbteResult.ResultGet = make([]dto.ParamItem, 0, len(types))
	for _, t := range types {
		out.FEParamGetTiposCbteResult.ResultGet = append(out.FEParamGetTiposCbteResult.ResultGet, dto.ParamItem{
			ID:       t.Code,
			Desc:     t.Name,
			FchDesde: afip.CbteFchDesde,
		})
	}
	return out
}

// CondicionesIva tabla de categorías frente al IVA con su alícuota.
func (uc *WSFEUseCase) CondicionesIva() *dto.FEParamGetCondicionIvaResponse {
	cats := uc.invoices.Rules().TaxCategories()
	out := &dto.FEParamGetCondicionIvaResponse{}
	out.FEParamGetCondicionIvaReceptorResult.ResultGet = make([]dto.CondicionIva, 0, len(cats))
	for _, c := range cats {
		out.FEParamGetCondicionIvaReceptorResult.ResultGet = append(out.FEParamGetCondicionIvaReceptorResult.ResultGet, dto.CondicionIva{
			ID:      c.Code,
			Desc:    c.Name,
			IVARate: c.IVARate,
		})
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func rejected(det dto.FeDetReq, obs ...dto.Observacion) dto.FeDetResp {
	return dto.FeDetResp{
		Concepto:      det.Concepto,
		DocTipo:       det.DocTipo,
		DocNro:        det.DocNro.String(),
		CbteDesde:     det.CbteDesde,
		CbteFch:       det.CbteFch,
		Resultado:     afip.ResultadoRechazado,
		Observaciones: obs,
	}
}

// observationsFor traduce un error de emisión a observaciones AFIP.
func observationsFor(err error) []dto.Observacion {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		obs := make([]dto.Observacion, 0, len(verr.Violations))
		for _, v := range verr.Violations {
			obs = append(obs, dto.Observacion{Code: v.Code, Msg: v.Message})
		}
		return obs
	case errors.Is(err, domain.ErrInvalidSequence):
		return []dto.Observacion{{Code: afip.ObsSequenceMismatch, Msg: err.Error()}}
	default:
		return []dto.Observacion{{Code: afip.ObsInternalError, Msg: msgInternalError}}
	}
}
