package dto

import "github.com/shopspring/decimal"

// ── FECAESolicitar ────────────────────────────────────────────────────────────

// WSAuth bloque Auth de WSFEv1. Opcional salvo que se exija token.
type WSAuth struct {
	Token string     `json:"Token"`
	Sign  string     `json:"Sign"`
	Cuit  FlexString `json:"Cuit"`
}

// FECAESolicitarRequest cuerpo de POST /wsfev1/FECAESolicitar.
type FECAESolicitarRequest struct {
	Auth     *WSAuth   `json:"Auth,omitempty"`
	FeCAEReq *FeCAEReq `json:"FeCAEReq"`
}

// FeCAEReq cabecera + detalle.
type FeCAEReq struct {
	FeCabReq *FeCabReq  `json:"FeCabReq"`
	FeDetReq []FeDetReq `json:"FeDetReq"`
}

// FeCabReq cabecera del lote.
type FeCabReq struct {
	CantReg  int `json:"CantReg"`
	PtoVta   int `json:"PtoVta"`
	CbteTipo int `json:"CbteTipo"`
}

// AlicIva alícuota informada por línea.
type AlicIva struct {
	ID      int             `json:"Id"`
	BaseImp decimal.Decimal `json:"BaseImp"`
	Importe decimal.Decimal `json:"Importe"`
}

// FeDetReq una línea (comprobante) del lote.
type FeDetReq struct {
	Concepto   int              `json:"Concepto"`
	DocTipo    int              `json:"DocTipo"`
	DocNro     FlexString       `json:"DocNro"`
	CbteDesde  int64            `json:"CbteDesde"`
	CbteHasta  int64            `json:"CbteHasta"`
	CbteFch    string           `json:"CbteFch"`
	ImpTotal   decimal.Decimal  `json:"ImpTotal"`
	ImpTotConc decimal.Decimal  `json:"ImpTotConc"`
	ImpNeto    decimal.Decimal  `json:"ImpNeto"`
	ImpOpEx    decimal.Decimal  `json:"ImpOpEx"`
	ImpIVA     *decimal.Decimal `json:"ImpIVA"`
	ImpTrib    decimal.Decimal  `json:"ImpTrib"`
	MonID      string           `json:"MonId"`
	MonCotiz   decimal.Decimal  `json:"MonCotiz"`
	Iva        []AlicIva        `json:"Iva,omitempty"`
	// CondicionIVAEmisor categoría de IVA del emisor; 0 = según la letra del comprobante.
	CondicionIVAEmisor int `json:"CondicionIVAEmisor,omitempty"`
}

// Observacion código y mensaje de rechazo.
type Observacion struct {
	Code int    `json:"Code"`
	Msg  string `json:"Msg"`
}

// FeCabResp cabecera de la respuesta.
type FeCabResp struct {
	Cuit       string `json:"Cuit"`
	PtoVta     int    `json:"PtoVta"`
	CbteTipo   int    `json:"CbteTipo"`
	FchProceso string `json:"FchProceso"`
	CantReg    int    `json:"CantReg"`
	Resultado  string `json:"Resultado"`
}

// FeDetResp resultado por línea.
type FeDetResp struct {
	Concepto      int           `json:"Concepto,omitempty"`
	DocTipo       int           `json:"DocTipo,omitempty"`
	DocNro        string        `json:"DocNro,omitempty"`
	CbteDesde     int64         `json:"CbteDesde"`
	CbteHasta     int64         `json:"CbteHasta,omitempty"`
	CbteFch       string        `json:"CbteFch,omitempty"`
	CAE           string        `json:"CAE,omitempty"`
	CAEFchVto     string        `json:"CAEFchVto,omitempty"`
	Resultado     string        `json:"Resultado"`
	Observaciones []Observacion `json:"Observaciones"`
}

// FECAESolicitarResult resultado del lote.
type FECAESolicitarResult struct {
	FeCabResp FeCabResp   `json:"FeCabResp"`
	FeDetResp []FeDetResp `json:"FeDetResp"`
}

// FECAESolicitarResponse cuerpo de respuesta.
type FECAESolicitarResponse struct {
	FECAESolicitarResult FECAESolicitarResult `json:"FECAESolicitarResult"`
}

// ── FECompUltimoAutorizado ────────────────────────────────────────────────────

// FECompUltimoAutorizadoResult último número del punto de venta.
type FECompUltimoAutorizadoResult struct {
	PtoVta   int   `json:"PtoVta"`
	CbteTipo int   `json:"CbteTipo"`
	CbteNro  int64 `json:"CbteNro"`
}

// FECompUltimoAutorizadoResponse cuerpo de respuesta.
type FECompUltimoAutorizadoResponse struct {
	FECompUltimoAutorizadoResult FECompUltimoAutorizadoResult `json:"FECompUltimoAutorizadoResult"`
}

// ── FECompConsultar ───────────────────────────────────────────────────────────

// FECompConsultarResultGet datos del comprobante consultado.
type FECompConsultarResultGet struct {
	Concepto        int             `json:"Concepto"`
	DocTipo         int             `json:"DocTipo"`
	DocNro          string          `json:"DocNro"`
	CbteNro         int64           `json:"CbteNro"`
	CbteDesde       int64           `json:"CbteDesde"`
	CbteHasta       int64           `json:"CbteHasta"`
	PtoVta          int             `json:"PtoVta"`
	CbteTipo        int             `json:"CbteTipo"`
	CbteFch         string          `json:"CbteFch"`
	ImpTotal        decimal.Decimal `json:"ImpTotal"`
	ImpIVA          decimal.Decimal `json:"ImpIVA"`
	ImpNeto         decimal.Decimal `json:"ImpNeto"`
	MonID           string          `json:"MonId"`
	CodAutorizacion string          `json:"CodAutorizacion"`
	EmisionTipo     string          `json:"EmisionTipo"`
	FchVto          string          `json:"FchVto"`
	Resultado       string          `json:"Resultado"`
}

// FECompConsultarResponse cuerpo de respuesta.
type FECompConsultarResponse struct {
	FECompConsultarResult struct {
		ResultGet FECompConsultarResultGet `json:"ResultGet"`
	} `json:"FECompConsultarResult"`
}

// ── FEParamGet* ───────────────────────────────────────────────────────────────

// PtoVenta punto de venta habilitado.
type PtoVenta struct {
	Nro         int     `json:"Nro"`
	EmisionTipo string  `json:"EmisionTipo"`
	Bloqueado   string  `json:"Bloqueado"`
	FchBaja     *string `json:"FchBaja"`
}

// FEParamGetPtosVentaResponse cuerpo de respuesta.
type FEParamGetPtosVentaResponse struct {
	FEParamGetPtosVentaResult struct {
		ResultGet []PtoVenta `json:"ResultGet"`
	} `json:"FEParamGetPtosVentaResult"`
}

// ParamItem ítem de tabla paramétrica.
type ParamItem struct {
	ID       int     `json:"Id"`
	Desc     string  `json:"Desc"`
	FchDesde string  `json:"FchDesde,omitempty"`
	FchHasta *string `json:"FchHasta"`
}

// FEParamGetTiposCbteResponse cuerpo de respuesta.
type FEParamGetTiposCbteResponse struct {
	FEParamGetTiposCbteResult struct {
		ResultGet []ParamItem `json:"ResultGet"`
	} `json:"FEParamGetTiposCbteResult"`
}

// CondicionIva categoría de IVA con su alícuota.
type CondicionIva struct {
	ID      int             `json:"Id"`
	Desc    string          `json:"Desc"`
	IVARate decimal.Decimal `json:"Alicuota"`
}

// FEParamGetCondicionIvaResponse cuerpo de respuesta.
type FEParamGetCondicionIvaResponse struct {
	FEParamGetCondicionIvaReceptorResult struct {
		ResultGet []CondicionIva `json:"ResultGet"`
	} `json:"FEParamGetCondicionIvaReceptorResult"`
}
