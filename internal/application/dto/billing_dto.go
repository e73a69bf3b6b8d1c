package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/afip-mock/internal/domain/entity"
)

// CreateInvoiceRequest body para POST /api/invoices.
// IVAAmount opcional: si no viene se calcula con la alícuota de TaxCategory.
type CreateInvoiceRequest struct {
	CUITEmisor     FlexString       `json:"cuit_emisor"`
	CUITReceptor   FlexString       `json:"cuit_receptor,omitempty"`
	DocTipo        int              `json:"doc_tipo,omitempty"`
	DocNro         FlexString       `json:"doc_nro,omitempty"`
	POS            int              `json:"pos"`
	InvoiceType    int              `json:"invoice_type"`
	Concept        int              `json:"concept,omitempty"`
	TotalAmount    decimal.Decimal  `json:"total_amount"`
	IVAAmount      *decimal.Decimal `json:"iva_amount,omitempty"`
	TaxCategory    int              `json:"tax_category,omitempty"`
	InvoiceDate    string           `json:"invoice_date,omitempty"`   // YYYYMMDD
	InvoiceNumber  int64            `json:"invoice_number,omitempty"` // próximo esperado; 0 = cualquiera
}

// ToEntity convierte a la petición de dominio.
func (r CreateInvoiceRequest) ToEntity() entity.InvoiceRequest {
	return entity.InvoiceRequest{
		CUITEmisor:     r.CUITEmisor.String(),
		CUITReceptor:   r.CUITReceptor.String(),
		DocTipo:        r.DocTipo,
		DocNro:         r.DocNro.String(),
		POS:            r.POS,
		InvoiceType:    r.InvoiceType,
		Concept:        r.Concept,
		TotalAmount:    r.TotalAmount,
		IVAAmount:      r.IVAAmount,
		TaxCategory:    r.TaxCategory,
		InvoiceDate:    r.InvoiceDate,
		ExpectedNumber: r.InvoiceNumber,
	}
}

// InvoiceResponse comprobante autorizado.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	CAE           string          `json:"cae"`
	CAEExpiration string          `json:"cae_expiration"`
	InvoiceNumber int64           `json:"invoice_number"`
	POS           int             `json:"pos"`
	InvoiceDate   string          `json:"invoice_date"`
	InvoiceType   int             `json:"invoice_type"`
	Concept       int             `json:"concept,omitempty"`
	BaseAmount    decimal.Decimal `json:"base_amount"`
	IVAAmount     decimal.Decimal `json:"iva_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CUITEmisor    string          `json:"cuit_emisor"`
	CUITReceptor  string          `json:"cuit_receptor,omitempty"`
	DocTipo       int             `json:"doc_tipo,omitempty"`
	DocNro        string          `json:"doc_nro,omitempty"`
	TaxCategory   int             `json:"tax_category"`
	Currency      string          `json:"currency"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewInvoiceResponse mapea la entidad a la respuesta.
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            inv.ID,
		CAE:           inv.CAE,
		CAEExpiration: inv.CAEExpiration,
		InvoiceNumber: inv.InvoiceNumber,
		POS:           inv.POS,
		InvoiceDate:   inv.InvoiceDate,
		InvoiceType:   inv.InvoiceType,
		Concept:       inv.Concept,
		BaseAmount:    inv.BaseAmount(),
		IVAAmount:     inv.IVAAmount,
		TotalAmount:   inv.TotalAmount,
		CUITEmisor:    inv.CUITEmisor,
		CUITReceptor:  inv.CUITReceptor,
		DocTipo:       inv.DocTipo,
		DocNro:        inv.DocNro,
		TaxCategory:   inv.TaxCategory,
		Currency:      inv.Currency,
		CreatedAt:     inv.CreatedAt,
	}
}

// InvoiceListResponse página de comprobantes.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// InvoiceStatsResponse agregados por emisor.
type InvoiceStatsResponse struct {
	CUITEmisor    string          `json:"cuit_emisor"`
	TotalInvoices int64           `json:"total_invoices"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalIVA      decimal.Decimal `json:"total_iva"`
	AverageAmount decimal.Decimal `json:"average_amount"`
	FirstInvoice  string          `json:"first_invoice,omitempty"`
	LastInvoice   string          `json:"last_invoice,omitempty"`
}

// NewInvoiceStatsResponse mapea los agregados.
func NewInvoiceStatsResponse(st *entity.InvoiceStats) InvoiceStatsResponse {
	return InvoiceStatsResponse{
		CUITEmisor:    st.CUITEmisor,
		TotalInvoices: st.TotalInvoices,
		TotalAmount:   st.TotalAmount,
		TotalIVA:      st.TotalIVA,
		AverageAmount: st.AverageAmount,
		FirstInvoice:  st.FirstInvoice,
		LastInvoice:   st.LastInvoice,
	}
}
