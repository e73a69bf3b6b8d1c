package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice comprobante autorizado con CAE. Solo se inserta; nunca se modifica ni se borra.
type Invoice struct {
	ID            string
	CAE           string // 14 dígitos: YYYYMMDD + 6 aleatorios
	CAEExpiration string // YYYYMMDD
	InvoiceNumber int64  // único dentro del punto de venta
	POS           int
	InvoiceDate   string // YYYYMMDD
	InvoiceType   int
	Concept       int
	TotalAmount   decimal.Decimal
	IVAAmount     decimal.Decimal
	CUITEmisor    string // 11 dígitos sin guiones
	CUITReceptor  string // opcional, 11 dígitos sin guiones
	DocTipo       int
	DocNro        string
	TaxCategory   int
	Currency      string
	CreatedAt     time.Time
}

// BaseAmount importe neto gravado: total - IVA.
func (i *Invoice) BaseAmount() decimal.Decimal {
	return i.TotalAmount.Sub(i.IVAAmount)
}

// InvoiceRequest datos de entrada para emitir un comprobante.
type InvoiceRequest struct {
	CUITEmisor     string
	CUITReceptor   string
	DocTipo        int
	DocNro         string
	POS            int
	InvoiceType    int
	Concept        int
	TotalAmount    decimal.Decimal
	IVAAmount      *decimal.Decimal // nil = se calcula con la alícuota de la categoría
	TaxCategory    int
	InvoiceDate    string // YYYYMMDD; vacío = hoy
	ExpectedNumber int64  // CbteDesde informado; 0 = el próximo disponible
}

// InvoiceStats agregados por CUIT emisor.
type InvoiceStats struct {
	CUITEmisor    string
	TotalInvoices int64
	TotalAmount   decimal.Decimal
	TotalIVA      decimal.Decimal
	AverageAmount decimal.Decimal
	FirstInvoice  string // YYYYMMDD
	LastInvoice   string // YYYYMMDD
}
