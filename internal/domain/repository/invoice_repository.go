package repository

import (
	"context"

	"github.com/jhoicas/afip-mock/internal/domain/entity"
)

// Columnas permitidas para ordenar listados.
const (
	OrderByCreatedAt     = "created_at"
	OrderByInvoiceDate   = "invoice_date"
	OrderByInvoiceNumber = "invoice_number"
)

// Límites de paginación.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ListOptions paginación y orden de los listados de comprobantes.
type ListOptions struct {
	Limit   int
	Offset  int
	OrderBy string // una de las columnas OrderBy*
	Asc     bool
}

// Normalize aplica límites y descarta columnas de orden no permitidas.
func (o ListOptions) Normalize(defaultOrder string) ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	switch o.OrderBy {
	case OrderByCreatedAt, OrderByInvoiceDate, OrderByInvoiceNumber:
	default:
		o.OrderBy = defaultOrder
	}
	return o
}

// InvoiceRepository puerto de persistencia de comprobantes (solo inserción y lectura).
// Los métodos Get devuelven nil, nil cuando no hay fila.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByCAE(ctx context.Context, cae string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, pos int, number int64) (*entity.Invoice, error)
	// LastByPOS comprobante de mayor número del punto de venta.
	LastByPOS(ctx context.Context, pos int) (*entity.Invoice, error)
	ListByIssuer(ctx context.Context, cuit string, opts ListOptions) ([]*entity.Invoice, error)
	// ListByDateRange rango inclusivo de fechas YYYYMMDD.
	ListByDateRange(ctx context.Context, from, to string, opts ListOptions) ([]*entity.Invoice, error)
	StatsByIssuer(ctx context.Context, cuit string) (*entity.InvoiceStats, error)
}
