package billing

import (
	"context"
	"time"

	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

// IssuanceTxRunner ejecuta fn en una unidad atómica: la reserva del número y la
// inserción del comprobante se confirman juntas o no se confirma ninguna.
// Mientras fn corre, otras emisiones del mismo punto de venta esperan.
type IssuanceTxRunner interface {
	RunIssuance(ctx context.Context, fn func(
		posRepo repository.POSConfigRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// RulesSource entrega la instantánea de reglas vigente.
type RulesSource interface {
	Current() *afip.Rules
}

// InvoicePDFGenerator genera la representación impresa del comprobante.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, rules *afip.Rules) ([]byte, error)
}

// Metrics observación de la emisión. Las implementaciones deben tolerar concurrencia.
type Metrics interface {
	InvoiceIssued(invoiceType int)
	InvoiceRejected(reason string)
	StageDuration(stage Stage, d time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) InvoiceIssued(int)                  {}
func (nopMetrics) InvoiceRejected(string)             {}
func (nopMetrics) StageDuration(Stage, time.Duration) {}
