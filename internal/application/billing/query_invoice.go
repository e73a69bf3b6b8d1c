package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
	"github.com/jhoicas/afip-mock/pkg/afip"
)

// GetByCAE busca por CAE. Un CAE mal formado es ErrInvalidInput; inexistente es ErrNotFound.
func (s *InvoiceService) GetByCAE(ctx context.Context, cae string) (*entity.Invoice, error) {
	if !afip.ValidateCAEFormat(cae) {
		return nil, fmt.Errorf("%w: formato de CAE inválido", domain.ErrInvalidInput)
	}
	inv, err := s.invoiceRepo.GetByCAE(ctx, cae)
	if err != nil {
		return nil, fmt.Errorf("buscar por CAE: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// GetByNumber busca por punto de venta y número.
func (s *InvoiceService) GetByNumber(ctx context.Context, pos int, number int64) (*entity.Invoice, error) {
	if pos < 1 || number < 1 {
		return nil, fmt.Errorf("%w: pos y número deben ser positivos", domain.ErrInvalidInput)
	}
	inv, err := s.invoiceRepo.GetByNumber(ctx, pos, number)
	if err != nil {
		return nil, fmt.Errorf("buscar por número: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// LastAuthorized último número emitido en el punto de venta (0 si nunca emitió).
func (s *InvoiceService) LastAuthorized(ctx context.Context, pos int) (int64, error) {
	if pos < 1 {
		return 0, fmt.Errorf("%w: punto de venta inválido", domain.ErrInvalidInput)
	}
	return s.sequencer.LastNumber(ctx, pos)
}

// LastInvoice comprobante de mayor número del punto de venta, o ErrNotFound.
func (s *InvoiceService) LastInvoice(ctx context.Context, pos int) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.LastByPOS(ctx, pos)
	if err != nil {
		return nil, fmt.Errorf("último comprobante: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// ListByIssuer comprobantes de un CUIT emisor; orden por defecto created_at DESC.
func (s *InvoiceService) ListByIssuer(ctx context.Context, cuit string, opts repository.ListOptions) ([]*entity.Invoice, error) {
	clean := afip.CleanCUIT(cuit)
	if !afip.ValidateCUIT(clean) {
		return nil, fmt.Errorf("%w: CUIT emisor inválido", domain.ErrInvalidInput)
	}
	list, err := s.invoiceRepo.ListByIssuer(ctx, clean, opts.Normalize(repository.OrderByCreatedAt))
	if err != nil {
		return nil, fmt.Errorf("listar por emisor: %w", err)
	}
	return list, nil
}

// ListByDateRange comprobantes con fecha en [from, to]; orden por defecto invoice_date DESC.
func (s *InvoiceService) ListByDateRange(ctx context.Context, from, to string, opts repository.ListOptions) ([]*entity.Invoice, error) {
	f, okFrom := afip.ParseDate(from)
	t, okTo := afip.ParseDate(to)
	if !okFrom || !okTo {
		return nil, fmt.Errorf("%w: fechas en formato YYYYMMDD", domain.ErrInvalidInput)
	}
	if t.Before(f) {
		return nil, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidInput)
	}
	list, err := s.invoiceRepo.ListByDateRange(ctx, from, to, opts.Normalize(repository.OrderByInvoiceDate))
	if err != nil {
		return nil, fmt.Errorf("listar por fechas: %w", err)
	}
	return list, nil
}

// Stats agregados del emisor. Un emisor sin comprobantes devuelve contadores en cero.
func (s *InvoiceService) Stats(ctx context.Context, cuit string) (*entity.InvoiceStats, error) {
	clean := afip.CleanCUIT(cuit)
	if !afip.ValidateCUIT(clean) {
		return nil, fmt.Errorf("%w: CUIT emisor inválido", domain.ErrInvalidInput)
	}
	st, err := s.invoiceRepo.StatsByIssuer(ctx, clean)
	if err != nil {
		return nil, fmt.Errorf("estadísticas: %w", err)
	}
	return st, nil
}

// PointsOfSale puntos de venta conocidos con su último número.
func (s *InvoiceService) PointsOfSale(ctx context.Context) ([]*entity.POSConfig, error) {
	return s.sequencer.PointsOfSale(ctx)
}
