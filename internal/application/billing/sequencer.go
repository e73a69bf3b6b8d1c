package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
)

// InvoiceSequencer numeración correlativa por punto de venta.
type InvoiceSequencer struct {
	posRepo repository.POSConfigRepository
}

// NewInvoiceSequencer construye el secuenciador sobre el repositorio no transaccional.
func NewInvoiceSequencer(posRepo repository.POSConfigRepository) *InvoiceSequencer {
	return &InvoiceSequencer{posRepo: posRepo}
}

// NextNumber devuelve último + 1 sin reservarlo; crea el punto de venta en 0 si no existe.
func (s *InvoiceSequencer) NextNumber(ctx context.Context, pos int) (int64, error) {
	cfg, err := s.posRepo.EnsureExists(ctx, pos)
	if err != nil {
		return 0, fmt.Errorf("secuencia pos %d: %w", pos, err)
	}
	return cfg.Next(), nil
}

// LastNumber último número autorizado; 0 si el punto de venta no existe.
func (s *InvoiceSequencer) LastNumber(ctx context.Context, pos int) (int64, error) {
	cfg, err := s.posRepo.Get(ctx, pos)
	if err != nil {
		return 0, fmt.Errorf("secuencia pos %d: %w", pos, err)
	}
	if cfg == nil {
		return 0, nil
	}
	return cfg.LastInvoiceNumber, nil
}

// Commit fija number como último emitido solo si el guardado es number-1.
// Devuelve domain.ErrSequenceConflict si otro proceso avanzó la secuencia.
func (s *InvoiceSequencer) Commit(ctx context.Context, pos int, number int64) error {
	ok, err := s.posRepo.CompareAndSet(ctx, pos, number)
	if err != nil {
		return fmt.Errorf("secuencia pos %d: %w", pos, err)
	}
	if !ok {
		return fmt.Errorf("%w: pos %d, número %d", domain.ErrSequenceConflict, pos, number)
	}
	return nil
}

// Reserve asigna el próximo número usando el repositorio de la transacción en curso.
// El punto de venta queda bloqueado hasta que la transacción termine.
func (s *InvoiceSequencer) Reserve(ctx context.Context, txRepo repository.POSConfigRepository, pos int) (int64, error) {
	if _, err := txRepo.EnsureExists(ctx, pos); err != nil {
		return 0, fmt.Errorf("reservar número pos %d: %w", pos, err)
	}
	n, err := txRepo.Increment(ctx, pos)
	if err != nil {
		return 0, fmt.Errorf("reservar número pos %d: %w", pos, err)
	}
	return n, nil
}

// PointsOfSale lista los puntos de venta conocidos.
func (s *InvoiceSequencer) PointsOfSale(ctx context.Context) ([]*entity.POSConfig, error) {
	list, err := s.posRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar puntos de venta: %w", err)
	}
	return list, nil
}
