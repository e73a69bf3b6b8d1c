package repository

import (
	"context"

	"github.com/jhoicas/afip-mock/internal/domain/entity"
)

// POSConfigRepository numeración por punto de venta.
type POSConfigRepository interface {
	// Get devuelve nil, nil si el punto de venta no existe.
	Get(ctx context.Context, pos int) (*entity.POSConfig, error)
	// EnsureExists crea la fila con último número 0 si no existe y la devuelve.
	EnsureExists(ctx context.Context, pos int) (*entity.POSConfig, error)
	List(ctx context.Context) ([]*entity.POSConfig, error)
	// Increment suma 1 de forma atómica y devuelve el nuevo último número.
	// Dentro de una transacción la fila queda bloqueada hasta el commit.
	Increment(ctx context.Context, pos int) (int64, error)
	// CompareAndSet fija next solo si el valor guardado es next-1.
	// Devuelve false si otro proceso avanzó la secuencia.
	CompareAndSet(ctx context.Context, pos int, next int64) (bool, error)
}
