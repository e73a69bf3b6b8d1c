package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
)

var _ repository.POSConfigRepository = (*POSConfigRepo)(nil)

// POSConfigRepo implementación de POSConfigRepository (usable con pool o tx).
type POSConfigRepo struct {
	q Querier
}

// NewPOSConfigRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPOSConfigRepository(q Querier) *POSConfigRepo {
	return &POSConfigRepo{q: q}
}

// Get devuelve la numeración del punto de venta o nil si no existe.
func (r *POSConfigRepo) Get(ctx context.Context, pos int) (*entity.POSConfig, error) {
	query := `SELECT pos, last_invoice_number, updated_at FROM pos_config WHERE pos = $1`
	var c entity.POSConfig
	err := r.q.QueryRow(ctx, query, pos).Scan(&c.POS, &c.LastInvoiceNumber, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pos_config: %w", err)
	}
	return &c, nil
}

// EnsureExists inserta la fila en 0 si no existe (concurrencia segura) y la devuelve.
func (r *POSConfigRepo) EnsureExists(ctx context.Context, pos int) (*entity.POSConfig, error) {
	_, err := r.q.Exec(ctx,
		`INSERT INTO pos_config (pos, last_invoice_number, updated_at) VALUES ($1, 0, now())
		 ON CONFLICT (pos) DO NOTHING`, pos)
	if err != nil {
		return nil, fmt.Errorf("ensure pos_config: %w", err)
	}
	c, err := r.Get(ctx, pos)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("ensure pos_config %d: %w", pos, domain.ErrNotFound)
	}
	return c, nil
}

// List puntos de venta ordenados por número.
func (r *POSConfigRepo) List(ctx context.Context) ([]*entity.POSConfig, error) {
	rows, err := r.q.Query(ctx, `SELECT pos, last_invoice_number, updated_at FROM pos_config ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("list pos_config: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.POSConfig, 0)
	for rows.Next() {
		var c entity.POSConfig
		if err := rows.Scan(&c.POS, &c.LastInvoiceNumber, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pos_config: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Increment suma 1 y devuelve el nuevo último número. El UPDATE toma el lock de fila.
func (r *POSConfigRepo) Increment(ctx context.Context, pos int) (int64, error) {
	var next int64
	err := r.q.QueryRow(ctx,
		`UPDATE pos_config SET last_invoice_number = last_invoice_number + 1, updated_at = now()
		 WHERE pos = $1 RETURNING last_invoice_number`, pos).Scan(&next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("increment pos_config %d: %w", pos, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("increment pos_config: %w", err)
	}
	return next, nil
}

// CompareAndSet fija next solo si el valor guardado es next-1.
func (r *POSConfigRepo) CompareAndSet(ctx context.Context, pos int, next int64) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE pos_config SET last_invoice_number = $2, updated_at = now()
		 WHERE pos = $1 AND last_invoice_number = $2 - 1`, pos, next)
	if err != nil {
		return false, fmt.Errorf("compare-and-set pos_config: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
