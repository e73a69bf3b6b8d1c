package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const invoiceColumns = `
	id, cae, cae_expiration, invoice_number, pos, invoice_date, invoice_type, concept,
	total_amount, iva_amount, cuit_emisor, cuit_receptor, doc_tipo, doc_nro,
	tax_category, currency, created_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create inserta el comprobante. Un CAE repetido devuelve domain.ErrDuplicate;
// un (pos, número) repetido devuelve domain.ErrSequenceConflict.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CAE, inv.CAEExpiration, inv.InvoiceNumber, inv.POS, inv.InvoiceDate,
		inv.InvoiceType, inv.Concept, inv.TotalAmount, inv.IVAAmount, inv.CUITEmisor,
		nullIfEmpty(inv.CUITReceptor), inv.DocTipo, nullIfEmpty(inv.DocNro),
		inv.TaxCategory, inv.Currency, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			switch violatedConstraint(err) {
			case constraintInvoicePOSNumber:
				return fmt.Errorf("%w: pos %d número %d ya existe", domain.ErrSequenceConflict, inv.POS, inv.InvoiceNumber)
			default:
				return fmt.Errorf("%w: CAE %s ya existe", domain.ErrDuplicate, inv.CAE)
			}
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByCAE obtiene un comprobante por CAE.
func (r *InvoiceRepo) GetByCAE(ctx context.Context, cae string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE cae = $1`
	return r.getOne(ctx, query, cae)
}

// GetByNumber obtiene un comprobante por punto de venta y número.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, pos int, number int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE pos = $1 AND invoice_number = $2`
	return r.getOne(ctx, query, pos, number)
}

// LastByPOS comprobante de mayor número del punto de venta.
func (r *InvoiceRepo) LastByPOS(ctx context.Context, pos int) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE pos = $1 ORDER BY invoice_number DESC LIMIT 1`
	return r.getOne(ctx, query, pos)
}

// ListByIssuer comprobantes del CUIT emisor paginados.
func (r *InvoiceRepo) ListByIssuer(ctx context.Context, cuit string, opts repository.ListOptions) ([]*entity.Invoice, error) {
	opts = opts.Normalize(repository.OrderByCreatedAt)
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE cuit_emisor = $1` +
		orderClause(opts) + ` LIMIT $2 OFFSET $3`
	return r.list(ctx, query, cuit, opts.Limit, opts.Offset)
}

// ListByDateRange comprobantes con invoice_date en [from, to].
func (r *InvoiceRepo) ListByDateRange(ctx context.Context, from, to string, opts repository.ListOptions) ([]*entity.Invoice, error) {
	opts = opts.Normalize(repository.OrderByInvoiceDate)
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_date BETWEEN $1 AND $2` +
		orderClause(opts) + ` LIMIT $3 OFFSET $4`
	return r.list(ctx, query, from, to, opts.Limit, opts.Offset)
}

// StatsByIssuer agregados del emisor; sin comprobantes devuelve ceros.
func (r *InvoiceRepo) StatsByIssuer(ctx context.Context, cuit string) (*entity.InvoiceStats, error) {
	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(iva_amount), 0),
		       COALESCE(ROUND(AVG(total_amount), 2), 0),
		       MIN(invoice_date),
		       MAX(invoice_date)
		FROM invoices WHERE cuit_emisor = $1`
	st := entity.InvoiceStats{CUITEmisor: cuit}
	var first, last *string
	err := r.q.QueryRow(ctx, query, cuit).Scan(
		&st.TotalInvoices, &st.TotalAmount, &st.TotalIVA, &st.AverageAmount, &first, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("invoice stats: %w", err)
	}
	st.FirstInvoice = derefStr(first)
	st.LastInvoice = derefStr(last)
	return &st, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// orderClause solo admite columnas ya normalizadas por ListOptions.
func orderClause(opts repository.ListOptions) string {
	dir := " DESC"
	if opts.Asc {
		dir = " ASC"
	}
	return ` ORDER BY ` + opts.OrderBy + dir + `, invoice_number` + dir
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv               entity.Invoice
		cuitReceptor, nro *string
	)
	err := row.Scan(
		&inv.ID, &inv.CAE, &inv.CAEExpiration, &inv.InvoiceNumber, &inv.POS, &inv.InvoiceDate,
		&inv.InvoiceType, &inv.Concept, &inv.TotalAmount, &inv.IVAAmount, &inv.CUITEmisor,
		&cuitReceptor, &inv.DocTipo, &nro, &inv.TaxCategory, &inv.Currency, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.CUITReceptor = derefStr(cuitReceptor)
	inv.DocNro = derefStr(nro)
	return &inv, nil
}
