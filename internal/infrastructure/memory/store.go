// Package memory almacenamiento en memoria de comprobantes y numeración por punto
// de venta. Implementa los mismos puertos que el adaptador PostgreSQL.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository   = (*Store)(nil)
	_ repository.POSConfigRepository = (*POSConfigRepo)(nil)
	_ billing.IssuanceTxRunner       = (*Store)(nil)
)

type posNumber struct {
	pos    int
	number int64
}

// Store guarda comprobantes y puntos de venta. Seguro para uso concurrente.
type Store struct {
	mu       sync.RWMutex
	invoices []*entity.Invoice // orden de inserción
	byCAE    map[string]*entity.Invoice
	byNumber map[posNumber]*entity.Invoice
	pos      map[int]*entity.POSConfig

	locksMu  sync.Mutex
	posLocks map[int]chan struct{}

	now func() time.Time
}

// NewStore construye un almacenamiento vacío.
func NewStore() *Store {
	return &Store{
		byCAE:    make(map[string]*entity.Invoice),
		byNumber: make(map[posNumber]*entity.Invoice),
		pos:      make(map[int]*entity.POSConfig),
		posLocks: make(map[int]chan struct{}),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Ping siempre disponible mientras ctx siga vigente.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// POSConfigs repositorio de numeración fuera de transacción.
func (s *Store) POSConfigs() *POSConfigRepo { return &POSConfigRepo{s: s} }

// lockPOS toma el lock exclusivo del punto de venta o falla si ctx termina antes.
func (s *Store) lockPOS(ctx context.Context, pos int) (func(), error) {
	s.locksMu.Lock()
	ch, ok := s.posLocks[pos]
	if !ok {
		ch = make(chan struct{}, 1)
		s.posLocks[pos] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ── Transacción ───────────────────────────────────────────────────────────────

// RunIssuance ejecuta fn con escrituras diferidas: se aplican juntas al terminar sin
// error. Los puntos de venta tocados quedan bloqueados hasta entonces.
func (s *Store) RunIssuance(ctx context.Context, fn func(
	posRepo repository.POSConfigRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	tx := &memTx{
		s:    s,
		ctx:  ctx,
		held: make(map[int]func()),
		pos:  make(map[int]*entity.POSConfig),
	}
	defer tx.release()

	if err := fn(&txPOSRepo{tx: tx}, &txInvoiceRepo{Store: s, tx: tx}); err != nil {
		return err
	}
	return tx.commit()
}

type memTx struct {
	s        *Store
	ctx      context.Context
	held     map[int]func()
	pos      map[int]*entity.POSConfig
	invoices []*entity.Invoice
}

func (t *memTx) acquire(pos int) error {
	if _, ok := t.held[pos]; ok {
		return nil
	}
	unlock, err := t.s.lockPOS(t.ctx, pos)
	if err != nil {
		return err
	}
	t.held[pos] = unlock
	return nil
}

func (t *memTx) release() {
	for _, unlock := range t.held {
		unlock()
	}
	t.held = nil
}

// posView versión staged o confirmada del punto de venta.
func (t *memTx) posView(pos int) *entity.POSConfig {
	if c, ok := t.pos[pos]; ok {
		return c
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if c, ok := t.s.pos[pos]; ok {
		cp := *c
		return &cp
	}
	return nil
}

func (t *memTx) commit() error {
	if err := t.ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for _, inv := range t.invoices {
		if err := t.s.checkUniqueLocked(inv); err != nil {
			return err
		}
	}
	for p, c := range t.pos {
		cp := *c
		t.s.pos[p] = &cp
	}
	for _, inv := range t.invoices {
		t.s.insertLocked(inv)
	}
	return nil
}

type txPOSRepo struct {
	tx *memTx
}

func (r *txPOSRepo) Get(_ context.Context, pos int) (*entity.POSConfig, error) {
	return r.tx.posView(pos), nil
}

func (r *txPOSRepo) EnsureExists(_ context.Context, pos int) (*entity.POSConfig, error) {
	if err := r.tx.acquire(pos); err != nil {
		return nil, err
	}
	c := r.tx.posView(pos)
	if c == nil {
		c = &entity.POSConfig{POS: pos, UpdatedAt: r.tx.s.now()}
		r.tx.pos[pos] = c
	}
	cp := *c
	return &cp, nil
}

func (r *txPOSRepo) List(ctx context.Context) ([]*entity.POSConfig, error) {
	list, _ := r.tx.s.POSConfigs().List(ctx)
	seen := make(map[int]int, len(list))
	for i, c := range list {
		seen[c.POS] = i
	}
	for p, c := range r.tx.pos {
		cp := *c
		if i, ok := seen[p]; ok {
			list[i] = &cp
			continue
		}
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].POS < list[j].POS })
	return list, nil
}

func (r *txPOSRepo) Increment(_ context.Context, pos int) (int64, error) {
	if err := r.tx.acquire(pos); err != nil {
		return 0, err
	}
	c := r.tx.posView(pos)
	if c == nil {
		return 0, fmt.Errorf("increment pos %d: %w", pos, domain.ErrNotFound)
	}
	c.LastInvoiceNumber++
	c.UpdatedAt = r.tx.s.now()
	r.tx.pos[pos] = c
	return c.LastInvoiceNumber, nil
}

func (r *txPOSRepo) CompareAndSet(_ context.Context, pos int, next int64) (bool, error) {
	if err := r.tx.acquire(pos); err != nil {
		return false, err
	}
	c := r.tx.posView(pos)
	if c == nil || c.LastInvoiceNumber != next-1 {
		return false, nil
	}
	c.LastInvoiceNumber = next
	c.UpdatedAt = r.tx.s.now()
	r.tx.pos[pos] = c
	return true, nil
}

// txInvoiceRepo lecturas sobre lo confirmado; Create y búsquedas puntuales ven lo staged.
type txInvoiceRepo struct {
	*Store
	tx *memTx
}

func (r *txInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	for _, st := range r.tx.invoices {
		if st.CAE == inv.CAE {
			return fmt.Errorf("%w: CAE %s ya existe", domain.ErrDuplicate, inv.CAE)
		}
		if st.POS == inv.POS && st.InvoiceNumber == inv.InvoiceNumber {
			return fmt.Errorf("%w: pos %d número %d ya existe", domain.ErrSequenceConflict, inv.POS, inv.InvoiceNumber)
		}
	}
	r.mu.RLock()
	err := r.checkUniqueLocked(inv)
	r.mu.RUnlock()
	if err != nil {
		return err
	}
	cp := *inv
	r.tx.invoices = append(r.tx.invoices, &cp)
	return nil
}

func (r *txInvoiceRepo) GetByCAE(ctx context.Context, cae string) (*entity.Invoice, error) {
	for _, st := range r.tx.invoices {
		if st.CAE == cae {
			cp := *st
			return &cp, nil
		}
	}
	return r.Store.GetByCAE(ctx, cae)
}

func (r *txInvoiceRepo) GetByNumber(ctx context.Context, pos int, number int64) (*entity.Invoice, error) {
	for _, st := range r.tx.invoices {
		if st.POS == pos && st.InvoiceNumber == number {
			cp := *st
			return &cp, nil
		}
	}
	return r.Store.GetByNumber(ctx, pos, number)
}

// ── InvoiceRepository ─────────────────────────────────────────────────────────

// Create inserta fuera de transacción.
func (s *Store) Create(_ context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUniqueLocked(inv); err != nil {
		return err
	}
	s.insertLocked(inv)
	return nil
}

func (s *Store) GetByCAE(_ context.Context, cae string) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inv, ok := s.byCAE[cae]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) GetByNumber(_ context.Context, pos int, number int64) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inv, ok := s.byNumber[posNumber{pos, number}]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) LastByPOS(_ context.Context, pos int) (*entity.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *entity.Invoice
	for _, inv := range s.invoices {
		if inv.POS == pos && (last == nil || inv.InvoiceNumber > last.InvoiceNumber) {
			last = inv
		}
	}
	if last == nil {
		return nil, nil
	}
	cp := *last
	return &cp, nil
}

func (s *Store) ListByIssuer(_ context.Context, cuit string, opts repository.ListOptions) ([]*entity.Invoice, error) {
	opts = opts.Normalize(repository.OrderByCreatedAt)
	return s.filter(opts, func(inv *entity.Invoice) bool { return inv.CUITEmisor == cuit }), nil
}

func (s *Store) ListByDateRange(_ context.Context, from, to string, opts repository.ListOptions) ([]*entity.Invoice, error) {
	opts = opts.Normalize(repository.OrderByInvoiceDate)
	return s.filter(opts, func(inv *entity.Invoice) bool {
		return inv.InvoiceDate >= from && inv.InvoiceDate <= to
	}), nil
}

func (s *Store) StatsByIssuer(_ context.Context, cuit string) (*entity.InvoiceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := &entity.InvoiceStats{CUITEmisor: cuit}
	for _, inv := range s.invoices {
		if inv.CUITEmisor != cuit {
			continue
		}
		st.TotalInvoices++
		st.TotalAmount = st.TotalAmount.Add(inv.TotalAmount)
		st.TotalIVA = st.TotalIVA.Add(inv.IVAAmount)
		if st.FirstInvoice == "" || inv.InvoiceDate < st.FirstInvoice {
			st.FirstInvoice = inv.InvoiceDate
		}
		if inv.InvoiceDate > st.LastInvoice {
			st.LastInvoice = inv.InvoiceDate
		}
	}
	if st.TotalInvoices > 0 {
		st.AverageAmount = st.TotalAmount.Div(decimal.NewFromInt(st.TotalInvoices)).Round(2)
	}
	return st, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *Store) checkUniqueLocked(inv *entity.Invoice) error {
	if _, ok := s.byCAE[inv.CAE]; ok {
		return fmt.Errorf("%w: CAE %s ya existe", domain.ErrDuplicate, inv.CAE)
	}
	if _, ok := s.byNumber[posNumber{inv.POS, inv.InvoiceNumber}]; ok {
		return fmt.Errorf("%w: pos %d número %d ya existe", domain.ErrSequenceConflict, inv.POS, inv.InvoiceNumber)
	}
	return nil
}

func (s *Store) insertLocked(inv *entity.Invoice) {
	cp := *inv
	s.invoices = append(s.invoices, &cp)
	s.byCAE[cp.CAE] = &cp
	s.byNumber[posNumber{cp.POS, cp.InvoiceNumber}] = &cp
}

func (s *Store) filter(opts repository.ListOptions, keep func(*entity.Invoice) bool) []*entity.Invoice {
	s.mu.RLock()
	matched := make([]*entity.Invoice, 0)
	for _, inv := range s.invoices {
		if keep(inv) {
			cp := *inv
			matched = append(matched, &cp)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		c := compareBy(opts.OrderBy, matched[i], matched[j])
		if opts.Asc {
			return c < 0
		}
		return c > 0
	})

	if opts.Offset >= len(matched) {
		return []*entity.Invoice{}
	}
	end := opts.Offset + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[opts.Offset:end]
}

// compareBy compara por la columna de orden y desempata por número.
func compareBy(orderBy string, a, b *entity.Invoice) int {
	var c int
	switch orderBy {
	case repository.OrderByInvoiceDate:
		c = strings.Compare(a.InvoiceDate, b.InvoiceDate)
	case repository.OrderByInvoiceNumber:
	default:
		c = a.CreatedAt.Compare(b.CreatedAt)
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.InvoiceNumber, b.InvoiceNumber)
}

// ── POSConfigRepository ───────────────────────────────────────────────────────

// POSConfigRepo numeración fuera de transacción; cada operación toma el lock del punto de venta.
type POSConfigRepo struct {
	s *Store
}

func (r *POSConfigRepo) Get(_ context.Context, pos int) (*entity.POSConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.pos[pos]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *POSConfigRepo) EnsureExists(ctx context.Context, pos int) (*entity.POSConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.pos[pos]
	if !ok {
		c = &entity.POSConfig{POS: pos, UpdatedAt: r.s.now()}
		r.s.pos[pos] = c
	}
	cp := *c
	return &cp, nil
}

func (r *POSConfigRepo) List(_ context.Context) ([]*entity.POSConfig, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.POSConfig, 0, len(r.s.pos))
	for _, c := range r.s.pos {
		cp := *c
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].POS < list[j].POS })
	return list, nil
}

func (r *POSConfigRepo) Increment(ctx context.Context, pos int) (int64, error) {
	unlock, err := r.s.lockPOS(ctx, pos)
	if err != nil {
		return 0, err
	}
	defer unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.pos[pos]
	if !ok {
		return 0, fmt.Errorf("increment pos %d: %w", pos, domain.ErrNotFound)
	}
	c.LastInvoiceNumber++
	c.UpdatedAt = r.s.now()
	return c.LastInvoiceNumber, nil
}

func (r *POSConfigRepo) CompareAndSet(ctx context.Context, pos int, next int64) (bool, error) {
	unlock, err := r.s.lockPOS(ctx, pos)
	if err != nil {
		return false, err
	}
	defer unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.pos[pos]
	if !ok || c.LastInvoiceNumber != next-1 {
		return false, nil
	}
	c.LastInvoiceNumber = next
	c.UpdatedAt = r.s.now()
	return true, nil
}
