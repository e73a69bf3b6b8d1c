package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/entity"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
)

var base = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func invoice(pos int, number int64, date string, total string) *entity.Invoice {
	return &entity.Invoice{
		CAE:           fmt.Sprintf("%s%06d", date, pos*1000+int(number)),
		CAEExpiration: date,
		InvoiceNumber: number,
		POS:           pos,
		InvoiceDate:   date,
		InvoiceType:   6,
		TotalAmount:   decimal.RequireFromString(total),
		IVAAmount:     decimal.Zero,
		CUITEmisor:    "20123456786",
		CreatedAt:     base.Add(time.Duration(number) * time.Minute),
	}
}

func TestStore_CreateRechazaDuplicados(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	inv := invoice(1, 1, "20240315", "100")
	require.NoError(t, s.Create(ctx, inv))
	assert.NotEmpty(t, inv.ID)

	dupCAE := invoice(1, 2, "20240315", "100")
	dupCAE.CAE = inv.CAE
	assert.True(t, errors.Is(s.Create(ctx, dupCAE), domain.ErrDuplicate))

	dupNumber := invoice(1, 1, "20240316", "100")
	assert.True(t, errors.Is(s.Create(ctx, dupNumber), domain.ErrSequenceConflict))

	got, err := s.GetByNumber(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, inv.CAE, got.CAE)

	missing, err := s.GetByCAE(ctx, "20240315999999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_RunIssuance_ConfirmaOSeRevierte(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunIssuance(ctx, func(posRepo repository.POSConfigRepository, invRepo repository.InvoiceRepository) error {
		_, err := posRepo.EnsureExists(ctx, 1)
		require.NoError(t, err)
		n, err := posRepo.Increment(ctx, 1)
		require.NoError(t, err)
		inv := invoice(1, n, "20240315", "100")
		require.NoError(t, invRepo.Create(ctx, inv))

		// visible dentro de la transacción, no fuera.
		staged, _ := invRepo.GetByCAE(ctx, inv.CAE)
		assert.NotNil(t, staged)
		outside, _ := s.GetByCAE(ctx, inv.CAE)
		assert.Nil(t, outside)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	cfg, err := s.POSConfigs().Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, cfg)
	last, err := s.LastByPOS(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, last)

	err = s.RunIssuance(ctx, func(posRepo repository.POSConfigRepository, invRepo repository.InvoiceRepository) error {
		if _, err := posRepo.EnsureExists(ctx, 1); err != nil {
			return err
		}
		n, err := posRepo.Increment(ctx, 1)
		if err != nil {
			return err
		}
		return invRepo.Create(ctx, invoice(1, n, "20240315", "100"))
	})
	require.NoError(t, err)

	cfg, err = s.POSConfigs().Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.LastInvoiceNumber)
	last, err = s.LastByPOS(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), last.InvoiceNumber)
}

func TestStore_PuntoDeVentaBloqueadoDuranteLaTransaccion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	holding := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.RunIssuance(ctx, func(posRepo repository.POSConfigRepository, _ repository.InvoiceRepository) error {
			if _, err := posRepo.EnsureExists(ctx, 4); err != nil {
				return err
			}
			close(holding)
			<-time.After(200 * time.Millisecond)
			return nil
		})
	}()
	<-holding

	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	err := s.RunIssuance(waitCtx, func(posRepo repository.POSConfigRepository, _ repository.InvoiceRepository) error {
		_, err := posRepo.EnsureExists(waitCtx, 4)
		return err
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// otro punto de venta no espera.
	err = s.RunIssuance(ctx, func(posRepo repository.POSConfigRepository, _ repository.InvoiceRepository) error {
		_, err := posRepo.EnsureExists(ctx, 5)
		return err
	})
	assert.NoError(t, err)
	<-done
}

func TestStore_CompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.POSConfigs()

	ok, err := repo.CompareAndSet(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok, "punto de venta inexistente")

	_, err = repo.EnsureExists(ctx, 2)
	require.NoError(t, err)
	ok, err = repo.CompareAndSet(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.CompareAndSet(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.Increment(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.Increment(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ListadosOrdenYPaginacion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, invoice(1, 1, "20240310", "100")))
	require.NoError(t, s.Create(ctx, invoice(1, 2, "20240320", "200")))
	require.NoError(t, s.Create(ctx, invoice(1, 3, "20240315", "300")))
	other := invoice(2, 1, "20240315", "50")
	other.CUITEmisor = "30712345671"
	require.NoError(t, s.Create(ctx, other))

	list, err := s.ListByIssuer(ctx, "20123456786", repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, int64(3), list[0].InvoiceNumber, "created_at DESC por defecto")

	list, err = s.ListByIssuer(ctx, "20123456786", repository.ListOptions{OrderBy: repository.OrderByInvoiceDate, Asc: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "20240310", list[0].InvoiceDate)
	assert.Equal(t, "20240315", list[1].InvoiceDate)

	list, err = s.ListByIssuer(ctx, "20123456786", repository.ListOptions{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.ListByDateRange(ctx, "20240315", "20240315", repository.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	st, err := s.StatsByIssuer(ctx, "20123456786")
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalInvoices)
	assert.True(t, st.TotalAmount.Equal(decimal.RequireFromString("600")))
	assert.True(t, st.AverageAmount.Equal(decimal.RequireFromString("200")))
	assert.Equal(t, "20240310", st.FirstInvoice)
	assert.Equal(t, "20240320", st.LastInvoice)

	pts, err := s.POSConfigs().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, pts, "Create fuera de transacción no toca la numeración")
}

func TestStore_Ping(t *testing.T) {
	s := NewStore()
	assert.NoError(t, s.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}
