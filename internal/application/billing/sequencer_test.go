package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/afip-mock/internal/application/billing"
	"github.com/jhoicas/afip-mock/internal/domain"
	"github.com/jhoicas/afip-mock/internal/domain/repository"
	"github.com/jhoicas/afip-mock/internal/infrastructure/memory"
)

func TestSequencer_NextYCommit(t *testing.T) {
	store := memory.NewStore()
	seq := billing.NewInvoiceSequencer(store.POSConfigs())
	ctx := context.Background()

	last, err := seq.LastNumber(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	next, err := seq.NextNumber(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	// NextNumber no reserva.
	next, err = seq.NextNumber(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	require.NoError(t, seq.Commit(ctx, 3, 1))
	err = seq.Commit(ctx, 3, 1)
	assert.True(t, errors.Is(err, domain.ErrSequenceConflict))
	err = seq.Commit(ctx, 3, 5)
	assert.True(t, errors.Is(err, domain.ErrSequenceConflict))

	last, err = seq.LastNumber(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), last)

	pts, err := seq.PointsOfSale(ctx)
	require.NoError(t, err)
	require.Len(t, pts, 1)
	assert.Equal(t, 3, pts[0].POS)
}

func TestSequencer_ReservaSeRevierteSiFallaLaTransaccion(t *testing.T) {
	store := memory.NewStore()
	seq := billing.NewInvoiceSequencer(store.POSConfigs())
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.RunIssuance(ctx, func(posRepo repository.POSConfigRepository, _ repository.InvoiceRepository) error {
		n, err := seq.Reserve(ctx, posRepo, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	last, err := seq.LastNumber(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	err = store.RunIssuance(ctx, func(posRepo repository.POSConfigRepository, _ repository.InvoiceRepository) error {
		n, err := seq.Reserve(ctx, posRepo, 9)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), n)
		return nil
	})
	require.NoError(t, err)

	last, err = seq.LastNumber(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(1), last)
}
