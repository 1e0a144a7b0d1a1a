package stock

import (
	"context"
	"errors"
	"testing"

	"siparis-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSink struct {
	alerts []Alert
	err    error
}

func (f *fakeSink) Send(_ context.Context, a Alert) error {
	if f.err != nil {
		return f.err
	}
	f.alerts = append(f.alerts, a)
	return nil
}

func TestMaybeNotifyBelowThreshold(t *testing.T) {
	ledger := newFakeLedger(&models.Ingredient{ID: 1, Name: "Beef", Stock: 20000, Remaining: 9700})
	sink := &fakeSink{}
	n := NewNotifier(ledger, sink, "merchant@example.com", zap.NewNop())

	ing, _ := ledger.Ingredient(context.Background(), 1)
	n.MaybeNotify(context.Background(), ing)

	require.Len(t, sink.alerts, 1)
	assert.Equal(t, "merchant@example.com", sink.alerts[0].To)
	assert.Equal(t, "Beef", sink.alerts[0].IngredientName)
	assert.Equal(t, int64(9700), sink.alerts[0].Remaining)

	updated, _ := ledger.Ingredient(context.Background(), 1)
	assert.True(t, updated.LowStockAlertSent)
}

func TestMaybeNotifyAboveThresholdNoop(t *testing.T) {
	ledger := newFakeLedger(&models.Ingredient{ID: 1, Name: "Beef", Stock: 20000, Remaining: 10000})
	sink := &fakeSink{}
	n := NewNotifier(ledger, sink, "merchant@example.com", zap.NewNop())

	// Exactly 50% is not below the threshold.
	ing, _ := ledger.Ingredient(context.Background(), 1)
	n.MaybeNotify(context.Background(), ing)

	assert.Empty(t, sink.alerts)
	updated, _ := ledger.Ingredient(context.Background(), 1)
	assert.False(t, updated.LowStockAlertSent)
}

func TestMaybeNotifyOncePerEpisode(t *testing.T) {
	ledger := newFakeLedger(&models.Ingredient{ID: 1, Name: "Beef", Stock: 20000, Remaining: 9700})
	sink := &fakeSink{}
	n := NewNotifier(ledger, sink, "merchant@example.com", zap.NewNop())

	// Two qualifying decrements from two separate orders: one alert.
	ing, _ := ledger.Ingredient(context.Background(), 1)
	n.MaybeNotify(context.Background(), ing)

	ing, _ = ledger.Ingredient(context.Background(), 1)
	ing.Remaining = 8000
	n.MaybeNotify(context.Background(), ing)

	assert.Len(t, sink.alerts, 1)
}

func TestMaybeNotifySendFailureLeavesFlagClear(t *testing.T) {
	ledger := newFakeLedger(&models.Ingredient{ID: 1, Name: "Beef", Stock: 20000, Remaining: 9000})
	sink := &fakeSink{err: errors.New("broker down")}
	n := NewNotifier(ledger, sink, "merchant@example.com", zap.NewNop())

	ing, _ := ledger.Ingredient(context.Background(), 1)
	n.MaybeNotify(context.Background(), ing)

	updated, _ := ledger.Ingredient(context.Background(), 1)
	assert.False(t, updated.LowStockAlertSent, "failed send must keep the retry open")

	// Sink recovers: next qualifying decrement delivers the alert.
	sink.err = nil
	n.MaybeNotify(context.Background(), updated)
	assert.Len(t, sink.alerts, 1)
	updated, _ = ledger.Ingredient(context.Background(), 1)
	assert.True(t, updated.LowStockAlertSent)
}

func TestMaybeNotifyNegativeRemainingStillAlerts(t *testing.T) {
	ledger := newFakeLedger(&models.Ingredient{ID: 1, Name: "Onion", Stock: 1000, Remaining: -40})
	sink := &fakeSink{}
	n := NewNotifier(ledger, sink, "merchant@example.com", zap.NewNop())

	ing, _ := ledger.Ingredient(context.Background(), 1)
	n.MaybeNotify(context.Background(), ing)

	assert.Len(t, sink.alerts, 1)
}

func TestRestockReopensEpisode(t *testing.T) {
	ledger := newFakeLedger(&models.Ingredient{ID: 1, Name: "Beef", Stock: 20000, Remaining: 9000})
	sink := &fakeSink{}
	n := NewNotifier(ledger, sink, "merchant@example.com", zap.NewNop())

	ing, _ := ledger.Ingredient(context.Background(), 1)
	n.MaybeNotify(context.Background(), ing)
	require.Len(t, sink.alerts, 1)

	restocked, err := ledger.Restock(context.Background(), 1, 20000)
	require.NoError(t, err)
	assert.False(t, restocked.LowStockAlertSent)
	assert.Equal(t, int64(20000), restocked.Remaining)

	// New episode, new alert.
	restocked.Remaining = 5000
	n.MaybeNotify(context.Background(), restocked)
	assert.Len(t, sink.alerts, 2)
}
