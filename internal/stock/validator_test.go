package stock

import (
	"context"
	"errors"
	"testing"

	"siparis-backend/internal/models"
	"siparis-backend/internal/recipecache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	entries map[uint][]recipecache.Entry
}

func (f *fakeResolver) Entries(_ context.Context, productID uint) ([]recipecache.Entry, error) {
	return f.entries[productID], nil
}

const burgerID = 1

func burgerFixture() (*fakeResolver, *fakeLedger) {
	resolver := &fakeResolver{entries: map[uint][]recipecache.Entry{
		burgerID: {
			{IngredientID: 1, Quantity: 150}, // Beef
			{IngredientID: 2, Quantity: 30},  // Cheese
			{IngredientID: 3, Quantity: 20},  // Onion
		},
	}}
	ledger := newFakeLedger(
		&models.Ingredient{ID: 1, Name: "Beef", Stock: 20000, Remaining: 20000},
		&models.Ingredient{ID: 2, Name: "Cheese", Stock: 5000, Remaining: 5000},
		&models.Ingredient{ID: 3, Name: "Onion", Stock: 1000, Remaining: 1000},
	)
	return resolver, ledger
}

func TestValidatePasses(t *testing.T) {
	resolver, ledger := burgerFixture()
	v := NewValidator(resolver, ledger)

	assert.NoError(t, v.Validate(context.Background(), burgerID, 2))
}

func TestValidateFailsWhenOneIngredientShort(t *testing.T) {
	resolver, ledger := burgerFixture()
	v := NewValidator(resolver, ledger)

	// Quantity 52: Beef needs 7800 of 20000 (fine), Onion needs 1040 of 1000.
	err := v.Validate(context.Background(), burgerID, 52)
	require.Error(t, err)

	var ise *InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, uint(burgerID), ise.ProductID)
	assert.Equal(t, []uint{3}, ise.IngredientIDs)
	assert.Equal(t, "Insufficient stock for some ingredients for the product: 1", ise.Error())
}

func TestValidateListsAllShortIngredients(t *testing.T) {
	resolver, ledger := burgerFixture()
	v := NewValidator(resolver, ledger)

	// Quantity 200: Beef needs 30000, Cheese 6000, Onion 4000 — all short.
	err := v.Validate(context.Background(), burgerID, 200)
	require.Error(t, err)

	var ise *InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, []uint{1, 2, 3}, ise.IngredientIDs)
}

func TestValidateExactlyEnoughPasses(t *testing.T) {
	resolver, ledger := burgerFixture()
	v := NewValidator(resolver, ledger)

	// Quantity 50: Onion needs exactly 1000, remaining is 1000.
	assert.NoError(t, v.Validate(context.Background(), burgerID, 50))
}

func TestValidateNegativeRemainingIsShort(t *testing.T) {
	resolver := &fakeResolver{entries: map[uint][]recipecache.Entry{
		burgerID: {{IngredientID: 1, Quantity: 1}},
	}}
	ledger := newFakeLedger(&models.Ingredient{ID: 1, Name: "Beef", Stock: 100, Remaining: -5})
	v := NewValidator(resolver, ledger)

	var ise *InsufficientStockError
	require.ErrorAs(t, v.Validate(context.Background(), burgerID, 1), &ise)
}

func TestValidateEmptyRecipePasses(t *testing.T) {
	resolver := &fakeResolver{entries: map[uint][]recipecache.Entry{}}
	v := NewValidator(resolver, newFakeLedger())

	assert.NoError(t, v.Validate(context.Background(), 99, 3))
}

func TestValidateSurfacesLedgerError(t *testing.T) {
	resolver := &fakeResolver{entries: map[uint][]recipecache.Entry{
		burgerID: {{IngredientID: 404, Quantity: 1}},
	}}
	v := NewValidator(resolver, newFakeLedger())

	err := v.Validate(context.Background(), burgerID, 1)
	assert.True(t, errors.Is(err, ErrIngredientNotFound))
}
