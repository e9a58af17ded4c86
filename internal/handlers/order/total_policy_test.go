package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crema_back_end/internal/models"
)

type fakePriceLookup map[string]float64

func (f fakePriceLookup) UnitPrice(_ context.Context, menuItemID string) (float64, error) {
	price, ok := f[menuItemID]
	if !ok {
		return 0, errors.New("introuvable")
	}
	return price, nil
}

func menuLine(id, name string, qty int, price float64) models.OrderItem {
	return models.OrderItem{ID: &id, Name: name, Qty: qty, Price: price}
}

func specialLine(name string, qty int, price float64) models.OrderItem {
	return models.OrderItem{Name: name, Qty: qty, Price: price, IsSpecial: true}
}

func TestClientComputedTotalAcceptsAnything(t *testing.T) {
	policy := ClientComputedTotal{}

	err := policy.Verify(context.Background(), []models.OrderItem{
		menuLine("a1", "Espresso", 1, 4.50),
	}, 999.99)

	assert.NoError(t, err)
}

func TestRecomputeAcceptsMatchingTotal(t *testing.T) {
	policy := RecomputeAndVerifyTotal{Prices: fakePriceLookup{
		"a1": 4.50,
		"b2": 7.25,
	}}

	err := policy.Verify(context.Background(), []models.OrderItem{
		menuLine("a1", "Espresso", 2, 4.50),
		menuLine("b2", "Croissant", 1, 7.25),
	}, 16.25)

	assert.NoError(t, err)
}

func TestRecomputeUsesCatalogPriceNotSubmittedPrice(t *testing.T) {
	policy := RecomputeAndVerifyTotal{Prices: fakePriceLookup{"a1": 4.50}}

	// le client annonce 1.00 l'unité, le catalogue dit 4.50
	err := policy.Verify(context.Background(), []models.OrderItem{
		menuLine("a1", "Espresso", 2, 1.00),
	}, 2.00)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "total incohérent")
}

func TestRecomputeKeepsSubmittedPriceForSpecials(t *testing.T) {
	policy := RecomputeAndVerifyTotal{Prices: fakePriceLookup{}}

	err := policy.Verify(context.Background(), []models.OrderItem{
		specialLine("Soupe du jour", 2, 5.50),
	}, 11.00)

	assert.NoError(t, err)
}

func TestRecomputeRejectsUnknownMenuItem(t *testing.T) {
	policy := RecomputeAndVerifyTotal{Prices: fakePriceLookup{}}

	err := policy.Verify(context.Background(), []models.OrderItem{
		menuLine("fantome", "Plat fantôme", 1, 9.99),
	}, 9.99)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "introuvable au catalogue")
}

func TestRecomputeRejectsMissingID(t *testing.T) {
	policy := RecomputeAndVerifyTotal{Prices: fakePriceLookup{}}

	err := policy.Verify(context.Background(), []models.OrderItem{
		{Name: "Espresso", Qty: 1, Price: 4.50},
	}, 4.50)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "identifiant manquant")
}

func TestRecomputeRejectsInvalidQuantity(t *testing.T) {
	policy := RecomputeAndVerifyTotal{Prices: fakePriceLookup{"a1": 4.50}}

	err := policy.Verify(context.Background(), []models.OrderItem{
		menuLine("a1", "Espresso", 0, 4.50),
	}, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantité invalide")
}

func TestRecomputeComparesInCents(t *testing.T) {
	policy := RecomputeAndVerifyTotal{Prices: fakePriceLookup{"a1": 0.10}}

	// 3 × 0.10 : la comparaison en centimes ne bronche pas sur les flottants
	err := policy.Verify(context.Background(), []models.OrderItem{
		menuLine("a1", "Bonbon", 3, 0.10),
	}, 0.30)

	assert.NoError(t, err)
}

func TestPolicyFromEnv(t *testing.T) {
	t.Setenv("ORDER_TOTAL_POLICY", "")
	assert.IsType(t, ClientComputedTotal{}, PolicyFromEnv())

	t.Setenv("ORDER_TOTAL_POLICY", "recompute")
	assert.IsType(t, RecomputeAndVerifyTotal{}, PolicyFromEnv())
}
