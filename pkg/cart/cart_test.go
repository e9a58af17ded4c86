package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func espresso() Entry {
	return Entry{LineID: "m-espresso", Name: "Espresso", UnitPrice: 4.50, ImageURL: "https://img/espresso.jpg"}
}

func croissant() Entry {
	return Entry{LineID: "m-croissant", Name: "Croissant", UnitPrice: 7.25, ImageURL: "https://img/croissant.jpg"}
}

func TestAddSameLineTwiceIncrementsQuantity(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.Add(espresso())

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 2, c.TotalItems())
	assert.InDelta(t, 9.00, c.TotalPrice(), 0.0001)
}

func TestAddDistinctLines(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.Add(croissant())

	require.Len(t, c.Lines(), 2)
	assert.Equal(t, 2, c.TotalItems())
	assert.InDelta(t, 11.75, c.TotalPrice(), 0.0001)
	assert.Equal(t, int64(1175), c.TotalCents())
}

func TestAddOrderDoesNotChangeTotal(t *testing.T) {
	a := New()
	a.Add(espresso())
	a.Add(croissant())
	a.Add(espresso())

	b := New()
	b.Add(croissant())
	b.Add(espresso())
	b.Add(espresso())

	assert.Equal(t, a.TotalCents(), b.TotalCents())
	assert.Equal(t, a.TotalItems(), b.TotalItems())
}

func TestSpecialAndMenuItemAreDistinctLines(t *testing.T) {
	c := New()
	c.Add(Entry{LineID: "12", Name: "Tiramisu", UnitPrice: 6.00})
	c.Add(Entry{LineID: SpecialLineID("12"), Name: "Tiramisu du jour", UnitPrice: 5.00, IsSpecial: true})

	require.Len(t, c.Lines(), 2)
	assert.Equal(t, "special-12", c.Lines()[1].LineID)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.UpdateQuantity("m-espresso", 5)

	assert.Equal(t, 5, c.TotalItems())
	assert.Equal(t, int64(2250), c.TotalCents())
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.Add(croissant())
	c.UpdateQuantity("m-espresso", 0)

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "m-croissant", c.Lines()[0].LineID)

	c.UpdateQuantity("m-croissant", -3)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantityUnknownLineIsNoop(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.UpdateQuantity("inconnu", 4)

	assert.Equal(t, 1, c.TotalItems())
}

func TestRemove(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.Add(croissant())
	c.Remove("m-espresso")

	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "m-croissant", c.Lines()[0].LineID)

	// sans effet sur une ligne absente
	c.Remove("m-espresso")
	assert.Len(t, c.Lines(), 1)
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.Add(croissant())
	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.Equal(t, int64(0), c.TotalCents())
	assert.Equal(t, 0, c.TotalItems())
}

func TestTotalsUseCentsNotFloats(t *testing.T) {
	// 3 × 0.10 vaudrait 0.30000000000000004 en flottants naïfs
	c := New()
	c.Add(Entry{LineID: "m-bonbon", Name: "Bonbon", UnitPrice: 0.10})
	c.UpdateQuantity("m-bonbon", 3)

	assert.Equal(t, int64(30), c.TotalCents())
	assert.Equal(t, 0.30, c.TotalPrice())
}

func TestSnapshotMatchesOrderPayload(t *testing.T) {
	c := New()
	c.Add(espresso())
	c.Add(espresso())
	c.Add(Entry{LineID: SpecialLineID("7"), Name: "Soupe du jour", UnitPrice: 5.50, IsSpecial: true})

	snap := c.Snapshot("user-1")
	assert.Equal(t, "user-1", snap.UserID)
	assert.InDelta(t, 14.50, snap.TotalPrice, 0.0001)
	require.Len(t, snap.OrderItems, 2)

	menu := snap.OrderItems[0]
	require.NotNil(t, menu.ID)
	assert.Equal(t, "m-espresso", *menu.ID)
	assert.Equal(t, 2, menu.Qty)
	assert.False(t, menu.IsSpecial)

	special := snap.OrderItems[1]
	assert.Nil(t, special.ID)
	assert.True(t, special.IsSpecial)
	assert.InDelta(t, 5.50, special.Price, 0.0001)
}

func TestLinesReturnsACopy(t *testing.T) {
	c := New()
	c.Add(espresso())

	lines := c.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, c.TotalItems())
}
