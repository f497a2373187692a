package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elosyboy/opochonmagique/internal/models"
)

// memoryBackend simule la frontière de persistance sans Redis.
type memoryBackend struct {
	data    map[string][]byte
	signals []string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string][]byte{}}
}

func (m *memoryBackend) Load(_ context.Context, cartID string) ([]byte, error) {
	return m.data[cartID], nil
}

func (m *memoryBackend) Save(_ context.Context, cartID string, data []byte) error {
	m.data[cartID] = data
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, cartID string) error {
	delete(m.data, cartID)
	return nil
}

func (m *memoryBackend) Publish(_ context.Context, _, signal string) error {
	m.signals = append(m.signals, signal)
	return nil
}

func fleurItem() models.CartItem {
	return models.CartItem{
		Category:  models.CategoryFleur,
		ProductID: "abc123",
		Name:      "Amnesia",
		Variant:   "3g",
		UnitPrice: 12.50,
	}
}

func TestAddMergesSameProductAndVariant(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryBackend())

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 2))
	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 3))

	items := store.Items(ctx, "c1")
	assert.Len(t, items, 1, "deux ajouts du même produit+variante doivent fusionner en une ligne")
	assert.Equal(t, 5, items[0].Quantity)
}

func TestAddDifferentVariantsKeepSeparateLines(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryBackend())

	other := fleurItem()
	other.Variant = "5g"
	other.UnitPrice = 19.90

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 1))
	assert.NoError(t, store.Add(ctx, "c1", other, 1))

	assert.Len(t, store.Items(ctx, "c1"), 2)
}

func TestKeysDoNotCollideAcrossCategories(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryBackend())

	fleur := fleurItem()

	puff := models.CartItem{
		Category:  models.CategoryPuff,
		ProductID: fleur.ProductID, // même identifiant, autre rayon
		Name:      "Puff Mangue",
		Variant:   models.VariantUnit,
		UnitPrice: 9.90,
	}

	assert.NoError(t, store.Add(ctx, "c1", fleur, 1))
	assert.NoError(t, store.Add(ctx, "c1", puff, 1))

	items := store.Items(ctx, "c1")
	assert.Len(t, items, 2)
	assert.NotEqual(t, items[0].Key(), items[1].Key())
}

func TestSetQuantityClampsToOne(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryBackend())

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 4))
	key := fleurItem().Key()

	assert.NoError(t, store.SetQuantity(ctx, "c1", key, 0))
	items := store.Items(ctx, "c1")
	assert.Len(t, items, 1, "la quantité ne supprime jamais une ligne")
	assert.Equal(t, 1, items[0].Quantity)

	assert.NoError(t, store.SetQuantity(ctx, "c1", key, -5))
	assert.Equal(t, 1, store.Items(ctx, "c1")[0].Quantity)
}

func TestSetQuantityUnknownKeyIsNoop(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	store := NewStore(backend)

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 1))
	before := len(backend.signals)

	absent := models.LineKey{Category: models.CategoryHuile, ProductID: "zz", Variant: models.VariantUnit}
	assert.NoError(t, store.SetQuantity(ctx, "c1", absent, 7))

	assert.Equal(t, before, len(backend.signals), "un no-op ne publie pas de signal")
	assert.Equal(t, 1, store.Items(ctx, "c1")[0].Quantity)
}

func TestRemoveDeletesLine(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryBackend())

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 2))
	assert.NoError(t, store.Remove(ctx, "c1", fleurItem().Key()))
	assert.Empty(t, store.Items(ctx, "c1"))

	// Supprimer une clé absente est un no-op
	assert.NoError(t, store.Remove(ctx, "c1", fleurItem().Key()))
}

func TestClearEmptiesCart(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	store := NewStore(backend)

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 2))
	assert.NoError(t, store.Clear(ctx, "c1"))

	assert.Empty(t, store.Items(ctx, "c1"))
	assert.Contains(t, backend.signals, SignalCleared)
}

func TestCorruptStateDegradesToEmptyCart(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	backend.data["c1"] = []byte("{pas du json[")

	store := NewStore(backend)
	assert.Empty(t, store.Items(ctx, "c1"))

	// Et le panier reste utilisable après dégradation
	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 1))
	assert.Len(t, store.Items(ctx, "c1"), 1)
}

func TestReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemoryBackend())

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 2))

	first := store.Items(ctx, "c1")
	second := store.Items(ctx, "c1")
	assert.Equal(t, first, second)
	assert.Equal(t, Subtotal(first), Subtotal(second))
}

func TestRoundTripPreservesLines(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	store := NewStore(backend)

	other := fleurItem()
	other.Variant = "5g"
	other.UnitPrice = 19.90

	puff := models.CartItem{
		Category:  models.CategoryPuff,
		ProductID: "p42",
		Name:      "Puff Fraise",
		Variant:   models.VariantUnit,
		UnitPrice: 8.90,
	}

	assert.NoError(t, store.Add(ctx, "c1", fleurItem(), 2))
	assert.NoError(t, store.Add(ctx, "c1", other, 1))
	assert.NoError(t, store.Add(ctx, "c1", puff, 3))

	written := store.Items(ctx, "c1")

	// Relecture depuis l'octet persisté par un second store
	reread := NewStore(backend).Items(ctx, "c1")

	assert.Equal(t, written, reread)
	assert.Len(t, reread, 3)
	for i := range written {
		assert.Equal(t, written[i].Key(), reread[i].Key())
		assert.Equal(t, written[i].Quantity, reread[i].Quantity)
		assert.Equal(t, written[i].UnitPrice, reread[i].UnitPrice)
	}
}

func TestSubtotal(t *testing.T) {
	items := []models.CartItem{
		{UnitPrice: 12.50, Quantity: 2},
		{UnitPrice: 9.90, Quantity: 1},
	}
	assert.InDelta(t, 34.90, Subtotal(items), 1e-9)
	assert.Zero(t, Subtotal(nil))
}
