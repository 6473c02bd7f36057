package storage

import (
	"context"
	"testing"
	"time"

	"github.com/budgettracker/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories runs every test against each repository implementation
var storeFactories = []struct {
	name string
	open func(t *testing.T) domain.PurchaseRepository
}{
	{
		name: "memory",
		open: func(t *testing.T) domain.PurchaseRepository {
			return NewMemoryStore()
		},
	},
	{
		name: "sqlite",
		open: func(t *testing.T) domain.PurchaseRepository {
			store, err := OpenSQLite(":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store
		},
	},
}

func newPurchase(id, name, room string, cost float64, purchased bool, createdAt time.Time) *domain.Purchase {
	return &domain.Purchase{
		ID:        id,
		Name:      name,
		Link:      "https://shop.example/" + id,
		Cost:      cost,
		Purchased: purchased,
		Room:      room,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			store := factory.open(t)
			ctx := context.Background()
			created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

			purchase := newPurchase("p1", "Sofa", "Living room", 899.5, false, created)
			purchase.Comments = "grey fabric"
			require.NoError(t, store.Create(ctx, purchase))

			got, err := store.Get(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, "Sofa", got.Name)
			assert.Equal(t, "https://shop.example/p1", got.Link)
			assert.Equal(t, 899.5, got.Cost)
			assert.False(t, got.Purchased)
			assert.Equal(t, "grey fabric", got.Comments)
			assert.Equal(t, "Living room", got.Room)
			assert.True(t, created.Equal(got.CreatedAt))
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			store := factory.open(t)

			got, err := store.Get(context.Background(), "missing")

			assert.Nil(t, got)
			assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
		})
	}
}

func TestStore_List(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			store := factory.open(t)
			ctx := context.Background()
			base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

			require.NoError(t, store.Create(ctx, newPurchase("a", "Lamp", "Bedroom", 40, false, base)))
			require.NoError(t, store.Create(ctx, newPurchase("b", "Desk", "Office", 250, true, base.Add(time.Hour))))
			require.NoError(t, store.Create(ctx, newPurchase("c", "Rug", "Bedroom", 120, false, base.Add(2*time.Hour))))

			all, err := store.List(ctx, domain.PurchaseFilter{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, []string{"c", "b", "a"}, ids(all))

			bedroom, err := store.List(ctx, domain.PurchaseFilter{Room: "Bedroom"})
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "a"}, ids(bedroom))

			none, err := store.List(ctx, domain.PurchaseFilter{Room: "Garage"})
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}

func TestStore_Update(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			store := factory.open(t)
			ctx := context.Background()
			created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

			purchase := newPurchase("p1", "Chair", "Kitchen", 60, false, created)
			require.NoError(t, store.Create(ctx, purchase))

			purchase.Purchased = true
			purchase.Cost = 55
			purchase.UpdatedAt = created.Add(time.Hour)
			require.NoError(t, store.Update(ctx, purchase))

			got, err := store.Get(ctx, "p1")
			require.NoError(t, err)
			assert.True(t, got.Purchased)
			assert.Equal(t, 55.0, got.Cost)
			assert.True(t, created.Add(time.Hour).Equal(got.UpdatedAt))

			missing := newPurchase("nope", "Ghost", "Attic", 1, false, created)
			assert.ErrorIs(t, store.Update(ctx, missing), domain.ErrPurchaseNotFound)
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			store := factory.open(t)
			ctx := context.Background()

			require.NoError(t, store.Create(ctx, newPurchase("p1", "Bed", "Bedroom", 500, false, time.Now().UTC())))
			require.NoError(t, store.Delete(ctx, "p1"))

			_, err := store.Get(ctx, "p1")
			assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
			assert.ErrorIs(t, store.Delete(ctx, "p1"), domain.ErrPurchaseNotFound)
		})
	}
}

func TestStore_Totals(t *testing.T) {
	for _, factory := range storeFactories {
		t.Run(factory.name, func(t *testing.T) {
			store := factory.open(t)
			ctx := context.Background()

			empty, err := store.Totals(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0.0, empty.Total)
			assert.Equal(t, 0, empty.Count)
			assert.Empty(t, empty.ByRoom)

			now := time.Now().UTC()
			require.NoError(t, store.Create(ctx, newPurchase("a", "Lamp", "Bedroom", 40, true, now)))
			require.NoError(t, store.Create(ctx, newPurchase("b", "Desk", "Office", 250, false, now)))
			require.NoError(t, store.Create(ctx, newPurchase("c", "Rug", "Bedroom", 120.5, false, now)))

			totals, err := store.Totals(ctx)
			require.NoError(t, err)
			assert.InDelta(t, 410.5, totals.Total, 1e-9)
			assert.InDelta(t, 40, totals.Purchased, 1e-9)
			assert.InDelta(t, 370.5, totals.Remaining, 1e-9)
			assert.Equal(t, 3, totals.Count)
			assert.InDelta(t, 160.5, totals.ByRoom["Bedroom"], 1e-9)
			assert.InDelta(t, 250, totals.ByRoom["Office"], 1e-9)
		})
	}
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	store, err := OpenSQLite("")

	assert.Nil(t, store)
	assert.Error(t, err)
}

func ids(purchases []*domain.Purchase) []string {
	out := make([]string, len(purchases))
	for i, p := range purchases {
		out[i] = p.ID
	}
	return out
}
