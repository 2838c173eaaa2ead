package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/storage/postgres"
	"github.com/cory-johannsen/emporium/internal/testutil"
)

func setupShopRepo(t *testing.T) *postgres.ShopRepository {
	t.Helper()
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return postgres.NewShopRepository(pc.RawPool)
}

func makeTestShop(owner string) *shop.Shop {
	s, err := shop.New(owner, "Ashford", shop.SpecSmithing)
	if err != nil {
		panic(err)
	}
	return s
}

func TestShopRepository_CreateAndGet(t *testing.T) {
	repo := setupShopRepo(t)
	ctx := context.Background()

	s := makeTestShop("Zara")
	s.Gold = 50
	s.Inventory.Add("Iron Dagger", item.QualityCommon, 2)
	s.CraftCounts["Iron Dagger"] = 2

	created, err := repo.Create(ctx, s)
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(0))

	fetched, err := repo.GetByOwner(ctx, "Zara")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Ashford", fetched.TownName)
	assert.Equal(t, shop.SpecSmithing, fetched.Specialization)
	assert.Equal(t, 50, fetched.Gold)
	assert.Equal(t, 1, fetched.Level)
	assert.Equal(t, 2, fetched.Inventory.Count("Iron Dagger"))
	assert.Equal(t, 2, fetched.CraftCounts["Iron Dagger"])
}

func TestShopRepository_DuplicateOwner(t *testing.T) {
	repo := setupShopRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, makeTestShop("Zara"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, makeTestShop("Zara"))
	assert.ErrorIs(t, err, postgres.ErrShopExists)
}

func TestShopRepository_GetByOwnerNotFound(t *testing.T) {
	repo := setupShopRepo(t)
	_, err := repo.GetByOwner(context.Background(), "Nobody")
	assert.ErrorIs(t, err, postgres.ErrShopNotFound)
}

func TestShopRepository_SaveRoundTripsState(t *testing.T) {
	repo := setupShopRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, makeTestShop("Tam"))
	require.NoError(t, err)

	created.Gold = 340
	created.Level = 2
	created.Reputation = 7
	created.CustomerBoost = 0.1
	created.Inventory.Add("Healing Potion", item.QualityUncommon, 4)
	created.CraftCounts["Healing Potion"] = 11

	require.NoError(t, repo.Save(ctx, created))

	fetched, err := repo.GetByOwner(ctx, "Tam")
	require.NoError(t, err)
	assert.Equal(t, 340, fetched.Gold)
	assert.Equal(t, 2, fetched.Level)
	assert.Equal(t, 7, fetched.Reputation)
	assert.InDelta(t, 0.1, fetched.CustomerBoost, 1e-9)
	assert.Equal(t, 4, fetched.Inventory.Count("Healing Potion"))
	assert.Equal(t, 11, fetched.CraftCounts["Healing Potion"])
}

func TestShopRepository_SaveNotFound(t *testing.T) {
	repo := setupShopRepo(t)
	s := makeTestShop("Ghost")
	s.ID = 99999999
	err := repo.Save(context.Background(), s)
	assert.ErrorIs(t, err, postgres.ErrShopNotFound)
}
