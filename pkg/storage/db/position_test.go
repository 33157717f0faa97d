package db_test

import (
	"context"
	"testing"

	"hlwatcher/internal/position"
	"hlwatcher/pkg/storage/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -v --run TestLoadUnknownWallet
func TestLoadUnknownWallet(t *testing.T) {
	store := db.NewPositionStore(newTestClient(t))

	set, err := store.Load(context.Background(), "0xnever")
	require.NoError(t, err)
	assert.Empty(t, set)
}

// go test -v --run TestSaveLoadRoundTrip
func TestSaveLoadRoundTrip(t *testing.T) {
	store := db.NewPositionStore(newTestClient(t))
	ctx := context.Background()

	want := position.Set{
		"BTC": {
			Size:             1,
			EntryPrice:       50000,
			PositionValue:    position.Float(50000),
			UnrealizedPnl:    0,
			LiquidationPrice: position.Float(45000),
			Leverage:         10,
		},
		"ETH": {
			Size:          -0.0335,
			EntryPrice:    2986.3,
			UnrealizedPnl: -0.0134,
			Leverage:      20,
		},
	}

	require.NoError(t, store.Save(ctx, "0xabc", want))

	got, err := store.Load(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// go test -v --run TestSaveReplacesWholeWallet
func TestSaveReplacesWholeWallet(t *testing.T) {
	store := db.NewPositionStore(newTestClient(t))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "0xabc", position.Set{
		"BTC": {Size: 1, EntryPrice: 50000},
		"ETH": {Size: 2, EntryPrice: 3000},
	}))
	require.NoError(t, store.Save(ctx, "0xother", position.Set{
		"SOL": {Size: -5, EntryPrice: 150},
	}))

	next := position.Set{
		"ETH": {Size: 3, EntryPrice: 3100},
		"ARB": {Size: 100, EntryPrice: 1.1},
	}
	require.NoError(t, store.Save(ctx, "0xabc", next))

	got, err := store.Load(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, next, got)

	// other wallets are untouched
	other, err := store.Load(ctx, "0xother")
	require.NoError(t, err)
	assert.Equal(t, position.Set{"SOL": {Size: -5, EntryPrice: 150}}, other)

	// empty set clears the wallet
	require.NoError(t, store.Save(ctx, "0xabc", position.Set{}))
	got, err = store.Load(ctx, "0xabc")
	require.NoError(t, err)
	assert.Empty(t, got)
}

// go test -v --run TestSaveStoresDirection
func TestSaveStoresDirection(t *testing.T) {
	client := newTestClient(t)
	store := db.NewPositionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "0xabc", position.Set{
		"BTC": {Size: 1, EntryPrice: 50000},
		"ETH": {Size: -2, EntryPrice: 3000},
	}))

	var records []db.PositionRecord
	require.NoError(t, client.DB.Order("coin").Find(&records).Error)
	require.Len(t, records, 2)
	assert.Equal(t, "long", records[0].Direction)
	assert.Equal(t, "short", records[1].Direction)
}

// go test -v --run TestSaveIsAtomic
func TestSaveIsAtomic(t *testing.T) {
	client := newTestClient(t)
	store := db.NewPositionStore(client)
	ctx := context.Background()

	before := position.Set{"BTC": {Size: 1, EntryPrice: 50000}}
	require.NoError(t, store.Save(ctx, "0xabc", before))

	// make every insert fail after the delete has already run
	require.NoError(t, client.DB.Exec(`
		CREATE TRIGGER reject_doge BEFORE INSERT ON position_snapshot
		WHEN NEW.coin = 'DOGE'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END;`).Error)

	err := store.Save(ctx, "0xabc", position.Set{
		"DOGE": {Size: 1000, EntryPrice: 0.1},
		"ETH":  {Size: 2, EntryPrice: 3000},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrStorage)

	got, err := store.Load(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, before, got)
}

// go test -v --run TestLoadFailsOnBrokenStore
func TestLoadFailsOnBrokenStore(t *testing.T) {
	client := newTestClient(t)
	store := db.NewPositionStore(client)

	require.NoError(t, client.DB.Migrator().DropTable(&db.PositionRecord{}))

	_, err := store.Load(context.Background(), "0xabc")
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrStorage)
}
