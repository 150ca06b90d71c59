package seedclaim

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/RecipeSync/RecipeSync/internal/config"
	"github.com/RecipeSync/RecipeSync/internal/db/controller/setting"
	"github.com/RecipeSync/RecipeSync/internal/db/models"
	"github.com/RecipeSync/RecipeSync/internal/localstore"
)

func testConfig(t *testing.T) config.DB {
	t.Helper()

	return config.DB{
		GormEngine:  config.EngineSQLite,
		Path:        filepath.Join(t.TempDir(), config.DefaultDatabaseFilename),
		OpenTimeout: time.Second,
	}
}

func setupTestStore(t *testing.T, cfg config.DB) *localstore.Store {
	t.Helper()

	s := localstore.New(cfg)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func storedMarker(t *testing.T, s *localstore.Store) *models.Setting {
	t.Helper()

	var stored *models.Setting

	err := localstore.Use[models.Setting](context.Background(), s, func(db *gorm.DB) error {
		var err error

		stored, err = setting.Get(db, SettingKeySeedClaim)

		return err
	})
	if err != nil {
		require.ErrorIs(t, err, setting.ErrSettingNotFound)

		return nil
	}

	return stored
}

func TestAcquireIsExclusiveAcrossStores(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first := New(setupTestStore(t, cfg))
	second := New(setupTestStore(t, cfg))

	ok, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "a live marker is not taken over")

	require.NoError(t, second.Release(ctx), "release without holding is a no-op")

	require.NoError(t, first.Release(ctx))

	ok, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "released marker can be acquired")
}

func TestStaleMarkerIsTakenOver(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	now := time.Now()

	stale := New(setupTestStore(t, cfg), WithTTL(time.Minute))
	stale.now = func() time.Time { return now.Add(-2 * time.Minute) }

	ok, err := stale.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	store := setupTestStore(t, cfg)
	fresh := New(store, WithTTL(time.Minute))

	ok, err = fresh.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// the previous holder no longer owns the row and must not delete it
	require.NoError(t, stale.Release(ctx))
	assert.NotNil(t, storedMarker(t, store))

	require.NoError(t, fresh.Release(ctx))
	assert.Nil(t, storedMarker(t, store))
}

func TestCorruptMarkerIsTakenOver(t *testing.T) {
	store := setupTestStore(t, testConfig(t))
	ctx := context.Background()

	require.NoError(t, localstore.Use[models.Setting](ctx, store, func(db *gorm.DB) error {
		_, err := setting.Set(db, SettingKeySeedClaim, []byte("{"))

		return err
	}))

	ok, err := New(store).Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAcquireStorageFailure(t *testing.T) {
	c := New(setupTestStore(t, config.DB{GormEngine: "oracle", OpenTimeout: time.Second}))

	ok, err := c.Acquire(context.Background())
	require.ErrorIs(t, err, localstore.ErrStorageInit)
	assert.False(t, ok)
}
