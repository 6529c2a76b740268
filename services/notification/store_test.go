package notification

import (
	"context"
	"testing"

	"policyangel/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePreferencesIsolatedFromCaller(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	prefs := models.DefaultPreferences()
	require.NoError(t, store.SavePreferences(ctx, prefs))

	// Mutating the caller's map after save must not leak into the store.
	prefs.Types[models.TypeDeadline] = false

	loaded, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.Types[models.TypeDeadline])

	// Nor must mutating a loaded copy alter what a later load sees.
	loaded.Types[models.TypeTip] = false

	again, err := store.LoadPreferences(ctx)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.True(t, again.Types[models.TypeTip])
}

func TestMemoryStoreNotificationsIsolatedFromCaller(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	list := []models.Notification{{ID: "a", Type: models.TypeTip, Title: "first"}}
	require.NoError(t, store.SaveNotifications(ctx, list))

	list[0].Title = "mutated"

	loaded, err := store.LoadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "first", loaded[0].Title)
}
