package notification

import (
	"context"
	"testing"

	"policyangel/models"

	"github.com/stretchr/testify/assert"
)

func TestSeedSendsCannedSet(t *testing.T) {
	engine, _ := newTestEngine(t)
	seeder := NewSeeder(engine, nil)

	sent := seeder.Seed(context.Background())
	assert.Equal(t, len(seedDrafts()), sent)
	assert.Len(t, engine.GetNotifications(Filter{}), sent)
}

func TestSeedHonorsPreferenceGating(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	engine.UpdatePreferences(ctx, models.PreferencesPatch{
		Types: map[models.NotificationType]bool{models.TypeTip: false},
	})

	seeder := NewSeeder(engine, nil)
	sent := seeder.Seed(ctx)

	assert.Equal(t, len(seedDrafts())-1, sent, "the canned set has exactly one tip")
	assert.Empty(t, engine.GetNotifications(Filter{Type: models.TypeTip}))
}
