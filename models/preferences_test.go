package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPreferencesEnableEverything(t *testing.T) {
	prefs := DefaultPreferences()

	assert.True(t, prefs.Enabled)
	assert.Len(t, prefs.Types, len(NotificationTypes))
	for _, typ := range NotificationTypes {
		assert.True(t, prefs.Types[typ], string(typ))
	}
	assert.False(t, prefs.QuietHours.Enabled)
	assert.Equal(t, FrequencyRealtime, prefs.Frequency)
	assert.True(t, prefs.Channels.Push)
}

func TestPatchAppliesShallowMerge(t *testing.T) {
	prefs := DefaultPreferences()

	enabled := false
	freq := FrequencyWeekly
	patch := PreferencesPatch{
		Enabled:   &enabled,
		Frequency: &freq,
		Types:     map[NotificationType]bool{TypeTip: false},
	}
	patch.Apply(&prefs)

	assert.False(t, prefs.Enabled)
	assert.Equal(t, FrequencyWeekly, prefs.Frequency)
	assert.False(t, prefs.Types[TypeTip])
	assert.True(t, prefs.Types[TypeRisk], "unmentioned types stay put")
	assert.True(t, prefs.Channels.Push, "unmentioned fields stay put")
}

func TestStoredBlobMissingFieldsFallsBackToDefaults(t *testing.T) {
	// A blob written before the channels field existed.
	blob := `{"enabled":true,"types":{"tip":false},"quietHours":{"enabled":true,"start":"21:00","end":"07:00"}}`

	var patch PreferencesPatch
	require.NoError(t, json.Unmarshal([]byte(blob), &patch))

	prefs := DefaultPreferences()
	patch.Apply(&prefs)

	assert.False(t, prefs.Types[TypeTip])
	assert.True(t, prefs.QuietHours.Enabled)
	assert.Equal(t, "21:00", prefs.QuietHours.Start)
	assert.Equal(t, FrequencyRealtime, prefs.Frequency, "absent field gets defaulted")
	assert.True(t, prefs.Channels.Push, "absent field gets defaulted")
}

func TestNotificationTypeValid(t *testing.T) {
	assert.True(t, TypeDeadline.Valid())
	assert.True(t, TypeTip.Valid())
	assert.False(t, NotificationType("bogus").Valid())
	assert.False(t, NotificationType("").Valid())
}
