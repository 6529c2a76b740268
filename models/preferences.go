package models

// Frequency selects how accepted notifications are delivered to devices:
// pushed immediately, or accumulated and flushed as a digest.
type Frequency string

const (
	FrequencyRealtime    Frequency = "realtime"
	FrequencyDailyDigest Frequency = "daily_digest"
	FrequencyWeekly      Frequency = "weekly_digest"
)

// QuietHours is a wall-clock window (may wrap midnight) during which only
// urgent notifications are accepted. Start and End are "HH:MM" strings
// compared against the local clock.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Channels holds per-channel delivery switches.
type Channels struct {
	Push bool `json:"push"`
}

// NotificationPreferences gates ingestion and delivery of notifications.
type NotificationPreferences struct {
	Enabled    bool                      `json:"enabled"`
	Types      map[NotificationType]bool `json:"types"`
	QuietHours QuietHours                `json:"quietHours"`
	Frequency  Frequency                 `json:"frequency"`
	Channels   Channels                  `json:"channels"`
}

// DefaultPreferences returns the out-of-the-box preference set: everything
// enabled, realtime push, quiet hours configured but off.
func DefaultPreferences() NotificationPreferences {
	types := make(map[NotificationType]bool, len(NotificationTypes))
	for _, t := range NotificationTypes {
		types[t] = true
	}
	return NotificationPreferences{
		Enabled: true,
		Types:   types,
		QuietHours: QuietHours{
			Enabled: false,
			Start:   "22:00",
			End:     "08:00",
		},
		Frequency: FrequencyRealtime,
		Channels:  Channels{Push: true},
	}
}

// PreferencesPatch is a partial preferences update. Nil fields are left
// untouched; Types entries are merged key by key.
type PreferencesPatch struct {
	Enabled    *bool                     `json:"enabled,omitempty"`
	Types      map[NotificationType]bool `json:"types,omitempty"`
	QuietHours *QuietHours               `json:"quietHours,omitempty"`
	Frequency  *Frequency                `json:"frequency,omitempty"`
	Channels   *Channels                 `json:"channels,omitempty"`
}

// Apply merges the patch onto p, shallow field by field.
func (patch PreferencesPatch) Apply(p *NotificationPreferences) {
	if patch.Enabled != nil {
		p.Enabled = *patch.Enabled
	}
	for t, enabled := range patch.Types {
		p.Types[t] = enabled
	}
	if patch.QuietHours != nil {
		p.QuietHours = *patch.QuietHours
	}
	if patch.Frequency != nil {
		p.Frequency = *patch.Frequency
	}
	if patch.Channels != nil {
		p.Channels = *patch.Channels
	}
}
