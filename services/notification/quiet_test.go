package notification

import (
	"testing"
	"time"

	"policyangel/models"

	"github.com/stretchr/testify/assert"
)

func clock(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.Local)
}

func TestQuietHoursDisabled(t *testing.T) {
	q := models.QuietHours{Enabled: false, Start: "22:00", End: "08:00"}
	assert.False(t, quietHoursActive(q, clock(23, 0)))
}

func TestQuietHoursWrapsMidnight(t *testing.T) {
	q := models.QuietHours{Enabled: true, Start: "22:00", End: "08:00"}

	assert.True(t, quietHoursActive(q, clock(23, 0)))
	assert.True(t, quietHoursActive(q, clock(3, 0)))
	assert.True(t, quietHoursActive(q, clock(22, 0)), "window start is inclusive")
	assert.True(t, quietHoursActive(q, clock(8, 0)), "window end is inclusive")
	assert.False(t, quietHoursActive(q, clock(12, 0)))
	assert.False(t, quietHoursActive(q, clock(21, 59)))
}

func TestQuietHoursSameDayWindow(t *testing.T) {
	q := models.QuietHours{Enabled: true, Start: "09:00", End: "17:00"}

	assert.True(t, quietHoursActive(q, clock(9, 0)))
	assert.True(t, quietHoursActive(q, clock(12, 30)))
	assert.True(t, quietHoursActive(q, clock(17, 0)))
	assert.False(t, quietHoursActive(q, clock(8, 59)))
	assert.False(t, quietHoursActive(q, clock(17, 1)))
	assert.False(t, quietHoursActive(q, clock(23, 0)))
}
