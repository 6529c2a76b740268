package notification

import (
	"time"

	"policyangel/models"
)

// quietHoursActive reports whether now falls inside the configured quiet
// window. Times are compared as "HH:MM" strings at minute granularity on
// the local clock. A window whose start is not before its end wraps
// midnight.
func quietHoursActive(q models.QuietHours, now time.Time) bool {
	if !q.Enabled {
		return false
	}
	cur := now.Format("15:04")
	if q.Start < q.End {
		return cur >= q.Start && cur <= q.End
	}
	return cur >= q.Start || cur <= q.End
}
