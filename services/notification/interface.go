package notification

import (
	"context"

	"policyangel/models"
)

// SendOutcome tells the caller what happened to a send: delivered into the
// list, or suppressed and why.
type SendOutcome string

const (
	OutcomeSent                 SendOutcome = "sent"
	OutcomeSuppressedDisabled   SendOutcome = "suppressed_disabled"
	OutcomeSuppressedType       SendOutcome = "suppressed_type"
	OutcomeSuppressedQuietHours SendOutcome = "suppressed_quiet_hours"
)

// Filter narrows GetNotifications results.
type Filter struct {
	Type       models.NotificationType
	UnreadOnly bool
}

// Listener is invoked synchronously, in registration order, once per
// accepted send.
type Listener func(n models.Notification)

// Dispatcher delivers an accepted notification to external channels
// (push devices, digests). The engine calls it after listeners.
type Dispatcher interface {
	Dispatch(ctx context.Context, n models.Notification, prefs models.NotificationPreferences)
}

// NotificationService is the authoritative store of the user's
// notifications for the current session.
type NotificationService interface {
	SendNotification(ctx context.Context, draft models.NotificationDraft) (SendOutcome, *models.Notification)
	GetNotifications(filter Filter) []models.Notification
	GetUnreadCount(t models.NotificationType) int
	MarkAsRead(ctx context.Context, id string) bool
	MarkAllAsRead(ctx context.Context, t models.NotificationType)
	DeleteNotification(ctx context.Context, id string) bool
	ClearAll(ctx context.Context, t models.NotificationType)
	Subscribe(fn Listener) (unsubscribe func())
	GetPreferences() models.NotificationPreferences
	UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) models.NotificationPreferences
}
