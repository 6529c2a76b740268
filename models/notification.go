package models

import "time"

// NotificationType classifies a notification for preference gating and filtering.
type NotificationType string

const (
	TypeDeadline    NotificationType = "deadline"
	TypeOpportunity NotificationType = "opportunity"
	TypeAction      NotificationType = "action"
	TypeAchievement NotificationType = "achievement"
	TypeRisk        NotificationType = "risk"
	TypeUpdate      NotificationType = "update"
	TypeSavings     NotificationType = "savings"
	TypeTip         NotificationType = "tip"
)

// NotificationTypes lists every known type, in display order.
var NotificationTypes = []NotificationType{
	TypeDeadline, TypeOpportunity, TypeAction, TypeAchievement,
	TypeRisk, TypeUpdate, TypeSavings, TypeTip,
}

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	for _, known := range NotificationTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Priority expresses delivery urgency. Urgent notifications bypass quiet hours.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Notification is a single record in the user's notification list.
type Notification struct {
	ID          string            `json:"id"`
	Type        NotificationType  `json:"type"`
	Priority    Priority          `json:"priority"`
	Title       string            `json:"title"`
	Message     string            `json:"message"`
	Icon        string            `json:"icon,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Read        bool              `json:"read"`
	ActionURL   string            `json:"actionUrl,omitempty"`
	ActionLabel string            `json:"actionLabel,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	ExpiresAt   *time.Time        `json:"expiresAt,omitempty"`
}

// Expired reports whether the record's expiry instant has passed.
// Records without an expiry never expire.
func (n Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}

// NotificationDraft is the caller-supplied part of a notification.
// ID, Timestamp and Read are assigned by the engine at send time.
type NotificationDraft struct {
	Type        NotificationType  `json:"type" binding:"required"`
	Priority    Priority          `json:"priority" binding:"required"`
	Title       string            `json:"title" binding:"required"`
	Message     string            `json:"message" binding:"required"`
	Icon        string            `json:"icon,omitempty"`
	ActionURL   string            `json:"actionUrl,omitempty"`
	ActionLabel string            `json:"actionLabel,omitempty"`
	Data        map[string]string `json:"data,omitempty"`
	ExpiresAt   *time.Time        `json:"expiresAt,omitempty"`
}
