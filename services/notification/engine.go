package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"policyangel/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type listenerEntry struct {
	id uint64
	fn Listener
}

// Engine owns the in-memory notification list, gates ingestion against the
// user's preferences, and persists every mutation through its Store.
// All mutating operations are serialized by a single mutex.
type Engine struct {
	store      Store
	dispatcher Dispatcher
	logger     *zap.Logger

	// now is replaced in tests to pin the clock.
	now func() time.Time

	mu            sync.Mutex
	notifications []models.Notification
	prefs         models.NotificationPreferences
	listeners     []listenerEntry
	nextListener  uint64
}

// New constructs an Engine and loads both persisted blobs before
// returning, so no operation can race the initial load. Load failures are
// logged and leave defaults in place. The dispatcher may be nil.
func New(ctx context.Context, store Store, dispatcher Dispatcher, logger *zap.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("notification engine initialization error: store is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
		prefs:      models.DefaultPreferences(),
	}

	list, err := store.LoadNotifications(ctx)
	if err != nil {
		logger.Error("Failed to load persisted notifications", zap.Error(err))
	} else {
		e.notifications = list
	}

	prefs, err := store.LoadPreferences(ctx)
	if err != nil {
		logger.Error("Failed to load persisted preferences", zap.Error(err))
	} else if prefs != nil {
		e.prefs = *prefs
	}

	return e, nil
}

// SendNotification gates the draft against preferences and, if accepted,
// assigns identity, prepends it to the list (newest first), persists, and
// notifies listeners. The outcome says whether and why a send was
// suppressed; suppressed sends touch nothing.
func (e *Engine) SendNotification(ctx context.Context, draft models.NotificationDraft) (SendOutcome, *models.Notification) {
	e.mu.Lock()

	if !e.prefs.Enabled {
		e.mu.Unlock()
		return OutcomeSuppressedDisabled, nil
	}
	if !e.prefs.Types[draft.Type] {
		e.mu.Unlock()
		return OutcomeSuppressedType, nil
	}
	if quietHoursActive(e.prefs.QuietHours, e.now()) && draft.Priority != models.PriorityUrgent {
		e.mu.Unlock()
		return OutcomeSuppressedQuietHours, nil
	}

	n := models.Notification{
		ID:          uuid.NewString(),
		Type:        draft.Type,
		Priority:    draft.Priority,
		Title:       draft.Title,
		Message:     draft.Message,
		Icon:        draft.Icon,
		Timestamp:   e.now(),
		Read:        false,
		ActionURL:   draft.ActionURL,
		ActionLabel: draft.ActionLabel,
		Data:        draft.Data,
		ExpiresAt:   draft.ExpiresAt,
	}

	e.notifications = append([]models.Notification{n}, e.notifications...)
	e.persistLocked(ctx)

	listeners := make([]listenerEntry, len(e.listeners))
	copy(listeners, e.listeners)
	prefs := e.copyPreferencesLocked()
	e.mu.Unlock()

	// Listeners run synchronously, in registration order, after the
	// mutation has committed.
	for _, entry := range listeners {
		entry.fn(n)
	}

	if e.dispatcher != nil {
		e.dispatcher.Dispatch(ctx, n, prefs)
	}

	return OutcomeSent, &n
}

// GetNotifications returns a snapshot of the list, stripped of expired
// records, optionally narrowed by type and unread state. Ordering is
// newest first.
func (e *Engine) GetNotifications(filter Filter) []models.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	out := make([]models.Notification, 0, len(e.notifications))
	for _, n := range e.notifications {
		if n.Expired(now) {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out
}

// GetUnreadCount counts unread, unexpired notifications, optionally of a
// single type ("" counts all).
func (e *Engine) GetUnreadCount(t models.NotificationType) int {
	return len(e.GetNotifications(Filter{Type: t, UnreadOnly: true}))
}

// MarkAsRead flags the matching record as read and persists. Returns false
// when no record matches.
func (e *Engine) MarkAsRead(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.notifications {
		if e.notifications[i].ID == id {
			e.notifications[i].Read = true
			e.persistLocked(ctx)
			return true
		}
	}
	return false
}

// MarkAllAsRead flags every record, or every record of the given type,
// as read.
func (e *Engine) MarkAllAsRead(ctx context.Context, t models.NotificationType) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.notifications {
		if t == "" || e.notifications[i].Type == t {
			e.notifications[i].Read = true
		}
	}
	e.persistLocked(ctx)
}

// DeleteNotification removes the matching record and persists. Returns
// false when no record matches.
func (e *Engine) DeleteNotification(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.notifications {
		if e.notifications[i].ID == id {
			e.notifications = append(e.notifications[:i], e.notifications[i+1:]...)
			e.persistLocked(ctx)
			return true
		}
	}
	return false
}

// ClearAll removes every record, or every record of the given type.
func (e *Engine) ClearAll(ctx context.Context, t models.NotificationType) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t == "" {
		e.notifications = nil
	} else {
		kept := e.notifications[:0]
		for _, n := range e.notifications {
			if n.Type != t {
				kept = append(kept, n)
			}
		}
		e.notifications = kept
	}
	e.persistLocked(ctx)
}

// Subscribe registers a listener for accepted sends and returns a function
// that removes it.
func (e *Engine) Subscribe(fn Listener) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextListener++
	id := e.nextListener
	e.listeners = append(e.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i := range e.listeners {
			if e.listeners[i].id == id {
				e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
				return
			}
		}
	}
}

// GetPreferences returns a copy of the current preferences.
func (e *Engine) GetPreferences() models.NotificationPreferences {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyPreferencesLocked()
}

// UpdatePreferences shallow-merges the patch, persists, and returns the
// resulting preferences.
func (e *Engine) UpdatePreferences(ctx context.Context, patch models.PreferencesPatch) models.NotificationPreferences {
	e.mu.Lock()
	defer e.mu.Unlock()

	patch.Apply(&e.prefs)
	if err := e.store.SavePreferences(ctx, e.prefs); err != nil {
		e.logger.Error("Failed to persist preferences", zap.Error(err))
	}
	return e.copyPreferencesLocked()
}

// persistLocked writes the full list. Write failures are logged and
// swallowed; the in-memory mutation stands (the store is non-critical
// plumbing for the session's list).
func (e *Engine) persistLocked(ctx context.Context) {
	if err := e.store.SaveNotifications(ctx, e.notifications); err != nil {
		e.logger.Error("Failed to persist notifications", zap.Error(err))
	}
}

func (e *Engine) copyPreferencesLocked() models.NotificationPreferences {
	return clonePreferences(e.prefs)
}
