package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"policyangel/models"
	"policyangel/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const digestKey = "policyangel_digest_queue"

// DigestQueue is the slice of the Redis list API the dispatcher needs for
// digest accumulation. *redis.Client satisfies it.
type DigestQueue interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// PushDispatcher delivers accepted notifications to registered devices via
// FCM. Under a digest frequency, non-urgent notifications are queued in
// Redis and flushed later as a single summary push.
type PushDispatcher struct {
	Registry DeviceRegistry
	Queue    DigestQueue
	Logger   *zap.Logger
}

// NewPushDispatcher creates a dispatcher over the given registry and
// digest queue client.
func NewPushDispatcher(registry DeviceRegistry, queue DigestQueue, logger *zap.Logger) (*PushDispatcher, error) {
	if registry == nil || queue == nil {
		return nil, fmt.Errorf("push dispatcher initialization error: registry or queue client is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushDispatcher{Registry: registry, Queue: queue, Logger: logger}, nil
}

// Dispatch routes one accepted notification. Delivery failures are logged,
// never surfaced: the in-app list is the source of truth and a missed push
// must not fail a send.
func (d *PushDispatcher) Dispatch(ctx context.Context, n models.Notification, prefs models.NotificationPreferences) {
	if !prefs.Channels.Push {
		return
	}

	// Urgent notifications always push immediately; everything else honors
	// the digest frequency.
	if prefs.Frequency != models.FrequencyRealtime && n.Priority != models.PriorityUrgent {
		d.enqueueDigest(ctx, n)
		return
	}

	d.pushNow(ctx, n.Title, n.Message, map[string]string{
		"notificationId": n.ID,
		"type":           string(n.Type),
		"priority":       string(n.Priority),
	}, n.Priority == models.PriorityUrgent)
}

func (d *PushDispatcher) enqueueDigest(ctx context.Context, n models.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		d.Logger.Error("Failed to encode digest entry", zap.Error(err))
		return
	}
	if err := d.Queue.RPush(ctx, digestKey, data).Err(); err != nil {
		d.Logger.Error("Failed to queue digest entry", zap.Error(err))
	}
}

// FlushDigest drains the digest queue and, if anything accumulated, sends
// one summary push. Returns the number of digested notifications.
func (d *PushDispatcher) FlushDigest(ctx context.Context) (int, error) {
	entries, err := d.Queue.LRange(ctx, digestKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read digest queue: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := d.Queue.Del(ctx, digestKey).Err(); err != nil {
		return 0, fmt.Errorf("failed to clear digest queue: %w", err)
	}

	title := "📬 Your PolicyAngel digest"
	body := fmt.Sprintf("You have %d new updates waiting for you.", len(entries))
	if len(entries) == 1 {
		var n models.Notification
		if err := json.Unmarshal([]byte(entries[0]), &n); err == nil {
			title = n.Title
			body = n.Message
		}
	}

	d.pushNow(ctx, title, body, map[string]string{"digest": "true"}, false)
	return len(entries), nil
}

// pushNow fans the message out to every registered device.
func (d *PushDispatcher) pushNow(ctx context.Context, title, body string, data map[string]string, urgent bool) {
	if utils.FCMClient == nil {
		d.Logger.Debug("Push skipped, FCM not configured", zap.String("title", title))
		return
	}

	tokens, err := d.Registry.Tokens(ctx)
	if err != nil {
		d.Logger.Error("Failed to load device tokens", zap.Error(err))
		return
	}

	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if urgent {
			msg.Android = &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					ChannelID: "high_priority",
					Sound:     "default",
				},
			}
			msg.APNS = &messaging.APNSConfig{
				Headers: map[string]string{
					"apns-priority":  "10",
					"apns-push-type": "alert",
				},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Sound: "default",
					},
				},
			}
		}

		if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
			d.Logger.Error("Failed to send FCM message", zap.Error(err))
		}
	}
}
