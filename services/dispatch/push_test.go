package dispatch

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"policyangel/models"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryQueue implements DigestQueue over in-process lists.
type memoryQueue struct {
	mu    sync.Mutex
	lists map[string][]string
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{lists: make(map[string][]string)}
}

func (q *memoryQueue) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, v := range values {
		switch val := v.(type) {
		case string:
			q.lists[key] = append(q.lists[key], val)
		case []byte:
			q.lists[key] = append(q.lists[key], string(val))
		}
	}
	return redis.NewIntResult(int64(len(q.lists[key])), nil)
}

func (q *memoryQueue) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.lists[key]))
	copy(out, q.lists[key])
	return redis.NewStringSliceResult(out, nil)
}

func (q *memoryQueue) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	q.mu.Lock()
	defer q.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := q.lists[key]; ok {
			delete(q.lists, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

func (q *memoryQueue) entries(key string) []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.lists[key]))
	copy(out, q.lists[key])
	return out
}

type memoryRegistry struct {
	tokens []string
}

func (r *memoryRegistry) Register(ctx context.Context, deviceID, fcmToken, tokenHash string) error {
	r.tokens = append(r.tokens, fcmToken)
	return nil
}

func (r *memoryRegistry) Tokens(ctx context.Context) ([]string, error) {
	return r.tokens, nil
}

func (r *memoryRegistry) FindByTokenHash(ctx context.Context, hash string) (string, error) {
	return "", nil
}

func newTestDispatcher(t *testing.T) (*PushDispatcher, *memoryQueue) {
	t.Helper()

	queue := newMemoryQueue()
	d, err := NewPushDispatcher(&memoryRegistry{}, queue, nil)
	require.NoError(t, err)
	return d, queue
}

func testNotification(priority models.Priority) models.Notification {
	return models.Notification{
		ID:       "n-1",
		Type:     models.TypeDeadline,
		Priority: priority,
		Title:    "⏰ One week left!",
		Message:  "Home Weatherization Grant ($7500) closes in 7 days.",
	}
}

func digestPrefs(freq models.Frequency) models.NotificationPreferences {
	prefs := models.DefaultPreferences()
	prefs.Frequency = freq
	return prefs
}

func TestNewPushDispatcherRequiresDependencies(t *testing.T) {
	_, err := NewPushDispatcher(nil, newMemoryQueue(), nil)
	assert.Error(t, err)

	_, err = NewPushDispatcher(&memoryRegistry{}, nil, nil)
	assert.Error(t, err)
}

func TestDispatchSkipsWhenPushDisabled(t *testing.T) {
	d, queue := newTestDispatcher(t)

	prefs := digestPrefs(models.FrequencyDailyDigest)
	prefs.Channels.Push = false

	d.Dispatch(context.Background(), testNotification(models.PriorityMedium), prefs)
	assert.Empty(t, queue.entries(digestKey))
}

func TestDispatchQueuesDigestForNonUrgent(t *testing.T) {
	d, queue := newTestDispatcher(t)

	n := testNotification(models.PriorityMedium)
	d.Dispatch(context.Background(), n, digestPrefs(models.FrequencyDailyDigest))

	entries := queue.entries(digestKey)
	require.Len(t, entries, 1)

	var queued models.Notification
	require.NoError(t, json.Unmarshal([]byte(entries[0]), &queued))
	assert.Equal(t, n.ID, queued.ID)
	assert.Equal(t, n.Title, queued.Title)
}

func TestDispatchUrgentBypassesDigest(t *testing.T) {
	d, queue := newTestDispatcher(t)

	d.Dispatch(context.Background(), testNotification(models.PriorityUrgent), digestPrefs(models.FrequencyDailyDigest))
	assert.Empty(t, queue.entries(digestKey), "urgent pushes immediately, never into the digest")
}

func TestDispatchRealtimeSkipsDigest(t *testing.T) {
	d, queue := newTestDispatcher(t)

	d.Dispatch(context.Background(), testNotification(models.PriorityMedium), digestPrefs(models.FrequencyRealtime))
	assert.Empty(t, queue.entries(digestKey))
}

func TestDispatchWeeklyDigestAccumulates(t *testing.T) {
	d, queue := newTestDispatcher(t)
	ctx := context.Background()

	prefs := digestPrefs(models.FrequencyWeekly)
	d.Dispatch(ctx, testNotification(models.PriorityLow), prefs)
	d.Dispatch(ctx, testNotification(models.PriorityHigh), prefs)

	assert.Len(t, queue.entries(digestKey), 2)
}

func TestFlushDigestDrainsAndClears(t *testing.T) {
	d, queue := newTestDispatcher(t)
	ctx := context.Background()

	prefs := digestPrefs(models.FrequencyDailyDigest)
	for i := 0; i < 3; i++ {
		d.Dispatch(ctx, testNotification(models.PriorityMedium), prefs)
	}

	count, err := d.FlushDigest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Empty(t, queue.entries(digestKey))

	count, err = d.FlushDigest(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "a second flush finds nothing")
}

func TestFlushDigestEmptyQueue(t *testing.T) {
	d, _ := newTestDispatcher(t)

	count, err := d.FlushDigest(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
