package notification

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"policyangel/models"

	"go.uber.org/zap"
)

// SmartScheduler turns opportunity snapshots into notifications. It keeps a
// fired-rule set keyed by rule, entity, and threshold so re-evaluating an
// unchanged snapshot does not re-fire the same notification. A rule key is
// only spent once the engine accepts the send.
type SmartScheduler struct {
	engine NotificationService
	logger *zap.Logger

	// now is replaced in tests to pin the clock.
	now func() time.Time

	mu    sync.Mutex
	fired map[string]bool
}

// NewSmartScheduler creates a scheduler that emits through the given engine.
func NewSmartScheduler(engine NotificationService, logger *zap.Logger) (*SmartScheduler, error) {
	if engine == nil {
		return nil, fmt.Errorf("scheduler initialization error: engine is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SmartScheduler{
		engine: engine,
		logger: logger,
		now:    time.Now,
		fired:  make(map[string]bool),
	}, nil
}

// hasFired reports whether the rule key already produced a sent
// notification.
func (s *SmartScheduler) hasFired(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired[key]
}

// recordFired spends the rule key. Only sent notifications consume it: a
// send suppressed by preferences or quiet hours retries on the next
// evaluation.
func (s *SmartScheduler) recordFired(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired[key] = true
}

// EvaluateAll runs the deadline, progress, and action rules against the
// snapshot and returns how many notifications were sent. The daily tip is
// cadence-driven and runs separately.
func (s *SmartScheduler) EvaluateAll(ctx context.Context, data models.OpportunityData) int {
	sent := 0
	sent += s.CheckDeadlines(ctx, data)
	sent += s.CelebrateProgress(ctx, data)
	sent += s.SendActionReminders(ctx, data)
	return sent
}

// CheckDeadlines fires a reminder for every open grant whose deadline is
// exactly 7, 3, or 1 day away. Each reminder expires at the deadline
// itself. The caller is responsible for evaluating daily; day counts
// outside the three thresholds never fire.
func (s *SmartScheduler) CheckDeadlines(ctx context.Context, data models.OpportunityData) int {
	sent := 0
	now := s.now()

	for _, grant := range data.Grants {
		if grant.Status != models.GrantNotStarted && grant.Status != models.GrantInProgress {
			continue
		}

		days := int(math.Ceil(grant.Deadline.Sub(now).Hours() / 24))

		var draft models.NotificationDraft
		switch days {
		case 7:
			draft = models.NotificationDraft{
				Type:     models.TypeDeadline,
				Priority: models.PriorityHigh,
				Title:    "⏰ One week left!",
				Message:  fmt.Sprintf("%s (%s) closes in 7 days. Start your application now.", grant.Name, formatDollars(grant.Amount)),
			}
		case 3:
			draft = models.NotificationDraft{
				Type:     models.TypeDeadline,
				Priority: models.PriorityUrgent,
				Title:    "🚨 Only 3 days left!",
				Message:  fmt.Sprintf("%s (%s) closes in 3 days. Don't leave money on the table.", grant.Name, formatDollars(grant.Amount)),
			}
		case 1:
			draft = models.NotificationDraft{
				Type:     models.TypeDeadline,
				Priority: models.PriorityUrgent,
				Title:    "🔥 Last day to apply!",
				Message:  fmt.Sprintf("%s (%s) closes tomorrow. This is your final reminder.", grant.Name, formatDollars(grant.Amount)),
			}
		default:
			continue
		}

		key := fmt.Sprintf("deadline:%s:%d", grant.ID, days)
		if s.hasFired(key) {
			continue
		}

		deadline := grant.Deadline
		draft.Icon = "clock"
		draft.ExpiresAt = &deadline
		draft.ActionURL = "/grants/" + grant.ID
		draft.ActionLabel = "Apply now"
		draft.Data = map[string]string{"grantId": grant.ID}

		outcome, _ := s.engine.SendNotification(ctx, draft)
		s.logger.Debug("Deadline rule evaluated",
			zap.String("grant", grant.ID),
			zap.Int("daysLeft", days),
			zap.String("outcome", string(outcome)))
		if outcome == OutcomeSent {
			s.recordFired(key)
			sent++
		}
	}
	return sent
}

// milestone windows are half-open so a single celebration fires as the
// claimed percentage moves through each band.
var milestones = []struct {
	threshold int
	upper     float64
	priority  models.Priority
	title     string
	message   string
}{
	{25, 30, models.PriorityMedium, "🎉 25% claimed!", "You've claimed a quarter of your available value. Keep the momentum going."},
	{50, 55, models.PriorityMedium, "🎊 Halfway there!", "Half of your available value is now claimed. The hardest part is behind you."},
	{75, 80, models.PriorityHigh, "🏆 75% claimed!", "Three quarters claimed. Just a few opportunities left on the table."},
	{100, math.Inf(1), models.PriorityHigh, "💯 All value claimed!", "You've claimed every dollar available to you. Outstanding."},
}

// CelebrateProgress fires a milestone celebration when the claimed
// percentage lands in [25,30), [50,55), [75,80), or at 100 and beyond.
func (s *SmartScheduler) CelebrateProgress(ctx context.Context, data models.OpportunityData) int {
	if data.TotalValue <= 0 {
		return 0
	}
	pct := data.Claimed / data.TotalValue * 100

	for _, m := range milestones {
		if pct < float64(m.threshold) || pct >= m.upper {
			continue
		}

		key := fmt.Sprintf("milestone:claimed:%d", m.threshold)
		if s.hasFired(key) {
			return 0
		}

		outcome, _ := s.engine.SendNotification(ctx, models.NotificationDraft{
			Type:     models.TypeAchievement,
			Priority: m.priority,
			Title:    m.title,
			Message:  m.message,
			Icon:     "trophy",
			Data:     map[string]string{"milestone": fmt.Sprintf("%d", m.threshold)},
		})
		if outcome == OutcomeSent {
			s.recordFired(key)
			return 1
		}
		return 0
	}
	return 0
}

// SendActionReminders nudges the user when an optimizer is waiting on them:
// an insurance quote was requested, or a mortgage is pre-approved and ready
// to sign. Each fires once per status value.
func (s *SmartScheduler) SendActionReminders(ctx context.Context, data models.OpportunityData) int {
	sent := 0

	if data.Insurance.Status == "quote_requested" {
		if !s.hasFired("action:insurance:quote_requested") {
			outcome, _ := s.engine.SendNotification(ctx, models.NotificationDraft{
				Type:        models.TypeAction,
				Priority:    models.PriorityMedium,
				Title:       "📋 Your insurance quote is in motion",
				Message:     fmt.Sprintf("Review your quote to lock in %s of yearly savings.", formatDollars(data.Insurance.Savings)),
				Icon:        "shield",
				ActionURL:   "/insurance/review",
				ActionLabel: "Review quote",
			})
			if outcome == OutcomeSent {
				s.recordFired("action:insurance:quote_requested")
				sent++
			}
		}
	}

	if data.Mortgage.Status == "pre_approved" {
		if !s.hasFired("action:mortgage:pre_approved") {
			outcome, _ := s.engine.SendNotification(ctx, models.NotificationDraft{
				Type:        models.TypeAction,
				Priority:    models.PriorityHigh,
				Title:       "✍️ Your refinance is pre-approved",
				Message:     fmt.Sprintf("Sign your documents to start saving %s per year.", formatDollars(data.Mortgage.Savings)),
				Icon:        "pen",
				ActionURL:   "/mortgage/sign",
				ActionLabel: "Sign now",
			})
			if outcome == OutcomeSent {
				s.recordFired("action:mortgage:pre_approved")
				sent++
			}
		}
	}

	return sent
}

var dailyTips = []string{
	"Bundling home and auto insurance can shave 10–15% off both premiums.",
	"Most weatherization grants renew yearly. A rejected application last year may qualify now.",
	"Even a 0.5% rate drop can be worth refinancing if you plan to stay 3+ years.",
	"Photograph your property after any storm. Claims with photos settle faster.",
}

// SendDailyTip sends one of the canned tips, chosen uniformly at random,
// at low priority. Cadence is owned by the caller's schedule; tips are
// meant to repeat and are never deduplicated.
func (s *SmartScheduler) SendDailyTip(ctx context.Context) SendOutcome {
	tip := dailyTips[rand.Intn(len(dailyTips))]
	outcome, _ := s.engine.SendNotification(ctx, models.NotificationDraft{
		Type:     models.TypeTip,
		Priority: models.PriorityLow,
		Title:    "💡 Tip of the day",
		Message:  tip,
		Icon:     "lightbulb",
	})
	return outcome
}

func formatDollars(amount float64) string {
	return fmt.Sprintf("$%.0f", amount)
}
