package notification

import (
	"context"
	"math/rand"
	"time"

	"policyangel/models"

	"go.uber.org/zap"
)

// Seeder populates the engine with canned notifications for demos and
// manual testing. Not product logic.
type Seeder struct {
	engine NotificationService
	logger *zap.Logger
}

// NewSeeder creates a demo seeder for the given engine.
func NewSeeder(engine NotificationService, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{engine: engine, logger: logger}
}

func seedDrafts() []models.NotificationDraft {
	in3Days := time.Now().Add(72 * time.Hour)
	return []models.NotificationDraft{
		{
			Type:        models.TypeDeadline,
			Priority:    models.PriorityUrgent,
			Title:       "🚨 Only 3 days left!",
			Message:     "Home Weatherization Grant ($7500) closes in 3 days. Don't leave money on the table.",
			Icon:        "clock",
			ActionURL:   "/grants/weatherization",
			ActionLabel: "Apply now",
			ExpiresAt:   &in3Days,
		},
		{
			Type:        models.TypeOpportunity,
			Priority:    models.PriorityHigh,
			Title:       "💰 New grant available",
			Message:     "You may qualify for the Solar Rebate Program worth $4200.",
			Icon:        "sun",
			ActionURL:   "/grants/solar-rebate",
			ActionLabel: "Check eligibility",
		},
		{
			Type:     models.TypeSavings,
			Priority: models.PriorityMedium,
			Title:    "📉 Rates dropped this week",
			Message:  "Refinancing now could save you $230 every month.",
			Icon:     "trending-down",
		},
		{
			Type:     models.TypeAchievement,
			Priority: models.PriorityMedium,
			Title:    "🎉 25% claimed!",
			Message:  "You've claimed a quarter of your available value. Keep the momentum going.",
			Icon:     "trophy",
		},
		{
			Type:     models.TypeRisk,
			Priority: models.PriorityHigh,
			Title:    "⛈️ Storm warning for your area",
			Message:  "Severe weather expected Thursday. Review your coverage before it hits.",
			Icon:     "cloud-lightning",
		},
		{
			Type:     models.TypeTip,
			Priority: models.PriorityLow,
			Title:    "💡 Tip of the day",
			Message:  "Bundling home and auto insurance can shave 10–15% off both premiums.",
			Icon:     "lightbulb",
		},
	}
}

// Seed sends the canned set through the engine (so normal gating applies)
// and returns how many were accepted.
func (s *Seeder) Seed(ctx context.Context) int {
	sent := 0
	for _, draft := range seedDrafts() {
		if outcome, _ := s.engine.SendNotification(ctx, draft); outcome == OutcomeSent {
			sent++
		}
	}
	s.logger.Info("Demo seed complete", zap.Int("sent", sent))
	return sent
}

// Simulate sends a random canned notification at every tick until the
// context is done.
func (s *Seeder) Simulate(ctx context.Context, interval time.Duration) {
	drafts := seedDrafts()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			draft := drafts[rand.Intn(len(drafts))]
			outcome, _ := s.engine.SendNotification(ctx, draft)
			s.logger.Debug("Simulated notification", zap.String("outcome", string(outcome)))
		}
	}
}
