package cron

import (
	"context"
	"log"
	"time"

	"policyangel/config"
	opportunityRepo "policyangel/database/repository/opportunity"
	"policyangel/models"
	"policyangel/services/dispatch"
	"policyangel/services/notification"
	"policyangel/services/tasks"

	"github.com/hibiken/asynq"
)

// InitNotificationWorker runs the async worker and its periodic schedule in
// the background: daily rule evaluation, the daily tip, and digest flushes.
func InitNotificationWorker(
	engine notification.NotificationService,
	scheduler *notification.SmartScheduler,
	oppRepo opportunityRepo.OpportunityRepository,
	dispatcher *dispatch.PushDispatcher,
) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOpportunityEvaluate, handleEvaluateTask(scheduler, oppRepo))
	mux.HandleFunc(tasks.TypeDailyTip, handleDailyTipTask(scheduler))
	mux.HandleFunc(tasks.TypeDigestFlush, handleDigestFlushTask(engine, dispatcher))

	// Start async worker with retry logic
	go func() {
		log.Println("[NotificationWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	// Periodic entries. The digest entry fires daily; weekly frequency is
	// resolved inside the handler at flush time.
	go func() {
		periodic := asynq.NewScheduler(redisOpts, nil)
		register := func(cronspec string, task *asynq.Task) {
			if _, err := periodic.Register(cronspec, task); err != nil {
				log.Fatalf("[NotificationWorker] failed to register %s: %v", task.Type(), err)
			}
		}
		register("0 8 * * *", tasks.NewEvaluationTask())
		register("0 17 * * *", tasks.NewDailyTipTask())
		register("0 18 * * *", tasks.NewDigestFlushTask())

		if err := periodic.Run(); err != nil {
			log.Fatalf("[NotificationWorker] scheduler stopped: %v", err)
		}
	}()
}

func handleEvaluateTask(scheduler *notification.SmartScheduler, oppRepo opportunityRepo.OpportunityRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		snap, err := oppRepo.GetLatest(ctx)
		if err == opportunityRepo.ErrNoSnapshot {
			log.Println("[NotificationWorker] ⏭ No opportunity snapshot yet, skipping evaluation")
			return nil
		}
		if err != nil {
			log.Printf("[NotificationWorker] 🔴 Failed to load snapshot: %v", err)
			return err
		}

		sent := scheduler.EvaluateAll(ctx, snap.Data)
		log.Printf("[NotificationWorker] ⏰ Evaluation complete, %d notification(s) sent", sent)
		return nil
	}
}

func handleDailyTipTask(scheduler *notification.SmartScheduler) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		outcome := scheduler.SendDailyTip(ctx)
		log.Printf("[NotificationWorker] 💡 Daily tip: %s", outcome)
		return nil
	}
}

func handleDigestFlushTask(engine notification.NotificationService, dispatcher *dispatch.PushDispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		prefs := engine.GetPreferences()
		switch prefs.Frequency {
		case models.FrequencyDailyDigest:
			// flush every day
		case models.FrequencyWeekly:
			if time.Now().Weekday() != time.Monday {
				return nil
			}
		default:
			// realtime delivery, nothing accumulates
			return nil
		}

		count, err := dispatcher.FlushDigest(ctx)
		if err != nil {
			log.Printf("[NotificationWorker] ❌ Digest flush failed: %v", err)
			return err
		}
		if count > 0 {
			log.Printf("[NotificationWorker] 📬 Flushed digest of %d notification(s)", count)
		}
		return nil
	}
}
