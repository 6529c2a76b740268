package tasks

import (
	"github.com/hibiken/asynq"
)

// Task type names handled by the cron worker.
const (
	TypeOpportunityEvaluate = "opportunity:evaluate"
	TypeDailyTip            = "tip:send"
	TypeDigestFlush         = "digest:flush"
)

// NewEvaluationTask builds the task that re-runs the scheduler rules
// against the latest opportunity snapshot.
func NewEvaluationTask() *asynq.Task {
	return asynq.NewTask(TypeOpportunityEvaluate, nil)
}

// NewDailyTipTask builds the daily tip task.
func NewDailyTipTask() *asynq.Task {
	return asynq.NewTask(TypeDailyTip, nil)
}

// NewDigestFlushTask builds the digest flush task.
func NewDigestFlushTask() *asynq.Task {
	return asynq.NewTask(TypeDigestFlush, nil)
}
