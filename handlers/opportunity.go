package handlers

import (
	"net/http"

	opportunityRepo "policyangel/database/repository/opportunity"
	"policyangel/models"
	"policyangel/services/notification"
	"policyangel/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OpportunityHandler ingests opportunity snapshots from the upstream data
// source and runs the scheduler rules against them.
type OpportunityHandler struct {
	Repo      opportunityRepo.OpportunityRepository
	Scheduler *notification.SmartScheduler
}

// NewOpportunityHandler creates the handler.
func NewOpportunityHandler(repo opportunityRepo.OpportunityRepository, scheduler *notification.SmartScheduler) *OpportunityHandler {
	return &OpportunityHandler{Repo: repo, Scheduler: scheduler}
}

// UpsertHandler handles PUT /api/opportunity: store a fresh snapshot and
// evaluate it immediately.
func (h *OpportunityHandler) UpsertHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var data models.OpportunityData
	if err := c.ShouldBindJSON(&data); err != nil {
		logger.Error("Invalid opportunity snapshot", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Repo.SaveSnapshot(c.Request.Context(), data); err != nil {
		logger.Error("Failed to save opportunity snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sent := h.Scheduler.EvaluateAll(c.Request.Context(), data)
	c.JSON(http.StatusOK, gin.H{"message": "Snapshot stored", "notificationsSent": sent})
}

// EvaluateHandler handles POST /api/opportunity/evaluate: re-run the rules
// against the most recent stored snapshot.
func (h *OpportunityHandler) EvaluateHandler(c *gin.Context) {
	logger := utils.GetLogger()

	snap, err := h.Repo.GetLatest(c.Request.Context())
	if err == opportunityRepo.ErrNoSnapshot {
		c.JSON(http.StatusNotFound, gin.H{"error": "no opportunity snapshot stored yet"})
		return
	}
	if err != nil {
		logger.Error("Failed to load opportunity snapshot", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sent := h.Scheduler.EvaluateAll(c.Request.Context(), snap.Data)
	c.JSON(http.StatusOK, gin.H{"notificationsSent": sent, "snapshotFetchedAt": snap.FetchedAt})
}
