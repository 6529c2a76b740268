package handlers

import (
	"context"
	"net/http"
	"time"

	"policyangel/services/notification"

	"github.com/gin-gonic/gin"
)

// DemoHandler exposes the seeding utility in non-production environments.
type DemoHandler struct {
	Seeder *notification.Seeder
}

// NewDemoHandler creates the handler.
func NewDemoHandler(seeder *notification.Seeder) *DemoHandler {
	return &DemoHandler{Seeder: seeder}
}

// SeedHandler handles POST /api/demo/seed.
func (h *DemoHandler) SeedHandler(c *gin.Context) {
	sent := h.Seeder.Seed(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Demo notifications seeded", "sent": sent})
}

// SimulateHandler handles POST /api/demo/simulate. It runs a bounded
// background simulation that sends a random canned notification every few
// seconds.
func (h *DemoHandler) SimulateHandler(c *gin.Context) {
	var req struct {
		Seconds  int `json:"seconds"`
		Interval int `json:"intervalSeconds"`
	}
	// Body is optional; defaults below.
	_ = c.ShouldBindJSON(&req)

	if req.Seconds <= 0 || req.Seconds > 300 {
		req.Seconds = 60
	}
	if req.Interval <= 0 {
		req.Interval = 5
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(req.Seconds)*time.Second)
	go func() {
		defer cancel()
		h.Seeder.Simulate(ctx, time.Duration(req.Interval)*time.Second)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message":  "Simulation started",
		"seconds":  req.Seconds,
		"interval": req.Interval,
	})
}
