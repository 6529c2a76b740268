package handlers

import (
	"io"

	"policyangel/models"

	"github.com/gin-gonic/gin"
)

// StreamHandler handles GET /api/notifications/stream: a server-sent event
// feed of accepted notifications, backed by the engine's subscription.
func (h *NotificationHandler) StreamHandler(c *gin.Context) {
	ch := make(chan models.Notification, 16)
	unsubscribe := h.Service.Subscribe(func(n models.Notification) {
		// Drop rather than block the engine's synchronous listener loop
		// when a slow client falls behind.
		select {
		case ch <- n:
		default:
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case n := <-ch:
			c.SSEvent("notification", n)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
