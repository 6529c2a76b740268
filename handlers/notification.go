package handlers

import (
	"net/http"

	"policyangel/models"
	"policyangel/services/notification"
	"policyangel/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler exposes the engine over HTTP.
type NotificationHandler struct {
	Service notification.NotificationService
}

// NewNotificationHandler creates a handler for the given engine.
func NewNotificationHandler(svc notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: svc}
}

// parseTypeQuery validates the optional ?type= query parameter.
func parseTypeQuery(c *gin.Context) (models.NotificationType, bool) {
	raw := c.Query("type")
	if raw == "" {
		return "", true
	}
	t := models.NotificationType(raw)
	if !t.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown notification type: " + raw})
		return "", false
	}
	return t, true
}

// ListHandler handles GET /api/notifications.
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	t, ok := parseTypeQuery(c)
	if !ok {
		return
	}
	list := h.Service.GetNotifications(notification.Filter{
		Type:       t,
		UnreadOnly: c.Query("unread") == "true",
	})
	c.JSON(http.StatusOK, gin.H{"notifications": list, "count": len(list)})
}

// UnreadCountHandler handles GET /api/notifications/unread-count.
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	t, ok := parseTypeQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": h.Service.GetUnreadCount(t)})
}

// SendHandler handles POST /api/notifications. The outcome tells the
// caller whether the send was accepted or why it was suppressed.
func (h *NotificationHandler) SendHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var draft models.NotificationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		logger.Error("Invalid send request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !draft.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown notification type: " + string(draft.Type)})
		return
	}

	outcome, n := h.Service.SendNotification(c.Request.Context(), draft)
	if outcome != notification.OutcomeSent {
		c.JSON(http.StatusOK, gin.H{"outcome": outcome})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"outcome": outcome, "notification": n})
}

// MarkReadHandler handles PUT /api/notifications/:id/read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	id := c.Param("id")
	if !h.Service.MarkAsRead(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllReadHandler handles PUT /api/notifications/read-all.
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	t, ok := parseTypeQuery(c)
	if !ok {
		return
	}
	h.Service.MarkAllAsRead(c.Request.Context(), t)
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read"})
}

// DeleteHandler handles DELETE /api/notifications/:id.
func (h *NotificationHandler) DeleteHandler(c *gin.Context) {
	id := c.Param("id")
	if !h.Service.DeleteNotification(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// ClearHandler handles DELETE /api/notifications.
func (h *NotificationHandler) ClearHandler(c *gin.Context) {
	t, ok := parseTypeQuery(c)
	if !ok {
		return
	}
	h.Service.ClearAll(c.Request.Context(), t)
	c.JSON(http.StatusOK, gin.H{"message": "Notifications cleared"})
}

// GetPreferencesHandler handles GET /api/preferences.
func (h *NotificationHandler) GetPreferencesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.GetPreferences())
}

// UpdatePreferencesHandler handles PATCH /api/preferences.
func (h *NotificationHandler) UpdatePreferencesHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var patch models.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		logger.Error("Invalid preferences patch", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for t := range patch.Types {
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown notification type: " + string(t)})
			return
		}
	}

	updated := h.Service.UpdatePreferences(c.Request.Context(), patch)
	c.JSON(http.StatusOK, updated)
}
