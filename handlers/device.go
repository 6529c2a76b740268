package handlers

import (
	"net/http"
	"time"

	"policyangel/services/dispatch"
	"policyangel/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deviceTokenDuration = 30 * 24 * time.Hour

// DeviceHandler registers app installs for push delivery and issues their
// session tokens.
type DeviceHandler struct {
	Registry dispatch.DeviceRegistry
}

// NewDeviceHandler creates the handler.
func NewDeviceHandler(registry dispatch.DeviceRegistry) *DeviceHandler {
	return &DeviceHandler{Registry: registry}
}

// RegisterHandler handles POST /api/devices/register. Re-registering an
// existing device rotates its session token and replaces its FCM token.
func (h *DeviceHandler) RegisterHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req struct {
		DeviceID string `json:"deviceId"`
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid device registration", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	token, err := utils.GenerateDeviceToken(deviceID, deviceTokenDuration)
	if err != nil {
		logger.Error("Failed to generate device token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	if err := h.Registry.Register(c.Request.Context(), deviceID, req.FCMToken, utils.HashToken(token)); err != nil {
		logger.Error("Failed to register device", zap.String("deviceId", deviceID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deviceId": deviceID, "token": token})
}
