package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"policyangel/models"
	"policyangel/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, notification.NotificationService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := notification.New(context.Background(), notification.NewMemoryStore(), nil, nil)
	require.NoError(t, err)

	h := NewNotificationHandler(engine)
	r := gin.New()
	r.GET("/api/notifications", h.ListHandler)
	r.GET("/api/notifications/unread-count", h.UnreadCountHandler)
	r.POST("/api/notifications", h.SendHandler)
	r.PUT("/api/notifications/read-all", h.MarkAllReadHandler)
	r.PUT("/api/notifications/:id/read", h.MarkReadHandler)
	r.DELETE("/api/notifications/:id", h.DeleteHandler)
	r.DELETE("/api/notifications", h.ClearHandler)
	r.GET("/api/preferences", h.GetPreferencesHandler)
	r.PATCH("/api/preferences", h.UpdatePreferencesHandler)
	return r, engine
}

func seedOne(t *testing.T, svc notification.NotificationService, typ models.NotificationType) models.Notification {
	t.Helper()
	outcome, n := svc.SendNotification(context.Background(), models.NotificationDraft{
		Type:     typ,
		Priority: models.PriorityMedium,
		Title:    "title",
		Message:  "message",
	})
	require.Equal(t, notification.OutcomeSent, outcome)
	return *n
}

func TestListHandler(t *testing.T) {
	r, svc := newTestRouter(t)
	seedOne(t, svc, models.TypeTip)
	seedOne(t, svc, models.TypeRisk)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Notifications []models.Notification `json:"notifications"`
		Count         int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, models.TypeRisk, resp.Notifications[0].Type, "newest first")
}

func TestListHandlerFiltersByType(t *testing.T) {
	r, svc := newTestRouter(t)
	seedOne(t, svc, models.TypeTip)
	seedOne(t, svc, models.TypeRisk)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications?type=tip", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestListHandlerRejectsUnknownType(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications?type=bogus", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendHandlerReportsOutcome(t *testing.T) {
	r, svc := newTestRouter(t)

	body := `{"type":"tip","priority":"low","title":"Tip","message":"Bundle your policies."}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"sent"`)

	// Disable tips and observe the suppression outcome.
	svc.UpdatePreferences(context.Background(), models.PreferencesPatch{
		Types: map[models.NotificationType]bool{models.TypeTip: false},
	})

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"outcome":"suppressed_type"`)
}

func TestMarkReadHandler(t *testing.T) {
	r, svc := newTestRouter(t)
	n := seedOne(t, svc, models.TypeSavings)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/notifications/"+n.ID+"/read", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, svc.GetUnreadCount(""))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/notifications/no-such-id/read", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearHandlerByType(t *testing.T) {
	r, svc := newTestRouter(t)
	seedOne(t, svc, models.TypeTip)
	seedOne(t, svc, models.TypeRisk)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/notifications?type=tip", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	list := svc.GetNotifications(notification.Filter{})
	require.Len(t, list, 1)
	assert.Equal(t, models.TypeRisk, list[0].Type)
}

func TestUpdatePreferencesHandler(t *testing.T) {
	r, svc := newTestRouter(t)

	body := `{"frequency":"daily_digest","types":{"tip":false}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/preferences", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	prefs := svc.GetPreferences()
	assert.Equal(t, models.FrequencyDailyDigest, prefs.Frequency)
	assert.False(t, prefs.Types[models.TypeTip])
}

func TestUpdatePreferencesRejectsUnknownType(t *testing.T) {
	r, _ := newTestRouter(t)

	body := `{"types":{"bogus":true}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/preferences", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
