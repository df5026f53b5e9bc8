package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betterlifeboard/lifeboard-api/internal/models"
	"github.com/betterlifeboard/lifeboard-api/internal/schedule"
	"github.com/betterlifeboard/lifeboard-api/internal/services"
)

type getAlarmsResponse struct {
	Alarms []string `json:"alarms"`
}

func (h *handlerImpl) HandleGetAlarms(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	todoID := c.Param("todoID")
	if todoID == "" {
		h.logger.Error().Msg("no todo id provided")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	tokens, err := h.notify.GetAlarms(c, userID, todoID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get alarms")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}
	if tokens == nil {
		tokens = []string{}
	}

	c.JSON(http.StatusOK, getAlarmsResponse{Alarms: tokens})
}

type feedEntryResponse struct {
	ID        string    `json:"id"`
	TodoID    string    `json:"todoId"`
	EventType string    `json:"eventType"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SendAt    time.Time `json:"sendAt"`
	Link      string    `json:"link,omitempty"`
	// Offset is the canonical label reconciled from the entry's raw
	// remainTime; entries with no canonical match are omitted from the
	// offsets summary but still listed here with an empty offset.
	Offset string `json:"offset,omitempty"`
}

type getFeedResponse struct {
	Entries []feedEntryResponse `json:"entries"`
	Offsets alarmOffsetsView    `json:"offsets"`
}

type alarmOffsetsView struct {
	Start []string `json:"start"`
	End   []string `json:"end"`
}

func (h *handlerImpl) HandleGetNotifyFeed(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	entries, err := h.notify.GetFeed(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get feed")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := getFeedResponse{Entries: make([]feedEntryResponse, len(entries))}
	notifyEntries := make([]schedule.NotifyEntry, len(entries))
	for i, entry := range entries {
		view := feedEntryResponse{
			ID:        entry.ID,
			TodoID:    entry.TodoID,
			EventType: entry.EventType,
			Title:     entry.Title,
			Body:      entry.Body,
			SendAt:    entry.SendAt,
			Link:      entry.Link,
		}
		if seconds, ok := schedule.ParseDuration(entry.RemainTime); ok {
			if label, ok := schedule.OffsetLabelFor(seconds); ok {
				view.Offset = label
			}
		}
		response.Entries[i] = view
		notifyEntries[i] = schedule.NotifyEntry{
			EventType:  entry.EventType,
			RemainTime: entry.RemainTime,
		}
	}

	set := schedule.ClassifyNotifies(notifyEntries)
	response.Offsets = alarmOffsetsView{
		Start: emptyIfNil(set.Start),
		End:   emptyIfNil(set.End),
	}

	c.JSON(http.StatusOK, response)
}

type registerPushTokenRequest struct {
	DeviceType  string `json:"deviceType" binding:"required,max=32"`
	BrowserType string `json:"browserType" binding:"required,max=255"`
	Endpoint    string `json:"endpoint" binding:"required,url"`
	P256dh      string `json:"p256dh" binding:"required"`
	Auth        string `json:"auth" binding:"required"`
}

func (h *handlerImpl) HandleRegisterPushToken(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var req registerPushTokenRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	err = h.notify.RegisterPushToken(c, &models.PushToken{
		UserID:      userID,
		DeviceType:  req.DeviceType,
		BrowserType: req.BrowserType,
		Endpoint:    req.Endpoint,
		P256dh:      req.P256dh,
		Auth:        req.Auth,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register push token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusCreated)
}

type getPushTokenResponse struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (h *handlerImpl) HandleGetPushToken(c *gin.Context) {
	userID, exists := getStringFromContext(c, userIDCtxKey)
	if !exists {
		h.logger.Error().Msg("no user id found in context")
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	deviceType := c.Query("device-type")
	browserType := c.Query("browser-type")
	if deviceType == "" || browserType == "" {
		h.logger.Error().Msg("device-type and browser-type are required")
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	token, err := h.notify.GetPushToken(c, userID, deviceType, browserType)
	if err != nil {
		if errors.Is(err, services.ErrPushTokenNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to get push token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, getPushTokenResponse{
		UserID:    token.UserID,
		Token:     token.Endpoint,
		Enabled:   token.Enabled,
		UpdatedAt: token.UpdatedAt,
	})
}

func emptyIfNil(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}
