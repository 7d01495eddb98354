package notification

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Augusto9237/dg-notas-sub001/internal/handler"
	"github.com/Augusto9237/dg-notas-sub001/internal/middleware"
	"github.com/Augusto9237/dg-notas-sub001/internal/model"
	"github.com/Augusto9237/dg-notas-sub001/internal/push"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/dispatch"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/fallback"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/notification"
	"github.com/Augusto9237/dg-notas-sub001/pkg/apperror"
)

type Handler struct {
	dispatcher  *dispatch.Service
	fallback    *fallback.Service
	notifier    *notification.Service
	drainMaxAge time.Duration
}

func NewHandler(dispatcher *dispatch.Service, fb *fallback.Service, notifier *notification.Service, drainMaxAge time.Duration) *Handler {
	return &Handler{
		dispatcher:  dispatcher,
		fallback:    fb,
		notifier:    notifier,
		drainMaxAge: drainMaxAge,
	}
}

type sendRequest struct {
	Subscriptions []model.WebPushSubscription `json:"subscriptions"`
	Payload       model.NotificationPayload   `json:"payload"`
}

// Send fans one payload out to an explicit list of subscriptions.
func (h *Handler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithError(c, apperror.BadRequest(err.Error(), err))
		return
	}

	if len(req.Subscriptions) == 0 {
		handler.RespondWithError(c, apperror.BadRequest("subscriptions must be a non-empty list", nil))
		return
	}
	if req.Payload.Title == "" {
		handler.RespondWithError(c, apperror.BadRequest("payload.title is required", nil))
		return
	}

	targets := make([]push.Target, len(req.Subscriptions))
	for i, sub := range req.Subscriptions {
		targets[i] = push.Target{
			Endpoint: sub.Endpoint,
			P256dh:   sub.Keys.P256dh,
			Auth:     sub.Keys.Auth,
		}
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), targets, &req.Payload)
	if err != nil {
		if err == dispatch.ErrNoTargets {
			handler.RespondWithError(c, apperror.BadRequest(err.Error(), err))
			return
		}
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type notifyRequest struct {
	UserID  string                    `json:"userId" binding:"required"`
	Payload model.NotificationPayload `json:"payload"`
}

// Notify is the business-event entry point: one user, both channels (push
// fanout plus fallback enqueue). Called service-to-service by the platform.
func (h *Handler) Notify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithError(c, apperror.BadRequest(err.Error(), err))
		return
	}
	if req.Payload.Title == "" {
		handler.RespondWithError(c, apperror.BadRequest("payload.title is required", nil))
		return
	}

	result, err := h.notifier.Notify(c.Request.Context(), req.UserID, &req.Payload)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type polledNotification struct {
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	Badge     string    `json:"badge,omitempty"`
	URL       string    `json:"url,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Poll drains the caller's fallback mailbox and marks everything returned as
// delivered in the same call. At-most-once: an item lost to a client crash
// after this response is accepted data loss.
func (h *Handler) Poll(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		handler.RespondWithError(c, apperror.Unauthorized("", nil))
		return
	}

	items, err := h.fallback.Drain(c.Request.Context(), userID, h.drainMaxAge)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	ids := make([]uuid.UUID, len(items))
	notifications := make([]polledNotification, len(items))
	for i, item := range items {
		ids[i] = item.ID
		notifications[i] = polledNotification{
			Title:     item.Title,
			Body:      item.Body,
			Icon:      item.Icon,
			Badge:     item.Badge,
			URL:       item.URL,
			Tag:       item.Tag,
			Timestamp: item.CreatedAt,
		}
	}

	if err := h.fallback.MarkDelivered(c.Request.Context(), ids); err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"count":         len(notifications),
		"notifications": notifications,
	})
}

// Cleanup deletes delivered and expired mailbox entries. Cron-triggered.
func (h *Handler) Cleanup(c *gin.Context) {
	removed, err := h.fallback.Cleanup(c.Request.Context(), 0)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"removed": removed,
	})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc, cronAuth gin.HandlerFunc) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("/send", h.Send)
		notifications.POST("/notify", cronAuth, h.Notify)
		notifications.GET("/poll", auth, h.Poll)
		notifications.POST("/cleanup", cronAuth, h.Cleanup)
	}
}
