package subscription

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Augusto9237/dg-notas-sub001/internal/handler"
	"github.com/Augusto9237/dg-notas-sub001/internal/model"
	"github.com/Augusto9237/dg-notas-sub001/internal/repository"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/dispatch"
	"github.com/Augusto9237/dg-notas-sub001/internal/service/sweeper"
	"github.com/Augusto9237/dg-notas-sub001/pkg/apperror"
)

// testPayload is sent by the test-delivery endpoint. Product locale.
var testPayload = &model.NotificationPayload{
	Title: "Notificação de teste",
	Body:  "Seu navegador está recebendo notificações do dg-notas.",
	Tag:   "test-notification",
}

type Handler struct {
	subs       repository.SubscriptionRepository
	dispatcher *dispatch.Service
	sweeper    *sweeper.Service
	vapidKey   string
}

func NewHandler(subs repository.SubscriptionRepository, dispatcher *dispatch.Service, sw *sweeper.Service, vapidKey string) *Handler {
	return &Handler{
		subs:       subs,
		dispatcher: dispatcher,
		sweeper:    sw,
		vapidKey:   vapidKey,
	}
}

type saveRequest struct {
	UserID       string                     `json:"userId" binding:"required"`
	Subscription *model.WebPushSubscription `json:"subscription" binding:"required"`
}

// Save registers or refreshes one browser's push subscription. Idempotent on
// the endpoint URL: a re-registration overwrites the prior row.
func (h *Handler) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithError(c, apperror.BadRequest(err.Error(), err))
		return
	}

	sub := &model.PushSubscription{
		Endpoint:   req.Subscription.Endpoint,
		P256dh:     req.Subscription.Keys.P256dh,
		Auth:       req.Subscription.Keys.Auth,
		UserID:     req.UserID,
		DeviceInfo: c.Request.UserAgent(),
	}

	stored, err := h.subs.Upsert(c.Request.Context(), sub)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": stored})
}

type testRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type testEndpointResult struct {
	Endpoint string `json:"endpoint"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Test sends a fixed payload to every endpoint the user has registered and
// reports the per-endpoint outcome, endpoint URLs truncated for logs and
// response alike.
func (h *Handler) Test(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondWithError(c, apperror.BadRequest(err.Error(), err))
		return
	}

	result, err := h.dispatcher.DispatchToUser(c.Request.Context(), req.UserID, testPayload)
	if err != nil {
		if err == dispatch.ErrNoTargets {
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"results": []testEndpointResult{},
				"removed": 0,
			})
			return
		}
		handler.RespondWithError(c, err)
		return
	}

	results := make([]testEndpointResult, len(result.Endpoints))
	for i, er := range result.Endpoints {
		results[i] = testEndpointResult{
			Endpoint: truncate(er.Endpoint, 60),
			Success:  er.Success,
			Error:    er.Error,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"results": results,
		"removed": len(result.InvalidEndpoints),
	})
}

// Cleanup runs a full endpoint health sweep. Cron-triggered.
func (h *Handler) Cleanup(c *gin.Context) {
	result, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"totalChecked": result.TotalChecked,
		"invalidFound": result.InvalidFound,
		"removed":      result.Removed,
		"message":      "endpoint sweep complete",
	})
}

// VAPIDKey hands browsers the public key they need to subscribe.
func (h *Handler) VAPIDKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.vapidKey})
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, cronAuth gin.HandlerFunc) {
	subscriptions := r.Group("/subscriptions")
	{
		subscriptions.POST("/save", h.Save)
		subscriptions.POST("/test", h.Test)
		subscriptions.POST("/cleanup", cronAuth, h.Cleanup)
		subscriptions.GET("/vapid-key", h.VAPIDKey)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
