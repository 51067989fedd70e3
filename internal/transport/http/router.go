package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/pkg/httpx"
	"github.com/Gunvolt24/order-sync/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	defaultNotificationsLimit = 50
	maxNotificationsLimit     = 200
)

// Handler — HTTP-поверхность хоста над движком синхронизации.
type Handler struct {
	engine  ports.SyncEngine
	log     ports.Logger
	timeout time.Duration // сколько ждать результат мутации при ?wait=true
}

// NewHandler — конструктор; timeout <= 0 означает 10s.
func NewHandler(engine ports.SyncEngine, log ports.Logger, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Handler{engine: engine, log: log, timeout: timeout}
}

// NewRouter — собирает gin.Engine. otelServiceName пустой => без otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "not found"}) })
	r.NoMethod(func(c *gin.Context) { c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"}) })
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/orders", h.listOrders)
	r.GET("/orders/:id", h.getOrder)
	r.GET("/orders/:id/countdown", h.getCountdown)
	r.POST("/orders/:id/status", h.requestTransition)

	r.POST("/refresh", h.refresh)
	r.GET("/sync", h.syncState)

	r.GET("/banner", h.getBanner)
	r.DELETE("/banner", h.dismissBanner)

	r.GET("/notifications", h.listNotifications)
	r.POST("/notifications", h.pushNotification)
	r.POST("/notifications/:id/read", h.markAsRead)
	r.DELETE("/notifications/:id", h.clearNotification)

	return r
}

// listOrders — снимок, суженный меткой фильтра (recu, en_cours, ...).
func (h *Handler) listOrders(c *gin.Context) {
	filter, err := domain.ParseFilter(c.Query("filter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot := h.engine.Snapshot()
	orders := make([]domain.Order, 0, len(snapshot))
	for i := range snapshot {
		if filter.Match(snapshot[i].Status) {
			orders = append(orders, snapshot[i])
		}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, ok := h.engine.Order(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

type countdownResponse struct {
	OrderID          string `json:"order_id"`
	Text             string `json:"text"`
	Short            string `json:"short"`
	Imminent         bool   `json:"imminent"`
	RemainingSeconds int64  `json:"remaining_seconds"`
}

func (h *Handler) getCountdown(c *gin.Context) {
	id := c.Param("id")
	v, ok := h.engine.Countdown(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no countdown for order"})
		return
	}
	c.JSON(http.StatusOK, countdownResponse{
		OrderID:          id,
		Text:             v.String(),
		Short:            v.Short(),
		Imminent:         v.Imminent,
		RemainingSeconds: int64(v.Remaining / time.Second),
	})
}

// transitionRequest — тело POST /orders/:id/status; минуты принимаются числом или строкой из формы.
type transitionRequest struct {
	Status             domain.Status `json:"status"`
	PreparationMinutes *json.Number  `json:"preparation_minutes,omitempty"`
}

func (h *Handler) requestTransition(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	var extra *domain.StatusExtra
	if req.PreparationMinutes != nil {
		minutes, err := validate.ParsePreparationMinutes(req.PreparationMinutes.String())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		extra = &domain.StatusExtra{PreparationMinutes: minutes}
	}

	result, err := h.engine.RequestTransition(ctx, id, req.Status, extra)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if wait, _ := strconv.ParseBool(c.DefaultQuery("wait", "false")); !wait {
		c.JSON(http.StatusAccepted, gin.H{"order_id": id, "status": req.Status, "state": "pending"})
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	select {
	case err := <-result:
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": id, "status": req.Status, "state": "confirmed"})
	case <-waitCtx.Done():
		c.JSON(http.StatusAccepted, gin.H{"order_id": id, "status": req.Status, "state": "pending"})
	}
}

func (h *Handler) refresh(c *gin.Context) {
	err := h.engine.RefreshNow(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"refreshed": true})
	case errors.Is(err, domain.ErrInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.writeError(c, err)
	}
}

func (h *Handler) syncState(c *gin.Context) {
	failed, err := h.engine.LastSyncFailed()
	resp := gin.H{"last_sync_failed": failed}
	if err != nil {
		resp["error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getBanner(c *gin.Context) {
	b := h.engine.Banner()
	if b == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) dismissBanner(c *gin.Context) {
	h.engine.DismissBanner()
	c.Status(http.StatusNoContent)
}

// listNotifications — уведомления (новые первыми) с limit/offset и счётчиком непрочитанных.
func (h *Handler) listNotifications(c *gin.Context) {
	page := httpx.ParsePage(c, defaultNotificationsLimit, maxNotificationsLimit)

	all := h.engine.Notifications()
	lo, hi := page.Bounds(len(all))
	items := make([]domain.Notification, hi-lo)
	copy(items, all[lo:hi])
	c.JSON(http.StatusOK, gin.H{
		"items":  items,
		"total":  len(all),
		"unread": h.engine.UnreadCount(),
	})
}

type pushRequest struct {
	Kind    domain.NotificationKind `json:"kind"`
	OrderID string                  `json:"order_id"`
	Title   string                  `json:"title"`
	Body    string                  `json:"body"`
}

// pushNotification — уведомление от хоста (сообщение, отзыв).
func (h *Handler) pushNotification(c *gin.Context) {
	var req pushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}
	switch req.Kind {
	case domain.NotificationMessage, domain.NotificationReview, domain.NotificationStatus:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported notification kind"})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty title"})
		return
	}
	c.JSON(http.StatusCreated, h.engine.Push(req.Kind, req.OrderID, req.Title, req.Body))
}

func (h *Handler) markAsRead(c *gin.Context) {
	if !h.engine.MarkAsRead(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clearNotification(c *gin.Context) {
	if !h.engine.Clear(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// writeError — ошибки движка в HTTP-коды; причина отказа сервера уходит клиенту как есть.
func (h *Handler) writeError(c *gin.Context, err error) {
	if reason, ok := domain.RejectReason(err); ok {
		c.JSON(http.StatusConflict, gin.H{"error": "rejected", "reason": reason})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUnknownOrder):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrTransport):
		status = http.StatusBadGateway
	case errors.Is(err, domain.ErrStopped):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "request failed path=%s: %v", c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
