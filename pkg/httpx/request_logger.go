package httpx

import (
	"net/http"
	"time"

	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// quietRoutes — служебные маршруты, которые опрашиваются постоянно и не логируются.
var quietRoutes = map[string]bool{"/metrics": true, "/ping": true}

// RequestLogger — одна запись на запрос; уровень по коду ответа: 5xx ошибка, 4xx предупреждение.
// request_id и trace_id добавляет сам логгер из контекста.
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if quietRoutes[route] {
			return
		}
		if route == "" {
			route = c.Request.URL.Path
		}

		logf := log.Infof
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}

		span, _ := ctxmeta.SpanIDFromContext(c.Request.Context())
		logf(c.Request.Context(), "http request method=%s route=%s status=%d ip=%s duration=%s size=%d span=%s",
			c.Request.Method, route, c.Writer.Status(), c.ClientIP(), time.Since(start), c.Writer.Size(), span)
	}
}
