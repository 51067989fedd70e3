package httpx

import (
	"github.com/Gunvolt24/order-sync/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID — заголовок корреляции запросов; тот же id уходит в API заказов.
const HeaderRequestID = "X-Request-ID"

// maxRequestIDLen — длиннее не принимаем: id попадает в логи и заголовки исходящих запросов.
const maxRequestIDLen = 128

// RequestIDMiddleware — берёт X-Request-ID клиента, если он пригоден, иначе генерирует UUID;
// кладёт id в контекст запроса и возвращает в ответе.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)
		c.Request = c.Request.WithContext(ctxmeta.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// validRequestID — непустой, не длиннее maxRequestIDLen, только видимые ASCII-символы.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '!' || id[i] > '~' {
			return false
		}
	}
	return true
}
