package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/order-sync/internal/ports/mocks"
	"github.com/Gunvolt24/order-sync/pkg/httpx"
)

func TestRequestLogger_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	r := gin.New()
	r.Use(httpx.RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	// аргументы: method, route, status, ip, duration, size, span
	any7 := []any{gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()}
	log.EXPECT().Infof(gomock.Any(), gomock.Any(), any7...).Times(1)
	log.EXPECT().Warnf(gomock.Any(), gomock.Any(), any7...).Times(1)
	log.EXPECT().Errorf(gomock.Any(), gomock.Any(), any7...).Times(1)

	for _, path := range []string{"/ping", "/ok", "/bad", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}
}
