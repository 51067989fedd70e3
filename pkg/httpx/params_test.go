package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gunvolt24/order-sync/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// Утилита для создания *gin.Context с query-строкой
func ctxWithQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, http.NoBody)
	return c
}

func TestClampInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		v, lo, hi int
		want      int
	}{
		{"below", 0, 1, 10, 1},
		{"above", 11, 1, 10, 10},
		{"inside", 5, 1, 10, 5},
		{"edges", 10, 1, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := httpx.ClampInt(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("ClampInt(%d,%d,%d) = %d, want %d", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		rawQuery   string
		def, max   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 50, 200, 50, 0},
		{"default above max", "", 500, 200, 200, 0},
		{"both", "limit=25&offset=10", 50, 200, 25, 10},
		{"limit clamped low", "limit=0", 50, 200, 1, 0},
		{"limit clamped high", "limit=999", 50, 200, 200, 0},
		{"limit not a number", "limit=foo", 50, 200, 50, 0},
		{"offset negative", "offset=-3", 50, 200, 50, 0},
		{"offset not a number", "offset=bar", 50, 200, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := httpx.ParsePage(ctxWithQuery(tt.rawQuery), tt.def, tt.max)
			if p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
				t.Fatalf("got %+v, want limit=%d offset=%d (query=%q)", p, tt.wantLimit, tt.wantOffset, tt.rawQuery)
			}
		})
	}
}

func TestPage_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page   httpx.Page
		n      int
		lo, hi int
	}{
		{httpx.Page{Limit: 2, Offset: 1}, 3, 1, 3},
		{httpx.Page{Limit: 10}, 3, 0, 3},
		{httpx.Page{Limit: 5, Offset: 10}, 3, 3, 3},
		{httpx.Page{Limit: 5}, 0, 0, 0},
	}
	for _, tt := range tests {
		if lo, hi := tt.page.Bounds(tt.n); lo != tt.lo || hi != tt.hi {
			t.Fatalf("%+v.Bounds(%d) = [%d,%d), want [%d,%d)", tt.page, tt.n, lo, hi, tt.lo, tt.hi)
		}
	}
}
