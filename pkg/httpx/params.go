package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page — окно выдачи списка.
type Page struct {
	Limit  int
	Offset int
}

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// ParsePage — limit/offset из query. Нечисловые значения заменяются дефолтами,
// limit прижимается к [1, maxLimit], отрицательный offset считается нулём.
func ParsePage(c *gin.Context, defaultLimit, maxLimit int) Page {
	p := Page{Limit: ClampInt(defaultLimit, 1, maxLimit)}
	if raw, ok := c.GetQuery("limit"); ok {
		if v, err := strconv.Atoi(raw); err == nil {
			p.Limit = ClampInt(v, 1, maxLimit)
		}
	}
	if raw, ok := c.GetQuery("offset"); ok {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Offset = v
		}
	}
	return p
}

// Bounds — индексы [lo, hi) окна для коллекции длины n; пустое окно за концом даёт lo == hi == n.
func (p Page) Bounds(n int) (lo, hi int) {
	lo = ClampInt(p.Offset, 0, n)
	hi = ClampInt(lo+p.Limit, lo, n)
	return lo, hi
}
