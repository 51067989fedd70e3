// Package countdown вычисляет оставшееся до готовности время по серверной отметке и текущему времени.
package countdown

import (
	"fmt"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

// Imminent — текст для случая, когда время готовности уже наступило.
const Imminent = "imminent"

// Granularity — уровень детализации остатка.
type Granularity int

const (
	GranularityNone           Granularity = iota // imminent
	GranularitySeconds                           // меньше минуты
	GranularityMinutesSeconds                    // меньше часа
	GranularityHoursMinutes                      // час и больше
)

// Value — описание остатка; вычисляется на каждом тике и нигде не хранится.
type Value struct {
	Imminent    bool          `json:"imminent"`
	Remaining   time.Duration `json:"remaining"`
	Granularity Granularity   `json:"granularity"`
	Hours       int           `json:"hours"`
	Minutes     int           `json:"minutes"`
	Seconds     int           `json:"seconds"`
}

// Remaining — остаток до eta. Ветки — строгая лестница приоритетов, срабатывает ровно одна.
func Remaining(eta, now time.Time) Value {
	if !now.Before(eta) {
		return Value{Imminent: true, Granularity: GranularityNone}
	}

	d := eta.Sub(now)
	total := int(d / time.Second)
	v := Value{
		Remaining: d,
		Hours:     total / 3600,
		Minutes:   (total % 3600) / 60,
		Seconds:   total % 60,
	}

	switch {
	case d < time.Minute:
		v.Granularity = GranularitySeconds
	case d < time.Hour:
		v.Granularity = GranularityMinutesSeconds
	default:
		v.Granularity = GranularityHoursMinutes
	}
	return v
}

// String — текст для отображения: "1h 30min", "12 min 5 sec", "0 min 45 sec" или Imminent.
func (v Value) String() string {
	switch v.Granularity {
	case GranularityHoursMinutes:
		return fmt.Sprintf("%dh %dmin", v.Hours, v.Minutes)
	case GranularityMinutesSeconds, GranularitySeconds:
		return fmt.Sprintf("%d min %d sec", v.Minutes, v.Seconds)
	default:
		return Imminent
	}
}

// Short — компактный текст: секундный уровень без минут ("45 sec").
func (v Value) Short() string {
	if v.Granularity == GranularitySeconds {
		return fmt.Sprintf("%d sec", v.Seconds)
	}
	return v.String()
}

// ForOrder — остаток для заказа; false, если отсчёт к заказу не применим
// (не preparing или нет времени готовности).
func ForOrder(o *domain.Order, now time.Time) (Value, bool) {
	if !domain.CountdownApplies(o) {
		return Value{}, false
	}
	return Remaining(*o.EstimatedReadyTime, now), true
}
