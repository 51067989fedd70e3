package countdown

import (
	"sync"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

// Source — откуда драйвер берёт текущий вид заказов.
type Source func() []domain.Order

// TickFunc — получает остатки заказов в статусе preparing на момент тика.
type TickFunc func(now time.Time, values map[string]Value)

// Driver — пересчитывает остатки раз в interval, пока в виде есть заказ в preparing.
// Когда таких нет, тикер остановлен; Wake возобновляет проверку.
type Driver struct {
	interval time.Duration
	source   Source
	onTick   TickFunc
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wakeCh  chan struct{}
	done    chan struct{}
}

// NewDriver — конструктор; interval <= 0 означает одну секунду.
func NewDriver(interval time.Duration, source Source, onTick TickFunc, now func() time.Time) *Driver {
	if interval <= 0 {
		interval = time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &Driver{
		interval: interval,
		source:   source,
		onTick:   onTick,
		now:      now,
	}
}

// Start — запускает драйвер; повторный вызов ничего не делает.
func (d *Driver) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.wakeCh = make(chan struct{}, 1)
	d.done = make(chan struct{})
	go d.loop(d.stopCh, d.wakeCh, d.done)
}

// Stop — останавливает драйвер и ждёт выхода цикла; безопасен при повторном вызове.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stopCh)
	done := d.done
	d.mu.Unlock()
	<-done
}

// Wake — сигнал, что снимок изменился и стоит проверить наличие заказов в preparing.
func (d *Driver) Wake() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running {
		return
	}
	select {
	case d.wakeCh <- struct{}{}:
	default:
	}
}

// Running — драйвер запущен (тикер при этом может быть приостановлен).
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *Driver) loop(stopCh, wakeCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var (
		ticker *time.Ticker
		tickCh <-chan time.Time
	)
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tickCh = nil, nil
		}
	}
	defer stopTicker()

	// evaluate — один пересчёт; возвращает, есть ли что отсчитывать.
	evaluate := func() bool {
		now := d.now()
		values := Evaluate(d.source(), now)
		if len(values) == 0 {
			return false
		}
		if d.onTick != nil {
			d.onTick(now, values)
		}
		return true
	}

	resume := func() {
		if !evaluate() {
			stopTicker()
			return
		}
		if ticker == nil {
			ticker = time.NewTicker(d.interval)
			tickCh = ticker.C
		}
	}

	resume()
	for {
		select {
		case <-stopCh:
			return
		case <-wakeCh:
			resume()
		case <-tickCh:
			if !evaluate() {
				stopTicker()
			}
		}
	}
}

// Evaluate — остатки всех заказов, к которым применим отсчёт.
func Evaluate(orders []domain.Order, now time.Time) map[string]Value {
	var out map[string]Value
	for i := range orders {
		v, ok := ForOrder(&orders[i], now)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]Value)
		}
		out[orders[i].ID] = v
	}
	return out
}
