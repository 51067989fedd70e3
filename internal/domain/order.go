package domain

import "time"

// Order — заказ в том виде, в котором его отдаёт API заказов.
// Владелец — сервер; клиент держит копию на время цикла опроса.
type Order struct {
	ID                 string     `json:"id"`
	OrderNumber        string     `json:"order_number"`
	Status             Status     `json:"status"`
	EstimatedReadyTime *time.Time `json:"estimated_ready_time,omitempty"`
	Total              float64    `json:"total"`
	RestaurantID       string     `json:"restaurant_id"`
	CustomerID         string     `json:"customer_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// Clone — копия заказа без общих указателей.
func (o Order) Clone() Order {
	if o.EstimatedReadyTime != nil {
		eta := *o.EstimatedReadyTime
		o.EstimatedReadyTime = &eta
	}
	return o
}

// StatusExtra — дополнительные параметры смены статуса (время приготовления в минутах).
type StatusExtra struct {
	PreparationMinutes int `json:"preparation_minutes,omitempty"`
}

// PendingMutation — оптимистичное изменение статуса, ожидающее ответа сервера.
// Пока оно живо, в снимке виден Requested, а не Prior.
type PendingMutation struct {
	OrderID   string
	Requested Status
	Prior     Status
	Extra     *StatusExtra
	IssuedAt  time.Time
	Seq       uint64 // отличает повторные мутации одного заказа
}
