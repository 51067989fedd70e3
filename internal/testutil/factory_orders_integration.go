//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeOrder — мини-генератор валидного заказа (pending, ресторан r1).
func MakeOrder(opts ...func(*domain.Order)) domain.Order {
	id := "ord-" + UniqSuffix()
	now := time.Now().UTC().Truncate(time.Second)

	o := domain.Order{
		ID:           id,
		OrderNumber:  "N-" + UniqSuffix(),
		Status:       domain.StatusPending,
		Total:        42.5,
		RestaurantID: "r1",
		CustomerID:   "cust-" + UniqSuffix(),
		CreatedAt:    now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStatus — задать статус.
func WithStatus(s domain.Status) func(*domain.Order) {
	return func(o *domain.Order) { o.Status = s }
}

// WithTenant — задать ресторан.
func WithTenant(id string) func(*domain.Order) {
	return func(o *domain.Order) { o.RestaurantID = id }
}

// WithCustomer — задать клиента.
func WithCustomer(id string) func(*domain.Order) {
	return func(o *domain.Order) { o.CustomerID = id }
}

// WithCreatedAt — задать время создания.
func WithCreatedAt(t time.Time) func(*domain.Order) {
	return func(o *domain.Order) { o.CreatedAt = t.UTC().Truncate(time.Second) }
}
