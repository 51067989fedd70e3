//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gunvolt24/order-sync/internal/domain"
)

var orderColumns = []string{"id", "order_number", "status", "estimated_ready_time", "total", "restaurant_id", "customer_id", "created_at"}

// UpsertOrder — создаёт или перезаписывает заказ в таблице orders.
func UpsertOrder(ctx context.Context, pool *pgxpool.Pool, o *domain.Order) error {
	if o == nil || o.ID == "" {
		return errors.New("order is empty or id is required")
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO orders (id, order_number, status, estimated_ready_time, total, restaurant_id, customer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			order_number = EXCLUDED.order_number,
			status = EXCLUDED.status,
			estimated_ready_time = EXCLUDED.estimated_ready_time,
			total = EXCLUDED.total,
			restaurant_id = EXCLUDED.restaurant_id,
			customer_id = EXCLUDED.customer_id,
			created_at = EXCLUDED.created_at,
			updated_at = now()
	`, o.ID, o.OrderNumber, string(o.Status), o.EstimatedReadyTime, o.Total, o.RestaurantID, o.CustomerID, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert order: %w", err)
	}
	return nil
}

// SeedOrders — массовая вставка через COPY; существующие id дают ошибку уникальности.
func SeedOrders(ctx context.Context, pool *pgxpool.Pool, orders []domain.Order) (int64, error) {
	rows := make([][]any, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		rows = append(rows, []any{o.ID, o.OrderNumber, string(o.Status), o.EstimatedReadyTime,
			o.Total, o.RestaurantID, o.CustomerID, o.CreatedAt})
	}

	n, err := pool.CopyFrom(ctx, pgx.Identifier{"orders"}, orderColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("seed orders: %w", err)
	}
	return n, nil
}
