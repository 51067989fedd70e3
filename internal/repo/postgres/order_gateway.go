package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что OrderGateway удовлетворяет порту шлюза заказов.
var _ ports.OrderGateway = (*OrderGateway)(nil)

// DefaultListLimit — сколько заказов отдаёт один опрос.
const DefaultListLimit = 500

// OrderGateway — шлюз заказов напрямую к таблице orders (pgxpool).
// Для развёртываний рядом с базой заказов, без REST API.
type OrderGateway struct {
	pool  *pgxpool.Pool
	limit int
	now   func() time.Time
}

// NewOrderGateway — конструктор; limit <= 0 означает DefaultListLimit.
func NewOrderGateway(pool *pgxpool.Pool, limit int) *OrderGateway {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return &OrderGateway{pool: pool, limit: limit, now: time.Now}
}

const orderColumns = `id, order_number, status, estimated_ready_time, total::float8, restaurant_id, customer_id, created_at`

// ListOrders — заказы в области роли: арендатор, клиент (для роли customer) и набор статусов.
// Свежие первыми.
func (g *OrderGateway) ListOrders(ctx context.Context, scope domain.Scope) ([]domain.Order, error) {
	if scope.Role == domain.RoleCustomer && scope.CustomerID == "" {
		return nil, fmt.Errorf("list orders: %w: customer id is required", domain.ErrUnauthorized)
	}

	statuses := make([]string, len(scope.StatusFilter))
	for i, s := range scope.StatusFilter {
		statuses[i] = string(s)
	}

	rows, err := g.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE ($1 = '' OR restaurant_id = $1)
		  AND ($2 = '' OR customer_id = $2)
		  AND (cardinality($3::text[]) = 0 OR status = ANY($3::text[]))
		ORDER BY created_at DESC, id DESC
		LIMIT $4
	`, scope.TenantID, scope.CustomerID, statuses, g.limit)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w: %v", domain.ErrTransport, err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, 32)
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.Status, &o.EstimatedReadyTime, &o.Total,
			&o.RestaurantID, &o.CustomerID, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w: %v", domain.ErrTransport, err)
	}
	return orders, nil
}

// UpdateOrderStatus — меняет статус в транзакции с блокировкой строки.
// Сервер здесь — сама база: переход допускается только из статуса,
// для которого он корректен, иначе RejectedError{illegal_transition}.
// При переходе в preparing с минутами время готовности считается от текущего момента.
func (g *OrderGateway) UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status, extra *domain.StatusExtra) error {
	transaction, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w: %v", domain.ErrTransport, err)
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	var current domain.Status
	err = transaction.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.RejectedError{Reason: "not_found"}
	}
	if err != nil {
		return fmt.Errorf("select order status: %w: %v", domain.ErrTransport, err)
	}
	if !domain.CanDisplayTransition(current, status) {
		return &domain.RejectedError{Reason: "illegal_transition"}
	}

	var eta *time.Time
	if status == domain.StatusPreparing && extra != nil && extra.PreparationMinutes > 0 {
		t := g.now().UTC().Add(time.Duration(extra.PreparationMinutes) * time.Minute)
		eta = &t
	}

	if _, err = transaction.Exec(ctx, `
		UPDATE orders SET
			status = $2,
			estimated_ready_time = CASE
				WHEN $2 = 'preparing' THEN COALESCE($3::timestamptz, estimated_ready_time)
				ELSE NULL
			END,
			updated_at = now()
		WHERE id = $1
	`, orderID, string(status), eta); err != nil {
		return fmt.Errorf("update order status: %w: %v", domain.ErrTransport, err)
	}

	if err = transaction.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w: %v", domain.ErrTransport, err)
	}
	return nil
}
