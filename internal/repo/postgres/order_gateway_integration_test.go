//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/order-sync/internal/domain"
	pgrepo "github.com/Gunvolt24/order-sync/internal/repo/postgres"
	"github.com/Gunvolt24/order-sync/internal/testutil"
)

// setup — контейнер Postgres со схемой заказов; пул закрывается вместе с контейнером.
func setup(t *testing.T) (*pgxpool.Pool, context.Context) {
	t.Helper()

	// длинный контекст — только на подъём контейнера
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()

	pg, stopPG, err := testutil.StartPostgres(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })

	// короткий контекст — на сами БД-операции
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return pg.Pool, ctx
}

// 1) Выборка по арендатору, клиенту и статусам; свежие первыми
func TestGateway_ListOrders_Scope_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := setup(t)
	gw := pgrepo.NewOrderGateway(pool, 0)

	base := time.Now().UTC().Add(-time.Hour)
	orders := []domain.Order{
		testutil.MakeOrder(testutil.WithCustomer("c1"), testutil.WithCreatedAt(base)),
		testutil.MakeOrder(testutil.WithCustomer("c1"), testutil.WithStatus(domain.StatusPreparing), testutil.WithCreatedAt(base.Add(time.Minute))),
		testutil.MakeOrder(testutil.WithCustomer("c2"), testutil.WithStatus(domain.StatusReady), testutil.WithCreatedAt(base.Add(2*time.Minute))),
		testutil.MakeOrder(testutil.WithTenant("r2"), testutil.WithCreatedAt(base.Add(3*time.Minute))),
	}
	n, err := testutil.SeedOrders(ctx, pool, orders)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	admin, err := gw.ListOrders(ctx, domain.Scope{Role: domain.RoleAdmin, TenantID: "r1"})
	require.NoError(t, err)
	require.Len(t, admin, 3)
	require.Equal(t, orders[2].ID, admin[0].ID, "newest first")
	require.Equal(t, 42.5, admin[0].Total)

	inProgress, err := gw.ListOrders(ctx, domain.Scope{
		Role: domain.RoleAdmin, TenantID: "r1", StatusFilter: domain.FilterInProgress.Statuses(),
	})
	require.NoError(t, err)
	require.Len(t, inProgress, 2)

	customer, err := gw.ListOrders(ctx, domain.Scope{Role: domain.RoleCustomer, CustomerID: "c1"})
	require.NoError(t, err)
	require.Len(t, customer, 2)
	for _, o := range customer {
		require.Equal(t, "c1", o.CustomerID)
	}

	_, err = gw.ListOrders(ctx, domain.Scope{Role: domain.RoleCustomer})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

// 2) Смена статуса: легальный переход, время готовности, отказы
func TestGateway_UpdateOrderStatus_TC(t *testing.T) {
	t.Parallel()
	pool, ctx := setup(t)
	gw := pgrepo.NewOrderGateway(pool, 0)

	ord := testutil.MakeOrder(testutil.WithStatus(domain.StatusConfirmed))
	require.NoError(t, testutil.UpsertOrder(ctx, pool, &ord))

	before := time.Now().UTC()
	require.NoError(t, gw.UpdateOrderStatus(ctx, ord.ID, domain.StatusPreparing, &domain.StatusExtra{PreparationMinutes: 20}))

	got, err := gw.ListOrders(ctx, domain.Scope{Role: domain.RoleAdmin, TenantID: "r1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, domain.StatusPreparing, got[0].Status)
	require.NotNil(t, got[0].EstimatedReadyTime)
	require.WithinDuration(t, before.Add(20*time.Minute), *got[0].EstimatedReadyTime, 5*time.Second)

	// уход из preparing сбрасывает время готовности
	require.NoError(t, gw.UpdateOrderStatus(ctx, ord.ID, domain.StatusReady, nil))
	got, err = gw.ListOrders(ctx, domain.Scope{Role: domain.RoleAdmin, TenantID: "r1"})
	require.NoError(t, err)
	require.Nil(t, got[0].EstimatedReadyTime)

	// назад по цепочке нельзя
	err = gw.UpdateOrderStatus(ctx, ord.ID, domain.StatusConfirmed, nil)
	reason, ok := domain.RejectReason(err)
	require.True(t, ok, "want RejectedError, got %v", err)
	require.Equal(t, "illegal_transition", reason)

	err = gw.UpdateOrderStatus(ctx, "missing", domain.StatusConfirmed, nil)
	reason, ok = domain.RejectReason(err)
	require.True(t, ok)
	require.Equal(t, "not_found", reason)
}
