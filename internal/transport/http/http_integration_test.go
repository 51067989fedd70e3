//go:build integration

package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/order-sync/internal/domain"
	pgrepo "github.com/Gunvolt24/order-sync/internal/repo/postgres"
	"github.com/Gunvolt24/order-sync/internal/testutil"
	rest "github.com/Gunvolt24/order-sync/internal/transport/http"
	"github.com/Gunvolt24/order-sync/internal/usecase"
	"github.com/Gunvolt24/order-sync/pkg/logger"
	"github.com/Gunvolt24/order-sync/pkg/validate"
)

// Полный путь: Postgres -> движок -> HTTP; смена статуса видна в базе и в снимке
func TestHTTP_EngineOverPostgres_TC(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	pg, stop, err := testutil.StartPostgres(ctx)
	require.NoError(t, err)
	defer func() { _ = stop(context.Background()) }()

	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	gw := pgrepo.NewOrderGateway(pg.Pool, 0)
	pending := testutil.MakeOrder()
	foreign := testutil.MakeOrder(testutil.WithTenant("r2"))
	_, err = testutil.SeedOrders(ctx, pg.Pool, []domain.Order{pending, foreign})
	require.NoError(t, err)

	engine, err := usecase.NewSyncEngine(gw, validate.NewOrderValidator(), logg, usecase.Options{
		Scope: domain.Scope{Role: domain.RoleAdmin, TenantID: "r1"},
	})
	require.NoError(t, err)
	engine.Start(time.Hour) // первый цикл сразу, дальше только по /refresh
	defer engine.Stop()

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(engine, logg, 5*time.Second), ""))
	defer ts.Close()

	require.Eventually(t, func() bool { return len(engine.Snapshot()) == 1 }, 10*time.Second, 50*time.Millisecond)

	// 1) только свой ресторан, метка recu
	var orders []domain.Order
	getJSON(t, ts.URL+"/orders?filter=recu", &orders)
	require.Len(t, orders, 1)
	require.Equal(t, pending.ID, orders[0].ID)

	// 2) подтверждение с ожиданием ответа сервера
	resp := postJSON(t, ts.URL+"/orders/"+pending.ID+"/status?wait=true", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(readAll(t, resp.Body)))

	stored, err := gw.ListOrders(ctx, domain.Scope{Role: domain.RoleAdmin, TenantID: "r1"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, stored[0].Status)

	// 3) повтор того же статуса отклоняется базой, снимок сходится обратно
	resp = postJSON(t, ts.URL+"/orders/"+pending.ID+"/status?wait=true", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, string(readAll(t, resp.Body)), "illegal_transition")

	require.Eventually(t, func() bool {
		o, ok := engine.Order(pending.ID)
		return ok && o.Status == domain.StatusConfirmed
	}, 5*time.Second, 50*time.Millisecond)
}

// /ping, /metrics, 404 и 405 без базы
func TestHTTP_Health_Metrics_And_Errors_TC(t *testing.T) {
	logg, cleanup, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	engine, err := usecase.NewSyncEngine(emptyGateway{}, nil, logg, usecase.Options{
		Scope: domain.Scope{Role: domain.RoleCustomer, TenantID: "r1", CustomerID: "c1"},
	})
	require.NoError(t, err)

	ts := httptest.NewServer(rest.NewRouter(rest.NewHandler(engine, logg, time.Second), ""))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	require.Equal(t, "pong", string(readAll(t, resp.Body)))

	respM, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, respM.StatusCode)
	require.NotEmpty(t, readAll(t, respM.Body))

	var got map[string]any
	resp404, err := http.Get(ts.URL + "/no/such/route")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp404.StatusCode)
	require.NoError(t, json.NewDecoder(resp404.Body).Decode(&got))
	_ = resp404.Body.Close()

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/banner", http.NoBody)
	resp405, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp405.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp405.StatusCode)
	require.NoError(t, json.NewDecoder(resp405.Body).Decode(&got))
	require.Equal(t, "method not allowed", got["error"])

	// роль клиента не может менять статус
	respF := postJSON(t, ts.URL+"/orders/x/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusForbidden, respF.StatusCode)
}

type emptyGateway struct{}

func (emptyGateway) ListOrders(context.Context, domain.Scope) ([]domain.Order, error) {
	return nil, nil
}

func (emptyGateway) UpdateOrderStatus(context.Context, string, domain.Status, *domain.StatusExtra) error {
	return nil
}

func getJSON(t *testing.T, url string, dst any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return b
}
