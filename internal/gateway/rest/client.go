// Package rest — шлюз к удалённому API заказов поверх HTTP/JSON.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
	"github.com/Gunvolt24/order-sync/pkg/ctxmeta"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Проверка, что Client удовлетворяет порту шлюза заказов.
var _ ports.OrderGateway = (*Client)(nil)

// maxErrorBody — сколько байт тела ответа читать при разборе ошибки.
const maxErrorBody = 64 << 10

// Config — параметры клиента.
type Config struct {
	BaseURL string
	Token   string        // bearer-токен; пустой — без заголовка Authorization
	Timeout time.Duration // таймаут одного запроса
}

// Client — реализация ports.OrderGateway через REST API.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
	log   ports.Logger
}

// New — конструктор. Транспорт обёрнут otelhttp, чтобы запросы попадали в трассы.
func New(cfg Config, log ports.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("rest gateway: %w: invalid base url %q", domain.ErrInvalidInput, cfg.BaseURL)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:  base,
		token: cfg.Token,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}, nil
}

// statusBody — тело запроса смены статуса.
type statusBody struct {
	Status             domain.Status `json:"status"`
	PreparationMinutes int           `json:"preparation_minutes,omitempty"`
}

// errorBody — тело ответа с ошибкой.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ListOrders — GET {base}/orders с областью роли, арендатора и фильтром статусов.
func (c *Client) ListOrders(ctx context.Context, scope domain.Scope) ([]domain.Order, error) {
	q := url.Values{}
	q.Set("role", string(scope.Role))
	if scope.TenantID != "" {
		q.Set("restaurant_id", scope.TenantID)
	}
	if scope.CustomerID != "" {
		q.Set("customer_id", scope.CustomerID)
	}
	if len(scope.StatusFilter) > 0 {
		parts := make([]string, len(scope.StatusFilter))
		for i, s := range scope.StatusFilter {
			parts[i] = string(s)
		}
		q.Set("status", strings.Join(parts, ","))
	}

	resp, err := c.do(ctx, http.MethodGet, c.endpoint(q, "orders"), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := classify(resp); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	var orders []domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("list orders: %w: decode response: %v", domain.ErrTransport, err)
	}
	return orders, nil
}

// UpdateOrderStatus — PATCH {base}/orders/{id}/status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.Status, extra *domain.StatusExtra) error {
	body := statusBody{Status: status}
	if extra != nil {
		body.PreparationMinutes = extra.PreparationMinutes
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPatch, c.endpoint(nil, "orders", orderID, "status"), raw)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := classify(resp); err != nil {
		return fmt.Errorf("update order %s status: %w", orderID, err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	return nil
}

func (c *Client) endpoint(q url.Values, segments ...string) string {
	u := *c.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	raw := strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	u.Path, _ = url.PathUnescape(raw)
	u.RawPath = raw
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", method, target, domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", rid)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		c.log.Warnf(ctx, "order api request failed method=%s url=%s: %v", method, target, err)
		return nil, fmt.Errorf("%s %s: %w: %v", method, target, domain.ErrTransport, err)
	}
	c.log.Infof(ctx, "order api method=%s url=%s status=%d took=%s", method, target, resp.StatusCode, time.Since(start))
	return resp, nil
}

// classify — код ответа в ошибку домена:
// 401/403 — ErrUnauthorized; 400/404/409/422 — RejectedError с причиной из тела;
// прочие не-2xx — ErrTransport.
func classify(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: http %d", domain.ErrUnauthorized, code)
	case code == http.StatusBadRequest || code == http.StatusNotFound ||
		code == http.StatusConflict || code == http.StatusUnprocessableEntity:
		return &domain.RejectedError{Reason: rejectReason(resp)}
	default:
		return fmt.Errorf("%w: http %d", domain.ErrTransport, code)
	}
}

func rejectReason(resp *http.Response) string {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(raw) > 0 && json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return fmt.Sprintf("http_%d", resp.StatusCode)
}
