package validate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Gunvolt24/order-sync/internal/domain"
	"github.com/Gunvolt24/order-sync/internal/ports"
)

// Проверка, что OrderValidator удовлетворяет интерфейсу OrderValidator.
var _ ports.OrderValidator = (*OrderValidator)(nil)

// ErrInvalidOrder — базовая (sentinel error) ошибка валидации записи заказа от сервера.
var ErrInvalidOrder = errors.New("order validation failed")

// OrderValidator — проверка записи заказа перед попаданием в снимок.
// Неизвестный статус ошибкой не является: он отображается как есть.
type OrderValidator struct{}

// NewOrderValidator — конструктор OrderValidator.
// Возвращает ErrInvalidOrder (с обёрнутой причиной) при любой проблеме.
func NewOrderValidator() *OrderValidator { return &OrderValidator{} }

// Validate — проверяет поля, без которых заказ нельзя ни ключевать, ни отфильтровать.
// Статус не проверяется: пустой или неизвестный показывается как есть.
func (v *OrderValidator) Validate(_ context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("%w: order is nil", ErrInvalidOrder)
	}
	if strings.TrimSpace(order.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidOrder)
	}
	if math.IsNaN(order.Total) || order.Total < 0 {
		return fmt.Errorf("%w: total must be non-negative (order %s)", ErrInvalidOrder, order.ID)
	}
	return nil
}

// ParsePreparationMinutes — разбирает введённое время приготовления: только положительное целое.
func ParsePreparationMinutes(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("%w: preparation minutes are empty", domain.ErrInvalidInput)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: preparation minutes %q are not a positive integer", domain.ErrInvalidInput, raw)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: preparation minutes %q: %v", domain.ErrInvalidInput, raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: preparation minutes must be positive", domain.ErrInvalidInput)
	}
	return n, nil
}

// StatusExtra — проверка параметров смены статуса; nil допустим.
func StatusExtra(extra *domain.StatusExtra) error {
	if extra == nil {
		return nil
	}
	if extra.PreparationMinutes <= 0 {
		return fmt.Errorf("%w: preparation minutes must be positive, got %d", domain.ErrInvalidInput, extra.PreparationMinutes)
	}
	return nil
}
