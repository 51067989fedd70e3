package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport — сеть, таймаут, 5xx: временная ошибка, повторяем на следующем тике.
	ErrTransport = errors.New("transport failure")
	// ErrUnauthorized — сервер отказал в доступе (401/403).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput — некорректный локальный ввод; состояние не меняется.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownOrder — заказа нет в текущем снимке.
	ErrUnknownOrder = errors.New("unknown order")
	// ErrForbidden — действие недоступно роли.
	ErrForbidden = errors.New("action not allowed for role")
	// ErrInFlight — цикл опроса уже выполняется, запуск пропущен.
	ErrInFlight = errors.New("sync already in flight")
	// ErrStopped — движок остановлен, результат отброшен.
	ErrStopped = errors.New("engine stopped")
)

// RejectedError — сервер отклонил смену статуса; Reason пригоден для машинной обработки.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("status update rejected: %s", e.Reason)
}

// RejectReason — причина отказа, если err — RejectedError.
func RejectReason(err error) (string, bool) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}
