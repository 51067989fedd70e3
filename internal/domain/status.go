package domain

// Status — статус заказа. Неизвестные значения сохраняются как есть.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusOnDelivery Status = "on_delivery"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// progress — позиция статуса на основной цепочке; пропуски допустимы,
// опрос может не застать промежуточные состояния.
var progress = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusPreparing:  2,
	StatusReady:      3,
	StatusOnDelivery: 4,
	StatusCompleted:  5,
}

// AllStatuses — канонический набор статусов в порядке жизненного цикла.
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOnDelivery, StatusCompleted, StatusCancelled, StatusRejected,
	}
}

// IsKnown — статус входит в канонический набор.
func (s Status) IsKnown() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOnDelivery, StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// IsTerminal — статус конечный. Неизвестный статус конечным не считается.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// CanDisplayTransition — допустим ли переход для отображения.
// Сервер остаётся источником истины; неизвестный статус не может быть ни началом, ни концом перехода.
func CanDisplayTransition(from, to Status) bool {
	if !from.IsKnown() || !to.IsKnown() || from == to || from.IsTerminal() {
		return false
	}
	switch to {
	case StatusCancelled:
		return true
	case StatusRejected:
		return from == StatusPending || from == StatusConfirmed
	}
	return progress[to] > progress[from]
}

// ClientRequestable — статусы, которые администратор может запросить у сервера.
func ClientRequestable(to Status) bool {
	switch to {
	case StatusConfirmed, StatusPreparing, StatusReady, StatusOnDelivery,
		StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

// CountdownApplies — для заказа имеет смысл обратный отсчёт:
// только preparing с заданным временем готовности (устаревшие данные игнорируем).
func CountdownApplies(o *Order) bool {
	return o != nil && o.Status == StatusPreparing && o.EstimatedReadyTime != nil
}
