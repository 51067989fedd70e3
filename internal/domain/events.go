package domain

import "time"

// Role — роль пользователя сессии.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid — роль известна.
func (r Role) Valid() bool { return r == RoleCustomer || r == RoleAdmin }

// Scope — область выборки заказов для роли и арендатора (ресторана).
type Scope struct {
	Role         Role
	TenantID     string
	CustomerID   string
	StatusFilter []Status
}

// TransitionEvent — обнаруженная смена статуса между двумя снимками.
type TransitionEvent struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	From        Status    `json:"from_status"`
	To          Status    `json:"to_status"`
	ObservedAt  time.Time `json:"observed_at"`
	Legal       bool      `json:"legal"`
}

// NotificationKind — тип уведомления.
type NotificationKind string

const (
	NotificationNewOrder NotificationKind = "new_order"
	NotificationMessage  NotificationKind = "message"
	NotificationReview   NotificationKind = "review"
	NotificationStatus   NotificationKind = "status"
)

// Notification — уведомление; живёт до явного удаления, в пределах сессии.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	OrderID   string           `json:"order_id,omitempty"`
	Title     string           `json:"title"`
	Body      string           `json:"body,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
}

// BannerKind — тип баннера.
type BannerKind string

const (
	BannerTransition BannerKind = "transition"
	BannerNewOrder   BannerKind = "new_order"
)

// Banner — единственный слот оповещения о последнем изменении.
type Banner struct {
	Kind    BannerKind      `json:"kind"`
	Event   TransitionEvent `json:"event"`
	ShownAt time.Time       `json:"shown_at"`
}

// UpdateKind — тип записи для подписчиков.
type UpdateKind string

const (
	UpdateTransition     UpdateKind = "transition"
	UpdateNotification   UpdateKind = "notification"
	UpdateBanner         UpdateKind = "banner"
	UpdateSyncFailed     UpdateKind = "sync_failed"
	UpdateMutationFailed UpdateKind = "mutation_failed"
	UpdateCountdown      UpdateKind = "countdown"
)

// Update — то, что получает подписчик движка.
type Update struct {
	Kind         UpdateKind        `json:"kind"`
	OrderID      string            `json:"order_id,omitempty"`
	Transition   *TransitionEvent  `json:"transition,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	Banner       *Banner           `json:"banner,omitempty"`
	Countdown    map[string]string `json:"countdown,omitempty"` // id заказа -> остаток
	Err          error             `json:"-"`
	Error        string            `json:"error,omitempty"`
	At           time.Time         `json:"at"`
}

// CycleResult — итог одного успешного цикла опроса.
type CycleResult struct {
	First   bool              // первый цикл после (пере)запуска, события не считались
	Orders  []Order           // живой снимок после наложения мутаций
	Events  []TransitionEvent // в порядке id заказа
	Expired []PendingMutation // мутации, так и не получившие ответа
	At      time.Time
}
