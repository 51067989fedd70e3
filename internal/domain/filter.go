package domain

import (
	"fmt"
	"strings"
)

// Filter — метка фильтра экрана администратора; это представление над тем же набором статусов.
type Filter string

const (
	FilterReceived   Filter = "recu"
	FilterInProgress Filter = "en_cours"
	FilterDelivered  Filter = "livrer"
	FilterCancelled  Filter = "annuler"
	FilterRefused    Filter = "refuse"
	FilterAll        Filter = "all"
)

// filterTable — таблица соответствия меток и статусов. nil — без фильтра.
var filterTable = map[Filter][]Status{
	FilterReceived:   {StatusPending},
	FilterInProgress: {StatusConfirmed, StatusPreparing, StatusReady},
	FilterDelivered:  {StatusOnDelivery, StatusCompleted},
	FilterCancelled:  {StatusCancelled},
	FilterRefused:    {StatusRejected},
	FilterAll:        nil,
}

// ParseFilter — разбирает метку; пустая строка означает all.
func ParseFilter(label string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(label)))
	if f == "" {
		return FilterAll, nil
	}
	if _, ok := filterTable[f]; !ok {
		return "", fmt.Errorf("%w: unknown filter %q", ErrInvalidInput, label)
	}
	return f, nil
}

// Statuses — статусы метки (копия); nil для all.
func (f Filter) Statuses() []Status {
	st := filterTable[f]
	if st == nil {
		return nil
	}
	return append([]Status(nil), st...)
}

// Match — попадает ли статус под фильтр.
func (f Filter) Match(s Status) bool {
	st, ok := filterTable[f]
	if !ok {
		return false
	}
	if st == nil {
		return true
	}
	for _, v := range st {
		if v == s {
			return true
		}
	}
	return false
}
