// Package migrations — схема таблицы заказов для Postgres-шлюза, встроенная в бинарник.
package migrations

import "embed"

// FS — SQL-миграции goose.
//
//go:embed *.sql
var FS embed.FS
