// Package migrations embeds the goose migrations for the local SQLite
// database that backs the key-value store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
