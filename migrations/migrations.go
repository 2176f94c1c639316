// Package migrations embeds the Postgres schema so the server binary can
// migrate without a migrations directory next to it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
