// Package migrations embeds the SQL schema migrations for medogram.db.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
