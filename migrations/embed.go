// Package migrations embeds the SQL schema applied at startup and in tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
