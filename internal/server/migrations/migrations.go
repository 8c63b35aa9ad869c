// Package migrations embeds the server's SQL schema migrations. They are
// applied at startup through goose (see repomanager.RunMigrations).
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
