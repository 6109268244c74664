// Package migrations embeds the PostgreSQL schema for the server.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
