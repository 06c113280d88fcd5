// Package db embeds the SQL migrations shipped with the gateway.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
