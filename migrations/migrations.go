// Package migrations holds the embedded schema files applied at startup by
// pkg/database.RunMigrations.
package migrations

import "embed"

//go:embed *.up.sql
var Files embed.FS
