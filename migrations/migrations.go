// Package migrations embeds the schema migrations for the SQL backends.
package migrations

import "embed"

// FS holds one subdirectory per SQL dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
