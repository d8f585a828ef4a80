// Package migrations holds the SQL schema for every supported dialect.
package migrations

import "embed"

// FS contains one directory of ordered .sql files per dialect.
//
//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
