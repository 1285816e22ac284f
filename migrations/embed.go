// Package migrations holds the SQL schema for each supported dialect.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Files embed.FS
