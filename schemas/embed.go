// Package schemas provides embedded SQL migration files.
package schemas

import "embed"

// Migrations contains the custom dictionary and user term migrations,
// applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS
