// Package migrations carries the SQL schema so binaries can migrate without a checkout.
package migrations

import "embed"

// FS holds the numbered up/down migration pairs
//
//go:embed *.sql
var FS embed.FS
