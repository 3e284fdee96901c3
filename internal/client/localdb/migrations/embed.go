// Package migrations holds the local store schema steps. Each step only adds
// tables or indexes; none of them has a Down section.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
