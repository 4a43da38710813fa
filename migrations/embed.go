// Package migrations embeds the SQL migration files so goose can apply them
// at server startup and from integration tests.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Pass it to goose.NewProvider instead of a filesystem path.
//
//go:embed *.sql
var FS embed.FS
