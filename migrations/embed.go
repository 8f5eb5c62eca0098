// Package migrations embeds the SQL schema into the binary.
//
// Importing it for side effects registers the files with the database
// package, so Migrate can create the location and weather tables without
// the SQL files on disk.
package migrations

import (
	"embed"

	"github.com/ceulain/sunshine-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // Files are at root of embedded FS
}
