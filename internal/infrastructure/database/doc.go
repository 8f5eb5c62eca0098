// Package database opens the SQLite file that backs the forecast store and
// applies its schema migrations.
//
// The connection is opened with foreign keys enforced and, optionally, WAL
// journaling so that readers are not blocked while a forecast refresh is
// writing. The pool is pinned to one connection because SQLite allows a
// single writer; callers must not hold rows open while issuing another
// statement.
//
// Usage:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are read from MigrationsFS, which the migrations package fills
// from its embedded *.sql files. Each version has an .up.sql and a .down.sql.
package database
