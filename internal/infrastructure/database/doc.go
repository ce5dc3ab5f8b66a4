// Package database provides SQLite connectivity for the dashboard core.
//
// It owns the connection lifecycle (WAL mode, busy timeout, file
// permissions) and a small versioned migration runner. Migrations are read
// from any fs.FS, normally the embedded files of the migrations package:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Every query uses parameterised statements.
package database
