// Package tmpdb provisions a uniquely named, ephemeral database on a live
// PostgreSQL or MySQL server, or as a throwaway SQLite file, and makes
// sure it is gone again once the owning process ends.
//
// It exists so parallel test suites can each get their own schema without
// coordinating: names are derived from host, process, and time material,
// and a duplicate CREATE is just a signal to try the next candidate.
//
//	db, err := tmpdb.New(ctx, "postgres://postgres@localhost", nil)
//	if err != nil { ... }
//	defer db.Close()
//	err = db.ExecuteFile(ctx, "schema.sql")
//
// Cleanup normally happens in Close. For processes that may die without
// unwinding (crashes, kill -9), a cleanup supervisor can additionally be
// armed via Config.Cleanup; see the guard modes for details.
package tmpdb
