// Package engine implements the per-backend capability set used to manage
// ephemeral databases: create, drop, and statement execution.
//
// Engines are stateless; every operation opens a fresh connection and
// releases it before returning. CREATE/DROP DATABASE is server-level DDL
// issued against the backend's administrative database, which the caller
// encodes into adminDSN.
package engine

import "context"

// Engine is implemented once per supported backend.
type Engine interface {
	// CreateDatabase creates dbName. A duplicate name must surface as an
	// error so the provisioning loop can retry with the next candidate.
	CreateDatabase(ctx context.Context, adminDSN, dbName string) error

	// DropDatabase removes dbName. With ifExists set, a database that is
	// already gone is not an error.
	DropDatabase(ctx context.Context, adminDSN, dbName string, ifExists bool) error

	// Exec runs the given statements sequentially on a fresh connection
	// to dsn.
	Exec(ctx context.Context, dsn string, statements []string) error
}
