package tmpdb

import "fmt"

// Backend identifies the target database engine. The set is closed;
// everything that varies per engine dispatches over it.
type Backend int

const (
	BackendPostgres Backend = iota
	BackendMySQL
	BackendSQLite
)

// ParseBackend maps a URL scheme onto a Backend.
func ParseBackend(scheme string) (Backend, error) {
	switch scheme {
	case "postgres", "postgresql":
		return BackendPostgres, nil
	case "mysql":
		return BackendMySQL, nil
	case "sqlite":
		return BackendSQLite, nil
	}
	return 0, fmt.Errorf("scheme %q: %w", scheme, ErrUnsupportedBackend)
}

// String returns the canonical scheme for the backend.
func (b Backend) String() string {
	switch b {
	case BackendPostgres:
		return "postgres"
	case BackendMySQL:
		return "mysql"
	case BackendSQLite:
		return "sqlite"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// adminDatabase is the always-present database used to issue CREATE/DROP
// DATABASE, since a database cannot be managed from a connection to
// itself. SQLite has no server, hence no administrative database.
func (b Backend) adminDatabase() string {
	switch b {
	case BackendPostgres:
		return "postgres"
	case BackendMySQL:
		return "mysql"
	default:
		return ""
	}
}
