package tmpdb

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/vvka-141/tmpdb/internal/name"
)

// DSN is the connection tuple handed to collaborating tools: a
// driver-style connection string, optional credentials, and an option map.
// User and Password are pointers so an absent credential stays
// distinguishable from an empty one.
type DSN struct {
	ConnString string
	User       *string
	Password   *string
	Options    map[string]string
}

// controlParams are query parameters consumed by this package itself. They
// steer provisioning and cloud authentication and are never forwarded to a
// driver or into a DSN option map.
var controlParams = map[string]bool{
	"auth":          true,
	"region":        true,
	"instance":      true,
	"tenant_id":     true,
	"client_id":     true,
	"client_secret": true,
}

// clientParams are option-map keys consumed by database client layers, not
// by the server protocol. They ride in DSN.Options for collaborators but
// must not leak into the connection string a driver parses.
var clientParams = map[string]bool{
	"AutoCommit":          true,
	"AutoInactiveDestroy": true,
	"PrintError":          true,
	"RaiseError":          true,
	"mysql_enable_utf8":   true,
	"sqlite_unicode":      true,
}

// BuildDSN maps a source URL plus a resolved database name onto the DSN
// tuple for the given backend.
//
// Query parameters on the URL are carried into the option map. Client-layer
// defaults are applied only where the caller did not already specify the
// key: AutoCommit=1, AutoInactiveDestroy=1, PrintError=0, RaiseError=1,
// plus mysql_enable_utf8=1 for MySQL and sqlite_unicode=1 for SQLite. A
// `service` parameter on a PostgreSQL URL is folded into the connection
// string instead of the option map. For SQLite the connection string
// references the database file under dir (defaulting to the system temp
// directory); there are no host, port, or credentials.
func BuildDSN(backend Backend, u *url.URL, dbName, dir string) (DSN, error) {
	d := DSN{Options: map[string]string{
		"AutoCommit":          "1",
		"AutoInactiveDestroy": "1",
		"PrintError":          "0",
		"RaiseError":          "1",
	}}

	var parts []string
	switch backend {
	case BackendSQLite:
		d.Options["sqlite_unicode"] = "1"
		parts = []string{"dbname=" + name.FilePath(dir, dbName)}
	case BackendPostgres, BackendMySQL:
		if backend == BackendMySQL {
			d.Options["mysql_enable_utf8"] = "1"
		}
		parts = []string{"dbname=" + dbName}
		if h := u.Hostname(); h != "" {
			parts = append(parts, "host="+h)
		}
		if p := u.Port(); p != "" {
			parts = append(parts, "port="+p)
		}
		if u.User != nil {
			user := u.User.Username()
			d.User = &user
			if pw, ok := u.User.Password(); ok {
				d.Password = &pw
			}
		}
	default:
		return DSN{}, fmt.Errorf("build dsn for %q: %w", backend, ErrUnsupportedBackend)
	}

	for key, values := range u.Query() {
		if controlParams[key] {
			continue
		}
		if key == "service" && backend == BackendPostgres {
			parts = append(parts, "service="+values[0])
			continue
		}
		d.Options[key] = values[0]
	}

	d.ConnString = strings.Join(parts, ";")
	return d, nil
}

// driverDSN builds the connection string the backend's actual driver
// parses, pointed at dbName. Control and client-layer parameters are
// stripped; everything else on the source URL passes through.
func driverDSN(backend Backend, u *url.URL, dbName, dir string) string {
	switch backend {
	case BackendPostgres:
		v := *u
		v.Scheme = "postgres"
		v.Path = "/" + dbName
		v.RawQuery = driverQuery(u)
		return v.String()

	case BackendMySQL:
		var sb strings.Builder
		if u.User != nil {
			sb.WriteString(u.User.Username())
			if pw, ok := u.User.Password(); ok {
				sb.WriteString(":" + pw)
			}
			sb.WriteByte('@')
		}
		host := u.Hostname()
		if host == "" {
			host = "127.0.0.1"
		}
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		fmt.Fprintf(&sb, "tcp(%s:%s)/%s", host, port, dbName)
		if q := driverQuery(u); q != "" {
			sb.WriteString("?" + q)
		}
		return sb.String()

	case BackendSQLite:
		return name.FilePath(dir, dbName)
	}
	return ""
}

func driverQuery(u *url.URL) string {
	q := u.Query()
	for key := range q {
		if controlParams[key] || clientParams[key] {
			q.Del(key)
		}
	}
	return q.Encode()
}
