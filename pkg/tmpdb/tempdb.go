package tmpdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/vvka-141/tmpdb/internal/cloudauth"
	"github.com/vvka-141/tmpdb/internal/config"
	"github.com/vvka-141/tmpdb/internal/engine"
	"github.com/vvka-141/tmpdb/internal/guard"
	"github.com/vvka-141/tmpdb/internal/name"
	"github.com/vvka-141/tmpdb/internal/retry"
	"github.com/vvka-141/tmpdb/internal/sqlsplit"
)

// TempDB is the handle for one temporary database. Create it with New,
// release it with Close. Methods are safe for concurrent use, though the
// expected pattern is one handle per test process used sequentially.
type TempDB struct {
	rawURL     string
	url        *url.URL
	backend    Backend
	cfg        *Config
	env        config.Env
	engine     engine.Engine
	closeAuth  func() error
	controller guard.Controller
	nameInfo   name.Info

	mu        sync.Mutex
	name      string
	created   bool
	dropped   bool
	closed    bool
	guarded   bool
	guardPipe io.Closer
}

// New builds a handle for the server at rawURL. The scheme selects the
// backend (postgres, mysql, sqlite). With a nil cfg the defaults apply and
// the database is provisioned before New returns; pass a Config with
// AutoCreate false to defer provisioning to an explicit Create call.
func New(ctx context.Context, rawURL string, cfg *Config) (*TempDB, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	backend, err := ParseBackend(u.Scheme)
	if err != nil {
		return nil, err
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}
	env := config.FromEnv()
	cfg = cfg.withDefaults(env)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	eng, closeAuth, err := newEngine(ctx, backend, u)
	if err != nil {
		return nil, err
	}

	t := &TempDB{
		rawURL:     rawURL,
		url:        u,
		backend:    backend,
		cfg:        cfg,
		env:        env,
		engine:     eng,
		closeAuth:  closeAuth,
		controller: &guard.ExecController{Debug: env.Debug},
		nameInfo:   name.HostInfo(),
	}

	if cfg.AutoCreate {
		if err := t.Create(ctx); err != nil {
			t.releaseAuth()
			return nil, err
		}
	}
	return t, nil
}

// Create provisions the database. It generates candidate names from the
// template, keyed by the shared sequence so sibling handles never reuse an
// index, and treats a rejected CREATE as a collision to retry. Calling
// Create on an already provisioned handle is a no-op.
func (t *TempDB) Create(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.created {
		return nil
	}

	// A template that cannot be shortened under the length ceiling will
	// fail the same way for every index, so it is not worth retrying.
	classifier := retry.TransientFunc(func(err error) bool {
		return !errors.Is(err, name.ErrTooLong)
	})
	executor := retry.NewExecutor(classifier, retry.Immediate{Retries: t.cfg.MaxAttempts - 1})

	var lastName string
	attempt := func(ctx context.Context) error {
		idx := t.cfg.Sequence.Next()
		candidate, err := t.generate(idx)
		if err != nil {
			return err
		}
		lastName = candidate
		t.cfg.Logger.Verbose("creating database %q (index %d)", candidate, idx)
		if err := t.engine.CreateDatabase(ctx, t.adminDSN(), t.engineName(candidate)); err != nil {
			return err
		}
		t.name = candidate
		return nil
	}

	if err := executor.Execute(ctx, attempt); err != nil {
		if errors.Is(err, name.ErrTooLong) {
			return err
		}
		return fmt.Errorf("%w after %d attempts (last candidate %q): %w",
			ErrCreateExhausted, t.cfg.MaxAttempts, lastName, err)
	}
	t.created = true
	t.dropped = false

	resolved := t.resolvedURL(t.name)
	if err := os.Setenv(config.EnvURL, resolved); err != nil {
		t.cfg.Logger.Error("publish %s: %v", config.EnvURL, err)
	}
	t.cfg.Logger.Verbose("created database %q", t.name)

	t.armGuard()
	return nil
}

// Name returns the generated database name. Fails before the handle
// reaches the created state.
func (t *TempDB) Name() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return "", fmt.Errorf("name: %w", ErrNotCreated)
	}
	return t.name, nil
}

// URL returns the source URL resolved to point at the created database.
// This is the same value published to TMPDB_URL.
func (t *TempDB) URL() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return "", fmt.Errorf("url: %w", ErrNotCreated)
	}
	return t.resolvedURL(t.name), nil
}

// DSN returns the connection tuple for the created database.
func (t *TempDB) DSN() (DSN, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.created {
		return DSN{}, fmt.Errorf("dsn: %w", ErrNotCreated)
	}
	return BuildDSN(t.backend, t.url, t.name, t.cfg.TempDir)
}

// Execute runs the given SQL against the created database. MySQL scripts
// are split into individual statements first, since its driver refuses
// multi-statement batches; the other backends execute scripts natively.
func (t *TempDB) Execute(ctx context.Context, statements ...string) error {
	t.mu.Lock()
	if !t.created {
		t.mu.Unlock()
		return fmt.Errorf("execute: %w", ErrNotCreated)
	}
	dbName := t.name
	t.mu.Unlock()

	var stmts []string
	for _, s := range statements {
		if t.backend == BackendMySQL {
			stmts = append(stmts, sqlsplit.Split(s)...)
		} else {
			stmts = append(stmts, s)
		}
	}

	dsn := driverDSN(t.backend, t.url, dbName, t.cfg.TempDir)
	if err := t.engine.Exec(ctx, dsn, stmts); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return nil
}

// ExecuteFile reads a SQL file and runs it through Execute. A relative
// path is resolved against the directory of the calling source file, so
// tests can name fixtures next to themselves.
func (t *TempDB) ExecuteFile(ctx context.Context, path string) error {
	if !filepath.IsAbs(path) {
		_, caller, _, ok := runtime.Caller(1)
		if !ok {
			return fmt.Errorf("resolve %q: calling file unknown", path)
		}
		path = filepath.Join(filepath.Dir(caller), path)
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sql file: %w", err)
	}
	return t.Execute(ctx, string(blob))
}

// Drop removes this handle's own database. A database that is already
// gone is not an error, so Drop is safe to call repeatedly. Before
// creation it is a no-op.
func (t *TempDB) Drop(ctx context.Context) error {
	t.mu.Lock()
	if !t.created {
		t.mu.Unlock()
		return nil
	}
	dbName := t.name
	t.mu.Unlock()

	if err := t.engine.DropDatabase(ctx, t.adminDSN(), t.engineName(dbName), true); err != nil {
		return fmt.Errorf("%w: %w", ErrDropFailed, err)
	}
	t.mu.Lock()
	t.dropped = true
	t.mu.Unlock()
	return nil
}

// DropNamed removes an explicitly named database on the same server. The
// caller asked for this specific database, so a missing one is an error
// here, unlike Drop and Sweep.
func (t *TempDB) DropNamed(ctx context.Context, dbName string) error {
	if err := t.engine.DropDatabase(ctx, t.adminDSN(), t.engineName(dbName), false); err != nil {
		return fmt.Errorf("%w: %w", ErrDropFailed, err)
	}
	return nil
}

// Sweep drops this handle's database plus every sibling name the shared
// sequence could have produced for the same template, cleaning up orphans
// from earlier runs of this process. The sweep is best effort: only names
// within the sequence's current range are reachable, per-sibling failures
// are tolerated, and the call fails only when every attempt failed.
func (t *TempDB) Sweep(ctx context.Context) error {
	high := t.cfg.Sequence.High()
	seen := make(map[string]bool)
	var errs []error
	succeeded := false

	for idx := 0; idx <= high; idx++ {
		candidate, err := t.generate(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[candidate] {
			continue
		}
		seen[candidate] = true

		if err := t.engine.DropDatabase(ctx, t.adminDSN(), t.engineName(candidate), true); err != nil {
			t.cfg.Logger.Verbose("sweep: dropping %q failed: %v", candidate, err)
			errs = append(errs, err)
			continue
		}
		succeeded = true
	}

	if !succeeded && len(errs) > 0 {
		return fmt.Errorf("%w: all %d sweep candidates failed: %w", ErrDropFailed, len(errs), errors.Join(errs...))
	}
	t.mu.Lock()
	if t.created {
		t.dropped = true
	}
	t.mu.Unlock()
	return nil
}

// Close tears the handle down. When a cleanup watcher is armed the watcher
// owns the drop; Close only releases the pipe write end, which is what
// triggers a pipe watcher. With TMPDB_KEEP_DATABASE set the database
// survives and its URL is logged unless TMPDB_SILENT is also set.
// Otherwise the database is dropped synchronously and any failure is
// returned, because leaking databases across test runs quietly is the
// worst failure mode.
func (t *TempDB) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	guarded := t.guarded
	pipe := t.guardPipe
	created, dropped := t.created, t.dropped
	dbName := t.name
	t.mu.Unlock()

	defer t.releaseAuth()

	if guarded {
		if pipe != nil {
			return pipe.Close()
		}
		return nil
	}
	if t.env.Keep {
		if created && !t.env.Silent {
			t.cfg.Logger.Info("keeping database %q (%s)", dbName, t.resolvedURL(dbName))
		}
		return nil
	}
	if created && !dropped {
		if err := t.Drop(context.Background()); err != nil {
			t.cfg.Logger.Error("dropping %q on close failed: %v", dbName, err)
			return err
		}
	}
	return nil
}

// DropDatabase removes dbName on the server at rawURL with if-exists
// semantics. It is the standalone drop primitive used by the guard helper,
// which runs in a process that never had a handle. For SQLite, dbName is
// the database file path.
func DropDatabase(ctx context.Context, rawURL, dbName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	backend, err := ParseBackend(u.Scheme)
	if err != nil {
		return err
	}
	eng, closeAuth, err := newEngine(ctx, backend, u)
	if err != nil {
		return err
	}
	if closeAuth != nil {
		defer func() { _ = closeAuth() }()
	}

	adminDSN := ""
	if backend != BackendSQLite {
		adminDSN = driverDSN(backend, u, backend.adminDatabase(), "")
	}
	if err := eng.DropDatabase(ctx, adminDSN, dbName, true); err != nil {
		return fmt.Errorf("%w: %w", ErrDropFailed, err)
	}
	return nil
}

// Exec runs a SQL script against the database the URL already names: the
// path component for servers, the file path for SQLite. It is the
// standalone execution primitive behind the exec command; handles created
// in-process use Execute instead.
func Exec(ctx context.Context, rawURL, script string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	backend, err := ParseBackend(u.Scheme)
	if err != nil {
		return err
	}
	eng, closeAuth, err := newEngine(ctx, backend, u)
	if err != nil {
		return err
	}
	if closeAuth != nil {
		defer func() { _ = closeAuth() }()
	}

	statements := []string{script}
	if backend == BackendMySQL {
		statements = sqlsplit.Split(script)
	}

	var dsn string
	if backend == BackendSQLite {
		dsn = u.Path
		if u.Opaque != "" {
			dsn = u.Opaque
		}
		if dsn == "" {
			return fmt.Errorf("url %q names no database file: %w", rawURL, ErrInvalidConfig)
		}
	} else {
		dbName := strings.TrimPrefix(u.Path, "/")
		if dbName == "" {
			return fmt.Errorf("url %q names no database: %w", rawURL, ErrInvalidConfig)
		}
		dsn = driverDSN(backend, u, dbName, "")
	}

	if err := eng.Exec(ctx, dsn, statements); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return nil
}

func (t *TempDB) generate(retryIndex int) (string, error) {
	if t.cfg.KeepLongName {
		return name.GenerateAny(t.cfg.Template, t.nameInfo, retryIndex), nil
	}
	return name.Generate(t.cfg.Template, t.nameInfo, retryIndex)
}

// engineName maps a generated name to the identifier the engine operates
// on: the name itself for servers, the database file path for SQLite.
func (t *TempDB) engineName(dbName string) string {
	if t.backend == BackendSQLite {
		return name.FilePath(t.cfg.TempDir, dbName)
	}
	return dbName
}

// adminDSN is the driver connection string for the administrative
// database, through which CREATE/DROP DATABASE is issued.
func (t *TempDB) adminDSN() string {
	if t.backend == BackendSQLite {
		return ""
	}
	db := t.cfg.AdminDatabase
	if db == "" {
		db = t.backend.adminDatabase()
	}
	return driverDSN(t.backend, t.url, db, "")
}

// resolvedURL is the source URL pointed at dbName, the form published to
// TMPDB_URL and returned by URL.
func (t *TempDB) resolvedURL(dbName string) string {
	v := *t.url
	if t.backend == BackendSQLite {
		v.Host = ""
		v.Path = name.FilePath(t.cfg.TempDir, dbName)
	} else {
		v.Path = "/" + dbName
	}
	return v.String()
}

// armGuard spawns the configured cleanup watcher. Called with t.mu held,
// after a successful create. A watcher that cannot be started degrades to
// no guard with a logged error; synchronous teardown in Close still
// applies.
func (t *TempDB) armGuard() {
	if t.cfg.Cleanup == CleanupNone {
		return
	}
	helper, err := guard.FindHelper(t.env.Helper)
	if err != nil {
		t.cfg.Logger.Error("cleanup watcher disabled: %v", err)
		return
	}

	guardName := t.engineName(t.name)
	switch t.cfg.Cleanup {
	case CleanupPipe:
		pipe, err := t.controller.StartPipeWatcher(helper, guard.PipeArgs(t.rawURL, guardName))
		if err != nil {
			t.cfg.Logger.Error("cleanup watcher disabled: %v", err)
			return
		}
		t.guardPipe = pipe
	case CleanupDetach:
		args := guard.DetachArgs(t.rawURL, guardName, os.Getpid(), t.cfg.GuardInterval)
		if err := t.controller.StartDetached(helper, args); err != nil {
			t.cfg.Logger.Error("cleanup watcher disabled: %v", err)
			return
		}
	}
	t.guarded = true
	t.cfg.Logger.Verbose("armed %s cleanup watcher for %q", t.cfg.Cleanup, t.name)
}

func (t *TempDB) releaseAuth() {
	if t.closeAuth == nil {
		return
	}
	if err := t.closeAuth(); err != nil {
		t.cfg.Logger.Error("release auth resources: %v", err)
	}
	t.closeAuth = nil
}

// newEngine builds the engine for a backend, wiring cloud IAM credentials
// for PostgreSQL when the URL carries an auth= parameter. The returned
// cleanup, when non-nil, releases auth resources once the engine is done.
func newEngine(ctx context.Context, backend Backend, u *url.URL) (engine.Engine, func() error, error) {
	switch backend {
	case BackendMySQL:
		return &engine.MySQL{}, nil, nil
	case BackendSQLite:
		return &engine.SQLite{}, nil, nil
	case BackendPostgres:
	default:
		return nil, nil, fmt.Errorf("backend %q: %w", backend, ErrUnsupportedBackend)
	}

	pg := &engine.Postgres{}
	q := u.Query()
	switch method := q.Get("auth"); method {
	case "":
	case cloudauth.MethodAWSIAM:
		user := ""
		if u.User != nil {
			user = u.User.Username()
		}
		endpoint := u.Host
		if u.Port() == "" {
			endpoint = u.Hostname() + ":5432"
		}
		provider, err := cloudauth.NewAWSTokenProvider(endpoint, q.Get("region"), user)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		pg.Token = provider.Token
	case cloudauth.MethodAzure:
		provider, err := cloudauth.NewAzureTokenProvider(q.Get("tenant_id"), q.Get("client_id"), q.Get("client_secret"))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		pg.Token = provider.Token
	case cloudauth.MethodGoogle:
		dial, cleanup, err := cloudauth.NewCloudSQLDialer(ctx, q.Get("instance"))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		pg.Dial = dial
		return pg, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth method %q: %w", method, ErrInvalidConfig)
	}
	return pg, nil, nil
}
