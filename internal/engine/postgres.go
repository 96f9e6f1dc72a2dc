package engine

import (
	"context"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5"
)

// Postgres manages databases on a PostgreSQL server via pgx.
type Postgres struct {
	// Dial optionally overrides the network dial. Set when connecting
	// through the Cloud SQL connector, which tunnels by instance name
	// instead of host/port.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)

	// Token optionally supplies a short-lived credential used as the
	// password, fetched fresh for every connection. Set for IAM
	// authentication against managed servers.
	Token func(ctx context.Context) (string, error)
}

// CreateDatabase implements Engine.
func (p *Postgres) CreateDatabase(ctx context.Context, adminDSN, dbName string) error {
	conn, err := p.connect(ctx, adminDSN)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	query := "CREATE DATABASE " + pgx.Identifier{dbName}.Sanitize()
	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("create database %q: %w", dbName, err)
	}
	return nil
}

// DropDatabase implements Engine.
func (p *Postgres) DropDatabase(ctx context.Context, adminDSN, dbName string, ifExists bool) error {
	conn, err := p.connect(ctx, adminDSN)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	query := "DROP DATABASE "
	if ifExists {
		query += "IF EXISTS "
	}
	query += pgx.Identifier{dbName}.Sanitize()
	if _, err := conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("drop database %q: %w", dbName, err)
	}
	return nil
}

// Exec implements Engine. Statements are run without arguments, which puts
// pgx on the simple query protocol and allows multi-statement batches.
func (p *Postgres) Exec(ctx context.Context, dsn string, statements []string) error {
	conn, err := p.connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("execute %q: %w", preview(stmt), err)
		}
	}
	return nil
}

func (p *Postgres) connect(ctx context.Context, dsn string) (*pgx.Conn, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if p.Dial != nil {
		cfg.DialFunc = p.Dial
	}
	if p.Token != nil {
		token, err := p.Token(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch auth token: %w", err)
		}
		cfg.Password = token
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return conn, nil
}

var _ Engine = (*Postgres)(nil)
