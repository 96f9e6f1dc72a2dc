package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL manages databases on a MySQL server through database/sql with the
// go-sql-driver driver. The driver executes one statement per Exec call,
// which is why callers feed it pre-split statements.
type MySQL struct{}

// CreateDatabase implements Engine.
func (m *MySQL) CreateDatabase(ctx context.Context, adminDSN, dbName string) error {
	db, err := open(adminDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE DATABASE "+mysqlQuote(dbName)); err != nil {
		return fmt.Errorf("create database %q: %w", dbName, err)
	}
	return nil
}

// DropDatabase implements Engine.
func (m *MySQL) DropDatabase(ctx context.Context, adminDSN, dbName string, ifExists bool) error {
	query := "DROP DATABASE "
	if ifExists {
		query += "IF EXISTS "
	}
	query += mysqlQuote(dbName)

	db, err := open(adminDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("drop database %q: %w", dbName, err)
	}
	return nil
}

// Exec implements Engine.
func (m *MySQL) Exec(ctx context.Context, dsn string, statements []string) error {
	db, err := open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute %q: %w", preview(stmt), err)
		}
	}
	return nil
}

func open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	return db, nil
}

// mysqlQuote quotes an identifier with backticks, doubling embedded ones.
func mysqlQuote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var _ Engine = (*MySQL)(nil)
