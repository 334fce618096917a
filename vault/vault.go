// Package vault holds the durable state of the jokebox: registered users
// with their salted password hashes, and the jokes they own.
//
// Everything lives in a single sqlite database. The schema is created on
// open, and username uniqueness is enforced by the database itself so two
// concurrent registrations of the same name can never both succeed.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

type (
	// Store gives access to users and jokes kept in a sqlite file.
	Store struct {
		db *sql.DB
	}
)

func openDatabase(ctx context.Context, dir string) (*sql.DB, error) {
	file := filepath.Join(dir, "jokebox.db")
	err := os.MkdirAll(filepath.Dir(file), 0755)
	if err != nil {
		return nil, fmt.Errorf("unable to create directory for %v, cause %w", file, err)
	}
	connstr := fmt.Sprintf("file:%v?_journal=wal&_busy_timeout=5000&_foreign_keys=on&mode=rwc", file)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %v", file, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to ping database %v, cause %v", file, err)
	}
	return conn, nil
}

// Open loads (creating it if needed) the jokebox database stored under dir.
func Open(ctx context.Context, dir string) (*Store, error) {
	conn, err := openDatabase(ctx, dir)
	if err != nil {
		return nil, err
	}
	s := &Store{db: conn}
	err = s.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init database at %v, cause %v", dir, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	stmts := []string{
		`create table if not exists users (
			user_id text not null primary key,
			username text not null unique,
			password_hash text not null,
			created_at timestamp not null default current_timestamp
		)`,
		`create table if not exists jokes (
			joke_id text not null primary key,
			owner_id text not null references users(user_id),
			name text not null,
			content text not null,
			created_at timestamp not null default current_timestamp
		)`,
		`create index if not exists jokes_by_owner on jokes(owner_id)`,
	}
	for _, stmt := range stmts {
		_, err := s.db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("unable to apply schema statement, cause %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
