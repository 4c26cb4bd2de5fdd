// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/versus/models"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrConstraint = errors.New("constraint violation")
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository is the set of entity reads and writes the core depends on.
// Every method is atomic on its own; RunInTx groups several of them.
type Repository interface {
	InsertPlayer(ctx context.Context, p models.Player) error
	PlayerByID(ctx context.Context, id string) (models.Player, error)
	PlayerByEmail(ctx context.Context, email string) (models.Player, error)

	InsertVersus(ctx context.Context, v models.Versus) error
	UpdateVersus(ctx context.Context, v models.Versus) error
	DeleteVersus(ctx context.Context, id string) error
	LockVersus(ctx context.Context, id string) error
	VersusByID(ctx context.Context, id string) (models.Versus, error)
	VersusBySlug(ctx context.Context, slug string) (models.Versus, error)
	VersusForPlayer(ctx context.Context, playerID string) ([]models.VersusSummary, error)

	InsertMembers(ctx context.Context, members []models.VersusPlayer) error
	UpdateMember(ctx context.Context, m models.VersusPlayer) error
	DeleteMember(ctx context.Context, versusID, playerID string) error
	Membership(ctx context.Context, versusID, playerID string) (models.VersusPlayer, error)
	Members(ctx context.Context, versusID string) ([]models.Member, error)

	InsertObjectives(ctx context.Context, objectives []models.Objective) error
	UpdateObjective(ctx context.Context, o models.Objective) error
	DeleteObjective(ctx context.Context, id string) error
	ObjectiveByID(ctx context.Context, id string) (models.Objective, error)
	Objectives(ctx context.Context, versusID string) ([]models.Objective, error)

	InsertCompletion(ctx context.Context, c models.Completion) error
	CompletionByID(ctx context.Context, id string) (models.Completion, error)
	DeleteCompletion(ctx context.Context, id string) error
	Completions(ctx context.Context, versusID string) ([]models.Completion, error)
	History(ctx context.Context, versusID, playerID string) ([]models.HistoryEntry, error)
}

// Queries implements Repository on top of a DBTX.
type Queries struct {
	db DBTX
}

// NewQueries wraps a connection or transaction.
func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

// Store owns the connection pool and can open transactions.
type Store struct {
	*Queries
	conn *sql.DB
}

func New(conn *sql.DB) *Store {
	return &Store{Queries: NewQueries(conn), conn: conn}
}

// RunInTx runs fn inside a single database transaction. The transaction
// commits only when fn returns nil.
func (s *Store) RunInTx(ctx context.Context, fn func(Repository) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(NewQueries(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", classify(err))
	}
	return nil
}

// classify maps driver constraint errors onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Message)
		case "23503", "23514":
			return fmt.Errorf("%w: %s", ErrConstraint, pqErr.Message)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %s", ErrDuplicate, liteErr.Error())
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY, sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%w: %s", ErrConstraint, liteErr.Error())
		}
	}

	return err
}

// bulkInsert builds a single multi-row INSERT statement.
func bulkInsert(table string, columns []string, rows [][]any) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(rows)*len(columns))

	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(columns, ", "))
	sb.WriteString(") VALUES ")

	n := 1
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$" + strconv.Itoa(n))
			args = append(args, v)
			n++
		}
		sb.WriteString(")")
	}

	return sb.String(), args
}

// expectOne reports ErrNotFound when an UPDATE or DELETE touched no row.
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullString converts an optional string into a driver value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
