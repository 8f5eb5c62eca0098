package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/ceulain/sunshine-core/internal/contract"
)

// Engine hands out connections to the underlying store.
//
// SQLite has a single writer, so both connections share one pool; the split
// mirrors the read-only/read-write intent of each call site.
type Engine interface {
	Readable() Conn
	Writable() Conn
}

// Conn executes statements against the store.
type Conn interface {
	// Query runs SELECT built from q and returns the open rows.
	Query(ctx context.Context, q Query) (*sql.Rows, error)

	// Insert writes one row and returns its id, or -1 with an error.
	Insert(ctx context.Context, table string, values contract.Values) (int64, error)

	// Update sets values on rows matching where and returns the count.
	Update(ctx context.Context, table string, values contract.Values, where string, args []any) (int64, error)

	// Delete removes rows matching where and returns the count.
	Delete(ctx context.Context, table, where string, args []any) (int64, error)

	// Begin starts an explicit transaction.
	Begin(ctx context.Context) (Tx, error)
}

// Tx is an explicit transaction in begin / mark-successful / end style.
//
//	tx, err := conn.Begin(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.End() // rolls back unless MarkSuccessful was called
//
//	// ... tx.Insert ...
//
//	tx.MarkSuccessful()
//	return tx.End()
type Tx interface {
	Insert(ctx context.Context, table string, values contract.Values) (int64, error)
	MarkSuccessful()
	End() error
}

// Query describes a single SELECT. From is a table name or a join clause.
type Query struct {
	From    string
	Columns []string
	Where   string
	Args    []any
	GroupBy string
	Having  string
	OrderBy string
}

// SQL renders the statement text. Empty parts are omitted.
func (q Query) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(q.Columns, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(q.From)
	if q.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(q.Where)
	}
	if q.GroupBy != "" {
		b.WriteString(" GROUP BY ")
		b.WriteString(q.GroupBy)
	}
	if q.Having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(q.Having)
	}
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
	}
	return b.String()
}

// IsConstraint reports whether err is a per-row constraint rejection
// (unique, foreign key, not null, check) rather than a store failure.
func IsConstraint(err error) bool {
	if errors.Is(err, ErrUnknownColumn) || errors.Is(err, ErrNoValues) {
		return true
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// execer is the subset of *sql.DB and *sql.Tx used for writes.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLiteEngine implements Engine on top of an open SQLite database.
type SQLiteEngine struct {
	db *sql.DB
}

// NewSQLiteEngine creates an engine over db. The schema must already exist.
func NewSQLiteEngine(db *sql.DB) *SQLiteEngine {
	return &SQLiteEngine{db: db}
}

// Readable returns a connection for queries.
func (e *SQLiteEngine) Readable() Conn {
	return &sqliteConn{db: e.db}
}

// Writable returns a connection for mutations.
func (e *SQLiteEngine) Writable() Conn {
	return &sqliteConn{db: e.db}
}

type sqliteConn struct {
	db *sql.DB
}

func (c *sqliteConn) Query(ctx context.Context, q Query) (*sql.Rows, error) {
	rows, err := c.db.QueryContext(ctx, q.SQL(), q.Args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", q.From, err)
	}
	return rows, nil
}

func (c *sqliteConn) Insert(ctx context.Context, table string, values contract.Values) (int64, error) {
	return insert(ctx, c.db, table, values)
}

func (c *sqliteConn) Update(ctx context.Context, table string, values contract.Values, where string, args []any) (int64, error) {
	entry, err := entryFor(table)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("updating %s: %w", table, ErrNoValues)
	}

	cols := values.Columns()
	sets := make([]string, len(cols))
	bound := make([]any, 0, len(cols)+len(args))
	for i, col := range cols {
		if !entry.HasColumn(col) {
			return 0, fmt.Errorf("updating %s: %w: %s", table, ErrUnknownColumn, col)
		}
		sets[i] = col + " = ?"
		bound = append(bound, values[col])
	}
	bound = append(bound, args...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), matchAll(where))
	result, err := c.db.ExecContext(ctx, query, bound...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", table, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	return n, nil
}

func (c *sqliteConn) Delete(ctx context.Context, table, where string, args []any) (int64, error) {
	if _, err := entryFor(table); err != nil {
		return 0, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, matchAll(where))
	result, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("deleting from %s: %w", table, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	return n, nil
}

func (c *sqliteConn) Begin(ctx context.Context) (Tx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	return &sqliteTx{tx: tx}, nil
}

type sqliteTx struct {
	tx         *sql.Tx
	successful bool
	ended      bool
}

func (t *sqliteTx) Insert(ctx context.Context, table string, values contract.Values) (int64, error) {
	return insert(ctx, t.tx, table, values)
}

func (t *sqliteTx) MarkSuccessful() {
	t.successful = true
}

// End commits when the transaction was marked successful and rolls back
// otherwise. Calls after the first are no-ops.
func (t *sqliteTx) End() error {
	if t.ended {
		return nil
	}
	t.ended = true

	if !t.successful {
		if err := t.tx.Rollback(); err != nil {
			return fmt.Errorf("rolling back transaction: %w", err)
		}
		return nil
	}
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// insert writes one row with every value bound as a parameter.
func insert(ctx context.Context, ex execer, table string, values contract.Values) (int64, error) {
	entry, err := entryFor(table)
	if err != nil {
		return -1, err
	}
	if len(values) == 0 {
		return -1, fmt.Errorf("inserting into %s: %w", table, ErrNoValues)
	}

	cols := values.Columns()
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		if !entry.HasColumn(col) {
			return -1, fmt.Errorf("inserting into %s: %w: %s", table, ErrUnknownColumn, col)
		}
		placeholders[i] = "?"
		args[i] = values[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	result, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return -1, fmt.Errorf("inserting into %s: %w", table, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return -1, fmt.Errorf("reading id for %s: %w", table, err)
	}
	return id, nil
}

// entryFor resolves a table name to its resource entry.
func entryFor(table string) (contract.Entry, error) {
	for _, e := range contract.Entries() {
		if e.Table == table {
			return e, nil
		}
	}
	return contract.Entry{}, fmt.Errorf("%w: %q", ErrUnknownTable, table)
}

// matchAll substitutes the always-true predicate for an empty one.
func matchAll(where string) string {
	if strings.TrimSpace(where) == "" {
		return "1"
	}
	return where
}
