package provider

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/ceulain/sunshine-core/internal/contract"
	"github.com/ceulain/sunshine-core/internal/notify"
)

// Cursor is the fully read result of Provider.Read.
//
// Rows are copied out of the store before Read returns, so a cursor holds
// no connection and may outlive later writes. It stays bound to the
// identifier it was read from; Watch turns it into a live result by
// registering an observer for that identifier.
type Cursor struct {
	uri     contract.URI
	columns []string
	rows    [][]any
	pos     int

	notifier Notifier
	mu       sync.Mutex
	watches  []string
	closed   bool
}

// materialize reads every row of rows and closes it.
func materialize(u contract.URI, rows *sql.Rows, notifier Notifier) (*Cursor, error) {
	defer rows.Close() //nolint:errcheck // close error is superseded by rows.Err

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	c := &Cursor{uri: u, columns: columns, pos: -1, notifier: notifier}
	for rows.Next() {
		row := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		c.rows = append(c.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return c, nil
}

// URI returns the identifier the cursor was read from.
func (c *Cursor) URI() contract.URI { return c.uri }

// Columns returns the result column names.
func (c *Cursor) Columns() []string { return append([]string(nil), c.columns...) }

// Len returns the number of rows.
func (c *Cursor) Len() int { return len(c.rows) }

// Next advances to the next row and reports whether one exists.
func (c *Cursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		c.pos = len(c.rows)
		return false
	}
	c.pos++
	return true
}

// Row returns the current row keyed by column name.
// It returns nil before the first Next or after the last.
func (c *Cursor) Row() contract.Values {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil
	}
	return c.valuesAt(c.pos)
}

// Values returns every row keyed by column name.
func (c *Cursor) Values() []contract.Values {
	out := make([]contract.Values, len(c.rows))
	for i := range c.rows {
		out[i] = c.valuesAt(i)
	}
	return out
}

// Decode decodes every row into out, a pointer to a slice of structs with
// `column` tags such as []contract.WeatherRecord.
func (c *Cursor) Decode(out any) error {
	return contract.DecodeValues(c.Values(), out)
}

func (c *Cursor) valuesAt(i int) contract.Values {
	v := make(contract.Values, len(c.columns))
	for j, col := range c.columns {
		v[col] = c.rows[i][j]
	}
	return v
}

// Watch registers observer for changes at, above or below the cursor's
// identifier. Observers are unregistered by Close.
func (c *Cursor) Watch(observer notify.Observer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCursorClosed
	}
	id, err := c.notifier.Register(c.uri, true, observer)
	if err != nil {
		return fmt.Errorf("watching %s: %w", c.uri, err)
	}
	c.watches = append(c.watches, id)
	return nil
}

// Close unregisters every watcher. It is safe to call more than once.
func (c *Cursor) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	for _, id := range c.watches {
		c.notifier.Unregister(id)
	}
	c.watches = nil
	return nil
}
