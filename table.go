package clickhouse

import (
	"bytes"
	"context"
	"fmt"
)

// Table is a convenience handle for operations on a single table.
type Table struct {
	c *Client

	// Database is the name of the database.
	//
	// This is optional and may be empty, in which case the client's
	// configured database applies.
	Database string
	// Table is the name of the table.
	Table string
}

// Table creates a handle for the given table name.
func (c *Client) Table(tableName string) *Table {
	return &Table{
		c:     c,
		Table: tableName,
	}
}

// Identifier returns the backtick-quoted identifier of the table, with the
// database prefix when set.
func (t *Table) Identifier() string {
	var b bytes.Buffer
	if t.Database != "" {
		b.WriteString(quoteIdent(t.Database))
		b.WriteByte('.')
	}
	b.WriteString(quoteIdent(t.Table))
	return b.String()
}

// Insert writes rows into this table. See Client.Insert.
func (t *Table) Insert(ctx context.Context, rows []Row, params *Parameters) error {
	return t.c.Insert(ctx, t.Identifier(), rows, params)
}

// Drop drops the table.
func (t *Table) Drop(ctx context.Context) error {
	_, err := t.c.Query(ctx, fmt.Sprintf("DROP TABLE %s", t.Identifier()), nil)
	return err
}

// Exists reports whether the table is present in system.tables.
func (t *Table) Exists(ctx context.Context) (bool, error) {
	database := t.Database
	if database == "" {
		database = t.c.config.Database
	}
	sql := fmt.Sprintf(
		"SELECT count() AS n FROM system.tables WHERE database = %s AND name = %s",
		quoteString(database), quoteString(t.Table),
	)
	res, err := t.c.Query(ctx, sql, &Parameters{Format: FormatJSONEachRow})
	if err != nil {
		return false, err
	}
	for _, row := range res.Rows {
		// 64-bit integers arrive as JSON strings unless the server is told
		// otherwise, so tolerate both renderings.
		switch n := row["n"].(type) {
		case float64:
			return n > 0, nil
		case string:
			return n != "" && n != "0", nil
		}
	}
	return false, nil
}

// quoteIdent quotes an identifier with backticks, escaping embedded
// backticks and backslashes.
func quoteIdent(s string) string {
	var b bytes.Buffer
	b.WriteByte('`')
	for _, c := range s {
		switch c {
		case '`', '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('`')
	return b.String()
}

// quoteString quotes a string literal with single quotes.
func quoteString(s string) string {
	var b bytes.Buffer
	b.WriteByte('\'')
	for _, c := range s {
		switch c {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
