package clickhouse

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Parameters tunes a single query or insert call.
type Parameters struct {
	// Format overrides the client's default result format for this call.
	Format Format
	// Method forces the HTTP method ("GET" or "POST"), bypassing the
	// statement-keyword detection.
	Method string
	// QueryID tags the query on the server, forwarded as the query_id URL
	// parameter. The server generates one when absent.
	QueryID *uuid.UUID
	// Settings holds extra URL parameters forwarded verbatim to the
	// server, such as max_rows_to_read or session_id. Values are
	// stringified. The query, query_id, format and method concerns have
	// their own fields and cannot be smuggled in here.
	Settings map[string]any
}

// Query runs a SQL statement and decodes the response according to the
// format in effect.
//
// The HTTP method is detected from the statement's leading keyword and a
// FORMAT clause is appended to the statement unless it already carries one
// or contains inline VALUES data; see Parameters for per-call overrides.
func (c *Client) Query(ctx context.Context, sql string, params *Parameters) (*Result, error) {
	req := composeRequest(sql, params, c.config.Format, c.config.CompatGet)

	body, err := c.send(ctx, req.method, c.queryURL(req.params), nil)
	if err != nil {
		c.logger.Error("query failed",
			zap.String("query", req.sql),
			zap.Error(err),
		)
		return nil, err
	}
	return decodeResult(body, req)
}

// Ping checks that the server is reachable and answering queries.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Query(ctx, "SELECT 1", &Parameters{Format: FormatTabSeparated})
	return err
}
