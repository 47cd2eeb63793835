package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// Insert writes rows into a table, serialized per the insert format.
//
// The request is always a POST of the form INSERT INTO <table> FORMAT
// <format>, with the serialized rows as the request body. The format comes
// from params.Format, default JSONEachRow. Formats without a serialization
// rule fall back to an opaque stringification of the rows; the server is
// not guaranteed to accept that payload.
func (c *Client) Insert(ctx context.Context, table string, rows []Row, params *Parameters) error {
	format := FormatJSONEachRow
	if params != nil && params.Format != "" {
		format = params.Format
	}

	body, err := encodeRows(rows, format)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf("INSERT INTO %s FORMAT %s", table, format)
	values := url.Values{}
	values.Set("query", sql)
	if params != nil && params.QueryID != nil {
		values.Set("query_id", params.QueryID.String())
	}

	if _, err := c.send(ctx, http.MethodPost, c.queryURL(values), body); err != nil {
		c.logger.Error("insert failed",
			zap.String("table", table),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// encodeRows serializes rows for the insert body.
func encodeRows(rows []Row, format Format) ([]byte, error) {
	switch format {
	case FormatJSONEachRow:
		var b strings.Builder
		for i, row := range rows {
			data, err := json.Marshal(row)
			if err != nil {
				return nil, errEncode(fmt.Sprintf("row %d", i), err)
			}
			if i > 0 {
				b.WriteByte('\n')
			}
			b.Write(data)
		}
		return []byte(b.String()), nil
	case FormatJSON:
		data, err := json.Marshal(map[string]any{"data": rows})
		if err != nil {
			return nil, errEncode("rows", err)
		}
		return data, nil
	default:
		// Degraded path for formats the client cannot serialize itself.
		return []byte(fmt.Sprintf("%v", rows)), nil
	}
}
