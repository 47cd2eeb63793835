package clickhouse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/ipc"
)

// QueryArrowBatch runs a query with FORMAT ArrowStream and decodes the
// response body as Arrow record batches.
//
// The FORMAT clause is appended by the regular composer rules, so the
// statement must not already carry its own FORMAT token.
func (c *Client) QueryArrowBatch(ctx context.Context, sql string, params *Parameters) ([]arrow.Record, error) {
	p := &Parameters{Format: FormatArrowStream}
	if params != nil {
		p.Method = params.Method
		p.QueryID = params.QueryID
		p.Settings = params.Settings
	}

	res, err := c.Query(ctx, sql, p)
	if err != nil {
		return nil, err
	}
	return decodeRecordBatches([]byte(res.Raw))
}

// InsertArrowBatch writes Arrow record batches into a table via
// INSERT INTO <table> FORMAT ArrowStream, with the IPC stream as the
// request body.
func (c *Client) InsertArrowBatch(ctx context.Context, table string, batches []arrow.Record) error {
	body, err := encodeRecordBatches(batches)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf("INSERT INTO %s FORMAT %s", table, FormatArrowStream)
	values := url.Values{}
	values.Set("query", sql)

	_, err = c.send(ctx, http.MethodPost, c.queryURL(values), body)
	return err
}

// encodeRecordBatches encodes the given record batches as an Arrow IPC stream.
func encodeRecordBatches(batches []arrow.Record) (payload []byte, err error) {
	if len(batches) == 0 {
		return nil, errors.New("cannot encode empty batches")
	}

	var buf bytes.Buffer
	defer func() {
		if err == nil {
			payload = buf.Bytes()
		}
	}()

	schema := batches[0].Schema()
	writer := ipc.NewWriter(&buf, ipc.WithSchema(schema))
	defer func() {
		err = errors.Join(err, writer.Close())
	}()

	for _, batch := range batches {
		if err := writer.Write(batch); err != nil {
			return nil, err
		}
	}
	return
}

// decodeRecordBatches decodes an Arrow IPC stream into record batches.
func decodeRecordBatches(data []byte) ([]arrow.Record, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithDelayReadSchema(true))
	if err != nil {
		return nil, err
	}

	batches := make([]arrow.Record, 0)
	for reader.Next() {
		batch := reader.Record()
		batch.Retain()
		batches = append(batches, batch)
	}
	return batches, nil
}
