package clickhouse

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"
)

func makeRecords(t *testing.T) []arrow.Record {
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "name", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	pool := memory.NewGoAllocator()
	b := array.NewRecordBuilder(pool, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2}, nil)
	b.Field(1).(*array.StringBuilder).AppendValues([]string{"alice", "bob"}, nil)
	return []arrow.Record{b.NewRecord()}
}

func TestRecordBatchCodecRoundTrip(t *testing.T) {
	records := makeRecords(t)

	payload, err := encodeRecordBatches(records)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	decoded, err := decodeRecordBatches(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.True(t, records[0].Schema().Equal(decoded[0].Schema()))
	require.Equal(t, records[0].NumRows(), decoded[0].NumRows())
}

func TestEncodeEmptyBatches(t *testing.T) {
	_, err := encodeRecordBatches(nil)
	require.Error(t, err)
}

func arrowTestClient(t *testing.T, server *httptest.Server) *Client {
	host, portText, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portText)
	require.NoError(t, err)

	config := DefaultConfig()
	config.Host = host
	config.Port = port
	c, err := NewClient(config)
	require.NoError(t, err)
	return c
}

func TestQueryArrowBatch(t *testing.T) {
	ctx := context.Background()
	records := makeRecords(t)
	payload, err := encodeRecordBatches(records)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "SELECT * FROM t FORMAT ArrowStream", r.URL.Query().Get("query"))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	c := arrowTestClient(t, server)
	decoded, err := c.QueryArrowBatch(ctx, "SELECT * FROM t", nil)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	require.Equal(t, int64(2), decoded[0].NumRows())
}

func TestInsertArrowBatch(t *testing.T) {
	ctx := context.Background()
	records := makeRecords(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "INSERT INTO t FORMAT ArrowStream", r.URL.Query().Get("query"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		decoded, err := decodeRecordBatches(body)
		require.NoError(t, err)
		require.Len(t, decoded, 1)
	}))
	defer server.Close()

	c := arrowTestClient(t, server)
	require.NoError(t, c.InsertArrowBatch(ctx, "t", records))
}
