package clickhouse

import (
	"net/http"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDetectMethod(t *testing.T) {
	posts := []string{
		"CREATE TABLE t (id Int32) ENGINE = Memory",
		"INSERT INTO t VALUES (1)",
		"UPDATE t SET id = 2",
		"DELETE FROM t WHERE id = 1",
		"DROP TABLE t",
		"ALTER TABLE t ADD COLUMN name String",
		"TRUNCATE TABLE t",
		"  insert into t values (1)",
		"\n\tcreate table t (id Int32)",
	}
	for _, sql := range posts {
		require.Equal(t, http.MethodPost, detectMethod(sql), "sql: %s", sql)
	}

	gets := []string{
		"SELECT 1",
		"select * from t",
		"SHOW TABLES",
		"DESCRIBE TABLE t",
		"EXISTS t",
		"WITH x AS (SELECT 1) SELECT * FROM x",
	}
	for _, sql := range gets {
		require.Equal(t, http.MethodGet, detectMethod(sql), "sql: %s", sql)
	}
}

func TestComposeAppendsFormatClause(t *testing.T) {
	r := composeRequest("SELECT 1", nil, FormatJSONEachRow, false)
	require.Equal(t, http.MethodGet, r.method)
	require.Equal(t, "SELECT 1 FORMAT JSONEachRow", r.sql)
	require.True(t, r.formatApplied)
	require.Equal(t, FormatJSONEachRow, r.format)
	require.Equal(t, "SELECT 1 FORMAT JSONEachRow", r.params.Get("query"))
}

func TestComposeFormatOverride(t *testing.T) {
	r := composeRequest("SELECT 1", &Parameters{Format: FormatJSON}, FormatJSONEachRow, false)
	require.Equal(t, "SELECT 1 FORMAT JSON", r.sql)
	require.Equal(t, FormatJSON, r.format)
}

func TestComposeNoDefaultFormat(t *testing.T) {
	r := composeRequest("SELECT 1", nil, "", false)
	require.Equal(t, "SELECT 1", r.sql)
	require.False(t, r.formatApplied)
	require.Empty(t, r.format)
}

func TestComposeExistingFormatClause(t *testing.T) {
	for _, sql := range []string{
		"SELECT 1 FORMAT TabSeparated",
		"select 1 format JSONEachRow",
		"SELECT 1 FORMAT\tCSV",
	} {
		r := composeRequest(sql, nil, FormatJSON, false)
		require.Equal(t, sql, r.sql, "sql: %s", sql)
		require.False(t, r.formatApplied)
	}
}

func TestComposeValuesGuard(t *testing.T) {
	for _, sql := range []string{
		"INSERT INTO t VALUES (1, 'a')",
		"INSERT INTO t (id, name) VALUES('x', 2)",
		"insert into t values (1)",
	} {
		r := composeRequest(sql, nil, FormatJSONEachRow, false)
		require.Equal(t, sql, r.sql, "sql: %s", sql)
		require.False(t, r.formatApplied, "sql: %s", sql)
		require.Equal(t, http.MethodPost, r.method)
	}
}

func TestComposeMethodOverride(t *testing.T) {
	r := composeRequest("SELECT 1", &Parameters{Method: http.MethodPost}, "", false)
	require.Equal(t, http.MethodPost, r.method)
}

func TestComposeCompatGet(t *testing.T) {
	// The legacy variant never detects methods and never guards VALUES.
	r := composeRequest("INSERT INTO t VALUES (1)", nil, FormatJSONEachRow, true)
	require.Equal(t, http.MethodGet, r.method)
	require.Equal(t, "INSERT INTO t VALUES (1) FORMAT JSONEachRow", r.sql)
	require.True(t, r.formatApplied)

	r = composeRequest("SELECT 1", nil, "", true)
	require.Equal(t, "SELECT 1", r.sql)
	require.False(t, r.formatApplied)
}

func TestComposeURLParameters(t *testing.T) {
	id := uuid.MustParse("c8fe71d6-3695-11f0-85b3-063c3400fda9")
	r := composeRequest("SELECT 1", &Parameters{
		QueryID: &id,
		Settings: map[string]any{
			"max_rows_to_read": 1000,
			"session_id":       "abc def",
			"readonly":         true,
			// Reserved parameters cannot be shadowed through Settings.
			"query": "DROP TABLE t",
		},
	}, FormatJSONEachRow, false)

	require.Equal(t, "SELECT 1 FORMAT JSONEachRow", r.params.Get("query"))
	require.Equal(t, id.String(), r.params.Get("query_id"))
	require.Equal(t, "1000", r.params.Get("max_rows_to_read"))
	require.Equal(t, "abc def", r.params.Get("session_id"))
	require.Equal(t, "true", r.params.Get("readonly"))

	// Encode sorts keys and percent-escapes values.
	snaps.MatchSnapshot(t, r.params.Encode())
}
