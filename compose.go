package clickhouse

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// postKeywords are the statement-leading keywords that select POST when the
// caller has not forced a method. This is a prefix match on the first
// keyword only, not a statement parse.
var postKeywords = []string{
	"CREATE", "INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "TRUNCATE",
}

var (
	// formatClauseRe matches an existing FORMAT <name> token anywhere in
	// the upper-cased statement.
	formatClauseRe = regexp.MustCompile(`FORMAT\s+\w+`)
	// insertValuesRe matches the canonical INSERT INTO <table> VALUES
	// prefix carrying inline row literals.
	insertValuesRe = regexp.MustCompile(`^INSERT\s+INTO\s+\S+\s+VALUES`)
)

// composedRequest is the outcome of composing one query call: the method,
// the final SQL (with or without an injected FORMAT clause), the URL
// parameters, and the format actually in effect for response decoding.
type composedRequest struct {
	method string
	sql    string
	params url.Values

	// format is the effective format for this call.
	format Format
	// formatApplied records whether a FORMAT clause ended up in the SQL.
	// Only then is the response body decoded; a format suppressed by the
	// VALUES guard leaves the response raw.
	formatApplied bool
}

// composeRequest builds the request for a SQL statement. The effective
// format is the per-call override when set, else the configured default.
func composeRequest(sql string, p *Parameters, defaultFormat Format, compatGet bool) *composedRequest {
	if p == nil {
		p = &Parameters{}
	}

	format := p.Format
	if format == "" {
		format = defaultFormat
	}

	r := &composedRequest{
		sql:    sql,
		format: format,
	}

	if compatGet {
		// Old client behavior: GET everything, append FORMAT blindly.
		r.method = http.MethodGet
		if format != "" {
			r.sql = sql + " FORMAT " + string(format)
			r.formatApplied = true
		}
	} else {
		r.method = p.Method
		if r.method == "" {
			r.method = detectMethod(sql)
		}
		if format != "" && !hasFormatClause(sql) && !hasInlineValues(sql) {
			r.sql = sql + " FORMAT " + string(format)
			r.formatApplied = true
		}
	}

	// Settings go in first so the reserved parameters cannot be shadowed.
	r.params = url.Values{}
	for key, value := range p.Settings {
		r.params.Set(key, fmt.Sprintf("%v", value))
	}
	r.params.Set("query", r.sql)
	if p.QueryID != nil {
		r.params.Set("query_id", p.QueryID.String())
	}
	return r
}

// detectMethod selects POST for data-changing statements and GET otherwise.
func detectMethod(sql string) string {
	head := strings.ToUpper(strings.TrimSpace(sql))
	for _, kw := range postKeywords {
		if strings.HasPrefix(head, kw) {
			return http.MethodPost
		}
	}
	return http.MethodGet
}

// hasFormatClause reports whether the statement already carries a FORMAT
// token, in which case no second clause may be appended.
func hasFormatClause(sql string) bool {
	return formatClauseRe.MatchString(strings.ToUpper(sql))
}

// hasInlineValues reports whether the statement carries inline VALUES row
// literals. Appending a FORMAT clause after inline data is syntactically
// unsafe, so these statements are never rewritten.
func hasInlineValues(sql string) bool {
	head := strings.ToUpper(strings.TrimSpace(sql))
	if strings.Contains(head, "VALUES(") {
		return true
	}
	return insertValuesRe.MatchString(head)
}
