package clickhouse

import (
	"encoding/json"
	"strings"
)

// Row is one decoded result row, keyed by column name.
type Row map[string]any

// Result stores the outcome of a query. Exactly one of Rows, Data and Raw
// is populated, selected by the format in effect for the call:
//
//   - JSONEachRow responses decode into Rows;
//   - JSON responses decode into Data, with the server's {meta, data, rows}
//     envelope unwrapped to its data field;
//   - every other response, and any query whose FORMAT clause was not
//     injected, lands in Raw as-is.
type Result struct {
	// Format is the effective format of the call. Empty when no format was
	// configured.
	Format Format
	// Rows holds the decoded rows of a JSONEachRow response.
	Rows []Row
	// Data holds the decoded payload of a JSON response.
	Data any
	// Raw holds the verbatim body for all other formats.
	Raw string
}

// decodeResult parses a response body according to the composed request.
// An empty body under a decoding format yields an empty Result, not an
// error.
func decodeResult(body []byte, r *composedRequest) (*Result, error) {
	res := &Result{}
	if r.formatApplied {
		res.Format = r.format
	}

	if !r.formatApplied {
		res.Raw = string(body)
		return res, nil
	}

	switch r.format {
	case FormatJSONEachRow:
		rows, err := decodeJSONEachRow(body)
		if err != nil {
			return nil, err
		}
		res.Rows = rows
	case FormatJSON:
		data, err := decodeJSONEnvelope(body)
		if err != nil {
			return nil, err
		}
		res.Data = data
	default:
		// Only JSONEachRow and JSON have decode rules.
		res.Raw = string(body)
	}
	return res, nil
}

// decodeJSONEachRow decodes one JSON object per line, tolerating \r\n line
// endings and blank lines. A malformed line fails the whole call with the
// line quoted in the error.
func decodeJSONEachRow(body []byte) ([]Row, error) {
	rows := make([]Row, 0)
	text := strings.ReplaceAll(string(body), "\r\n", "\n")
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var row Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, errDecode(line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeJSONEnvelope decodes the whole body as one JSON value. The server
// wraps JSON-format results as {meta, data, rows, ...}; the data field is
// unwrapped when present, while bare payloads pass through unchanged.
func decodeJSONEnvelope(body []byte) (any, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, errDecode(string(body), err)
	}
	if envelope, ok := value.(map[string]any); ok {
		if data, ok := envelope["data"]; ok {
			return data, nil
		}
	}
	return value, nil
}
