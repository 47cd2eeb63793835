package clickhouse

import (
	"fmt"
	"io"
	"net/http"
)

// Error represents a failed client call. It carries a single message;
// whether the cause was the transport, the server or a local decode step
// is readable from the message text, not from structured fields.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// errInvalidConfig rejects a malformed Config at construction time.
func errInvalidConfig(msg string) error {
	return &Error{Message: fmt.Sprintf("clickhouse: invalid config: %s", msg)}
}

// errTransport wraps a network-level failure.
func errTransport(err error) *Error {
	return &Error{Message: fmt.Sprintf("clickhouse: request failed: %s", err)}
}

// errStatus wraps a non-200 server response. The body carries the server's
// own diagnostic text and is embedded verbatim.
func errStatus(code int, body string) *Error {
	return &Error{Message: fmt.Sprintf("clickhouse: server returned status %d: %s", code, body)}
}

// errEncode wraps a local serialization failure.
func errEncode(what string, err error) *Error {
	return &Error{Message: fmt.Sprintf("clickhouse: cannot encode %s: %s", what, err)}
}

// errDecode wraps a local decode failure, quoting the offending input.
func errDecode(input string, err error) *Error {
	return &Error{Message: fmt.Sprintf("clickhouse: cannot decode %q: %s", input, err)}
}

// checkStatusCode turns a non-200 response into an Error carrying the
// status code and the full body text.
func checkStatusCode(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	data, _ := io.ReadAll(resp.Body)
	return errStatus(resp.StatusCode, string(data))
}

// readBody drains a successful response, folding read failures into the
// transport error class.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errTransport(err)
	}
	return data, nil
}

// sneakyBodyClose closes the body and ignores the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
