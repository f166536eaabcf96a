package observabilitytest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/distscope/distscope/internal/observability"
)

// NewTestLogger returns a logger wired to the test's own output.
//
// Whatever it logs shows up alongside the test's output on failure,
// with no debug file involved.
func NewTestLogger(t *testing.T) *observability.CoreLogger {
	t.Helper()
	return observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(t.Output(), &slog.HandlerOptions{})),
		nil,
	)
}

// NewRecordingTestLogger is a NewTestLogger that additionally keeps
// every log record in the returned buffer.
func NewRecordingTestLogger(t *testing.T) (
	*observability.CoreLogger,
	*bytes.Buffer,
) {
	t.Helper()

	recordedLogs := &bytes.Buffer{}
	writer := io.MultiWriter(t.Output(), recordedLogs)

	return observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{})),
		nil,
	), recordedLogs
}

// ExtractLogs parses the JSON records in a [NewRecordingTestLogger]
// buffer.
//
// The "time" key is removed from each record. What remains is "level",
// "msg" and any slog attrs the message carried.
func ExtractLogs(t *testing.T, buf *bytes.Buffer) []map[string]string {
	records := make([]map[string]string, 0)

	// JSONHandler escapes newlines inside field values, so each literal
	// newline ends exactly one record.
	for line := range bytes.Lines(buf.Bytes()) {
		var record map[string]string
		require.NoError(t, json.Unmarshal(line, &record))

		delete(record, "time")

		records = append(records, record)
	}

	return records
}
