package observability_test

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/distscope/distscope/internal/observability"
	"github.com/distscope/distscope/internal/observabilitytest"
)

func TestNewTags(t *testing.T) {
	testCases := []struct {
		name   string
		input  []any
		expect observability.Tags
	}{
		{
			name:   "from slog.Attr",
			input:  []any{slog.Attr{Key: "points", Value: slog.Int64Value(640)}},
			expect: observability.Tags{"points": "640"},
		},
		{
			name:   "from key-value pair",
			input:  []any{"dataset", "latency.csv"},
			expect: observability.Tags{"dataset": "latency.csv"},
		},
		{
			name: "from a mix of attrs and pairs",
			input: []any{
				slog.Attr{Key: "mode", Value: slog.StringValue("lte")},
				"threshold",
				2.5,
				slog.Any("column", "p99"),
			},
			expect: observability.Tags{
				"mode":      "lte",
				"threshold": "2.5",
				"column":    "p99",
			},
		},
		{
			name: "trailing key without a value is dropped",
			input: []any{
				slog.Attr{Key: "points", Value: slog.Int64Value(640)},
				"dataset",
			},
			expect: observability.Tags{"points": "640"},
		},
		{
			name:   "empty input",
			input:  []any{},
			expect: observability.Tags{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, observability.NewTags(tc.input...))
		})
	}
}

func TestNewNoOpLogger(t *testing.T) {
	logger := observability.NewNoOpLogger()

	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
	assert.Equal(t, observability.Tags{}, logger.GetTags())
}

func TestReraise(t *testing.T) {
	t.Run("no panic", func(t *testing.T) {
		logger, logs := observabilitytest.NewRecordingTestLogger(t)

		defer func() {
			assert.Nil(t, recover())
			assert.Empty(t, logs)
		}()

		defer logger.Reraise()
	})

	t.Run("panic with error", func(t *testing.T) {
		logger, logs := observabilitytest.NewRecordingTestLogger(t)
		boom := errors.New("chart renderer exploded")

		defer func() {
			assert.Equal(t, boom, recover())
			assert.Contains(t, logs.String(), "chart renderer exploded")
		}()

		defer logger.Reraise()
		panic(boom)
	})

	t.Run("panic with non-error value", func(t *testing.T) {
		logger, logs := observabilitytest.NewRecordingTestLogger(t)

		defer func() {
			assert.Equal(t, fmt.Errorf("bad frame index 12"), recover())
			assert.Contains(t, logs.String(), "bad frame index 12")
		}()

		defer logger.Reraise()
		panic("bad frame index 12")
	})
}

func TestCaptureFatalAndPanic_Nil(t *testing.T) {
	logger := observabilitytest.NewTestLogger(t)

	defer func() {
		assert.ErrorContains(t, recover().(error), "panicked with nil error")
	}()

	logger.CaptureFatalAndPanic(nil)
}

func TestWithAddsTags(t *testing.T) {
	logger, logs := observabilitytest.NewRecordingTestLogger(t)

	logger.With(slog.String("source", "dataset.json")).Info("loaded")

	records := observabilitytest.ExtractLogs(t, logs)
	assert.Len(t, records, 1)
	assert.Equal(t, "loaded", records[0]["msg"])
	assert.Equal(t, "dataset.json", records[0]["source"])
}
