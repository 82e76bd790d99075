package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, ToLogLevel(tt.level))
		})
	}

	assert.Panics(t, func() { ToLogLevel("verbose") })
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(WrapByErrFmtHandler(inner))

	err := errors.NewValueError("EvalBase", "empty query points")
	logger.Error("evaluation failed", ErrAttr(err))

	out := buf.String()
	assert.Contains(t, out, "evaluation failed")
	assert.Contains(t, out, ErrAttrKey)
	assert.Contains(t, out, StacktraceAttrKey)
}

func TestErrFmtHandlerPassthrough(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := WrapByErrFmtHandler(inner)

	require.True(t, h.Enabled(context.Background(), slog.LevelError))
	require.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String(OperationKey, "evaluate")}))
	logger.Info("evaluated basis on grid", PointsKey, 12)
	assert.Contains(t, buf.String(), "evaluate")
}
