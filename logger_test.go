package pixload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pixload/pixel"
)

func jsonLogger(buf *bytes.Buffer) *Logger {
	return NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestLogger_LogDecode(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		jsonLogger(&buf).LogDecode(ctx, "a.png", time.Millisecond, pixel.New(16, 16), nil)

		rec := lastRecord(t, &buf)
		assert.Equal(t, "DEBUG", rec["level"])
		assert.Equal(t, "a.png", rec["path"])
		assert.Equal(t, "1.0 KiB", rec["size"])
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		jsonLogger(&buf).LogDecode(ctx, "b.png", time.Millisecond, nil, errors.New("boom"))

		rec := lastRecord(t, &buf)
		assert.Equal(t, "WARN", rec["level"])
		assert.Equal(t, "boom", rec["error"])
	})
}

func TestLogger_LogDelivery(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf).LogDelivery(context.Background(), "c.png", DeliveryStale)

	rec := lastRecord(t, &buf)
	assert.Equal(t, "result delivered", rec["msg"])
	assert.Equal(t, DeliveryStale, rec["outcome"])
}

func TestLogger_LogClose(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf)

	l.LogClose(context.Background(), 3, nil)
	assert.Equal(t, "INFO", lastRecord(t, &buf)["level"])
	assert.EqualValues(t, 3, lastRecord(t, &buf)["dropped_tasks"])

	l.LogClose(context.Background(), 0, errors.New("pool"))
	assert.Equal(t, "ERROR", lastRecord(t, &buf)["level"])
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
