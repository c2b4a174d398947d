package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolWaitMonitor_Report(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur sql.DBStats
		wantLevel string
	}{
		{
			name: "no new waits",
			prev: sql.DBStats{WaitCount: 4, WaitDuration: time.Second},
			cur:  sql.DBStats{WaitCount: 4, WaitDuration: time.Second},
		},
		{
			name:      "short wait",
			cur:       sql.DBStats{WaitCount: 2, WaitDuration: 10 * time.Millisecond},
			wantLevel: "DEBUG",
		},
		{
			name:      "long wait",
			prev:      sql.DBStats{WaitCount: 1, WaitDuration: 5 * time.Millisecond},
			cur:       sql.DBStats{WaitCount: 3, WaitDuration: 205 * time.Millisecond},
			wantLevel: "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			monitor := &poolWaitMonitor{
				logger:    slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
				warnAfter: poolWaitWarnAfter,
			}

			monitor.report(context.Background(), tt.prev, tt.cur)

			if tt.wantLevel == "" {
				assert.Empty(t, buf.String())

				return
			}
			assert.Contains(t, buf.String(), "level="+tt.wantLevel)
			assert.Contains(t, buf.String(), "Postgres pool contention")
		})
	}
}

func TestPoolWaitMonitor_ReportsAverageWait(t *testing.T) {
	var buf bytes.Buffer
	monitor := &poolWaitMonitor{
		logger:    slog.New(slog.NewTextHandler(&buf, nil)),
		warnAfter: poolWaitWarnAfter,
	}

	monitor.report(context.Background(), sql.DBStats{}, sql.DBStats{WaitCount: 2, WaitDuration: 100 * time.Millisecond})

	assert.Contains(t, buf.String(), "waits=2")
	assert.Contains(t, buf.String(), "avgWait=50ms")
}
