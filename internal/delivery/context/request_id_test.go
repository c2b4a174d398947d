package context

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAcceptRequestID(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		keepsRaw bool
	}{
		{name: "client id", raw: "checkout-42", keepsRaw: true},
		{name: "longest accepted", raw: strings.Repeat("a", MaxRequestIDLength), keepsRaw: true},
		{name: "empty", raw: ""},
		{name: "oversized", raw: strings.Repeat("a", MaxRequestIDLength+1)},
		{name: "header injection", raw: "id\r\nSet-Cookie: x=1"},
		{name: "space", raw: "two words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AcceptRequestID(tt.raw)
			if tt.keepsRaw {
				assert.Equal(t, tt.raw, got)

				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestWithRequestScope(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := WithRequestScope(context.Background(), "req-1", logger)

	assert.Equal(t, "req-1", GetRequestIDFromContext(ctx))
	assert.Same(t, logger, GetLoggerOrDefault(ctx, fallback))
	assert.Same(t, fallback, GetLoggerOrDefault(context.Background(), fallback))
	assert.Empty(t, GetRequestIDFromContext(context.Background()))
}
