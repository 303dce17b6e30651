package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoverToCause(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	errBoom := errors.New("boom")

	tests := []struct {
		name  string
		value any
		check func(t *testing.T, cause error)
	}{
		{"error", errBoom, func(t *testing.T, cause error) {
			assert.ErrorIs(t, cause, errBoom)
		}},
		{"string", "bad state", func(t *testing.T, cause error) {
			assert.ErrorContains(t, cause, "panic: bad state")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			ctx, quit := context.WithCancelCause(context.Background())

			func() {
				defer recoverToCause(quit, logger)
				panic(tt.value)
			}()

			require.Error(t, ctx.Err())
			tt.check(t, context.Cause(ctx))
			assert.Contains(t, logs.String(), "viewer panicked")
		})
	}
}

func TestRecoverToCauseWithoutPanic(t *testing.T) {
	ctx, quit := context.WithCancelCause(context.Background())
	defer quit(nil)

	func() {
		defer recoverToCause(quit, slog.Default())
	}()

	assert.NoError(t, ctx.Err())
}
