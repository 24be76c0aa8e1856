// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tastedees/internal/platform/ctxutil"
	"github.com/taibuivan/tastedees/internal/platform/sec"
)

/*
TestContext_RequestID verifies that request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger falls back to the default logger when none is set.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Principal verifies the request-scoped identity.
*/
func TestContext_Principal(t *testing.T) {
	ctx := context.Background()

	_, ok := ctxutil.GetPrincipal(ctx)
	assert.False(t, ok)

	ctx = ctxutil.WithPrincipal(ctx, sec.Principal{UserID: "user_1", Username: "root", Role: sec.RoleAdmin})
	got, ok := ctxutil.GetPrincipal(ctx)

	assert.True(t, ok)
	assert.Equal(t, "user_1", got.UserID)
	assert.Equal(t, sec.RoleAdmin, got.Role)
}
