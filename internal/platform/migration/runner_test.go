// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/shop", "pgx5://u:p@db:5432/shop"},
		{"postgresql://u:p@db/shop?sslmode=disable", "pgx5://u:p@db/shop?sslmode=disable"},
		{"pgx5://db/shop", "pgx5://db/shop"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, toPgx5DSN(tt.in))
		})
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrations.ReadDir("sql")
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
}
