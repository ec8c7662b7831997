package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 20, 40, 20},
		{"zero page falls back to first", 0, 10, 0, 10},
		{"oversized page size falls back to default", 1, 500, 0, DefaultPageSize},
		{"zero size falls back to default", 2, 0, 10, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	t.Run("rounds total pages up", func(t *testing.T) {
		info := NewPaginationInfo(25, 1, 10)
		assert.Equal(t, 3, info.TotalPages)
		assert.Equal(t, int64(25), info.TotalItems)
	})

	t.Run("empty listing still has one page", func(t *testing.T) {
		info := NewPaginationInfo(0, 1, 10)
		assert.Equal(t, 1, info.TotalPages)
		assert.Equal(t, 1, info.CurrentPage)
	})

	t.Run("page beyond the end is clamped", func(t *testing.T) {
		info := NewPaginationInfo(25, 9, 10)
		assert.Equal(t, 3, info.CurrentPage)
	})
}

func TestParseDateTime(t *testing.T) {
	t.Run("wire format round-trips", func(t *testing.T) {
		original := time.Date(2035, 6, 15, 18, 30, 0, 0, time.UTC)
		parsed, err := ParseDateTime(FormatDateTime(original))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(original))
	})

	t.Run("unparseable value is invalid input", func(t *testing.T) {
		_, err := ParseDateTime("15/06/2035 18:30")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}
