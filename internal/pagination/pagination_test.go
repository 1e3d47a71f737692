package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"absent", "", 1},
		{"valid", "3", 3},
		{"zero", "0", 1},
		{"negative", "-2", 1},
		{"garbage", "abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePage(tt.raw))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 2, TotalPages(13, 10))
}

func TestClamp(t *testing.T) {
	// 13 items at 10 per page: pages 1 and 2 exist
	page, offset := Clamp(1, 13, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)

	page, offset = Clamp(2, 13, 10)
	assert.Equal(t, 2, page)
	assert.Equal(t, 10, offset)

	// Requesting past the end lands on the last page
	page, offset = Clamp(3, 13, 10)
	assert.Equal(t, 2, page)
	assert.Equal(t, 10, offset)

	page, offset = Clamp(99, 0, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 0, offset)
}

func TestNew(t *testing.T) {
	page := New([]int{1, 2, 3}, 2, 13, 10)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, int64(13), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	empty := New[int](nil, 1, 0, 10)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
