package pagination_test

import (
	"testing"

	"sohagstore_backend/internal/pagination"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Defaults(t *testing.T) {
	t.Parallel()

	opts := pagination.Options{}.Normalize()

	assert.Equal(t, pagination.DefaultPage, opts.Page)
	assert.Equal(t, pagination.DefaultLimit, opts.Limit)
	assert.Equal(t, "created_at", opts.SortBy)
	assert.Equal(t, "desc", opts.SortOrder)
}

func TestNormalize_ClampsLimit(t *testing.T) {
	t.Parallel()

	opts := pagination.Options{Page: 3, Limit: 1000, SortOrder: "asc"}.Normalize()

	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, pagination.MaxLimit, opts.Limit)
	assert.Equal(t, "asc", opts.SortOrder)
}

func TestBuildMeta(t *testing.T) {
	t.Parallel()

	meta := pagination.BuildMeta(25, pagination.Options{Page: 2, Limit: 10})

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestBuildMeta_LastPage(t *testing.T) {
	t.Parallel()

	meta := pagination.BuildMeta(25, pagination.Options{Page: 3, Limit: 10})

	assert.False(t, meta.HasNextPage)
	assert.True(t, meta.HasPrevPage)
}

func TestBuildMeta_Empty(t *testing.T) {
	t.Parallel()

	meta := pagination.BuildMeta(0, pagination.Options{})

	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)
}
