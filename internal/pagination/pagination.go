package pagination

import (
	"math"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Options - параметры страничной выборки
type Options struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // asc | desc
}

// Meta - метаданные выборки для клиента
type Meta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Normalize приводит параметры к допустимым значениям
func (o Options) Normalize() Options {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.SortBy == "" {
		o.SortBy = "created_at"
	}
	if o.SortOrder != "asc" {
		o.SortOrder = "desc"
	}
	return o
}

// Apply накладывает сортировку, offset и limit на gorm-запрос
func Apply(db *gorm.DB, opts Options) *gorm.DB {
	opts = opts.Normalize()
	offset := (opts.Page - 1) * opts.Limit
	return db.Order(opts.SortBy + " " + opts.SortOrder).Offset(offset).Limit(opts.Limit)
}

// BuildMeta строит метаданные по общему количеству записей
func BuildMeta(total int64, opts Options) Meta {
	opts = opts.Normalize()
	totalPages := int(math.Ceil(float64(total) / float64(opts.Limit)))
	return Meta{
		Page:        opts.Page,
		Limit:       opts.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: opts.Page < totalPages,
		HasPrevPage: opts.Page > 1,
	}
}
