package services

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageQuery is the page/limit pair accepted by every list endpoint
type PageQuery struct {
	Page  int
	Limit int
}

// Normalize applies defaults and clamps the limit
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q PageQuery) offset() int {
	return (q.Page - 1) * q.Limit
}

// Pagination is the metadata block of a paginated response
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes totalPages = ceil(total / limit)
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}

// Page is a paginated list response
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// paginate counts and fetches one page of T. filter restricts both queries,
// extra (preloads) only applies to the fetch.
func paginate[T any](db *gorm.DB, q PageQuery, order string, filter func(*gorm.DB) *gorm.DB, extra ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	q = q.Normalize()
	if filter == nil {
		filter = func(tx *gorm.DB) *gorm.DB { return tx }
	}

	var total int64
	if err := db.Model(new(T)).Scopes(filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	items := make([]T, 0, q.Limit)
	query := db.Model(new(T)).Scopes(filter).Scopes(extra...)
	if order != "" {
		query = query.Order(order)
	}
	if err := query.Offset(q.offset()).Limit(q.Limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch rows: %w", err)
	}

	return &Page[T]{Data: items, Pagination: NewPagination(total, q.Page, q.Limit)}, nil
}
