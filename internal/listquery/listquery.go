// Package listquery turns the page/limit/search/filter/sort surface shared
// by every list endpoint into a single scoped, paginated query.
package listquery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/constants"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

// Definition declares, per entity, which column free-text search targets and
// which sort keys are accepted. Sorting is whitelist-only; an unknown key is
// a validation error, never passed through to SQL.
type Definition struct {
	SearchColumn string
	SortColumns  map[string]string
	DefaultSort  string
}

// Params are the parsed request parameters. Filters carry client-supplied
// column equality conditions and go through the scope check; Extra carries
// entity-specific conditions written in code (subqueries, ranges) that the
// map form cannot express.
type Params struct {
	Page    int
	Limit   int
	Search  string
	Sort    string
	Filters store.Conditions
	Extra   []func(*gorm.DB) *gorm.DB
}

// Pagination is the envelope returned alongside every list. HasMore derives
// from the authoritative count, not from the returned page size.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasMore     bool  `json:"has_more"`
}

// Result carries one page of rows plus the envelope.
type Result[T any] struct {
	Data       []T
	Pagination Pagination
}

// Parse reads pagination/search/sort query parameters. Non-numeric or
// non-positive page and limit values are rejected rather than silently
// corrected; limit is capped at the configured maximum.
func Parse(c *gin.Context) (Params, error) {
	params := Params{
		Page:    constants.MinPage,
		Limit:   constants.DefaultPageSize,
		Search:  strings.TrimSpace(c.Query("search")),
		Sort:    strings.TrimSpace(c.Query("sort")),
		Filters: store.Conditions{},
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < constants.MinPage {
			return params, apperrors.Validation("page must be a positive integer")
		}
		params.Page = page
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return params, apperrors.Validation("limit must be a positive integer")
		}
		if limit > constants.MaxPageSize {
			limit = constants.MaxPageSize
		}
		params.Limit = limit
	}

	return params, nil
}

// Run executes the list: it injects tenant and soft-delete scope, applies
// filters, search and sort, then runs the count and the page fetch
// concurrently. The two queries snapshot the same conditions; a concurrent
// write landing between them is an accepted eventual-consistency artifact.
func Run[T any, P store.Ptr[T]](ctx context.Context, st *store.Store[T, P], tenantID uint64, def Definition, params Params, preload ...string) (*Result[T], error) {
	if err := store.CheckScope(tenantID, params.Filters); err != nil {
		return nil, err
	}

	order, err := resolveSort(def, params.Sort)
	if err != nil {
		return nil, err
	}

	// Each goroutine builds its own query: gorm statement builders are not
	// safe to share across goroutines.
	base := func() *gorm.DB {
		query := st.Scoped(ctx, tenantID)
		if len(params.Filters) > 0 {
			query = query.Where(map[string]any(params.Filters))
		}
		if params.Search != "" && def.SearchColumn != "" {
			pattern := "%" + strings.ToLower(params.Search) + "%"
			query = query.Where(fmt.Sprintf("LOWER(%s) LIKE ?", def.SearchColumn), pattern)
		}
		for _, extra := range params.Extra {
			query = extra(query)
		}
		return query
	}

	var (
		total int64
		items []T
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base().WithContext(gctx).Count(&total).Error
	})
	g.Go(func() error {
		query := base().WithContext(gctx).
			Order(order).
			Offset((params.Page - 1) * params.Limit).
			Limit(params.Limit)
		for _, p := range preload {
			query = query.Preload(p)
		}
		return query.Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.Internal(err)
	}

	if items == nil {
		items = []T{}
	}

	return &Result[T]{
		Data:       items,
		Pagination: BuildPagination(params.Page, params.Limit, total),
	}, nil
}

// BuildPagination computes the envelope from the authoritative count.
func BuildPagination(page, limit int, total int64) Pagination {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasMore:     int64(page)*int64(limit) < total,
	}
}

func resolveSort(def Definition, sort string) (string, error) {
	if sort == "" {
		if def.DefaultSort != "" {
			return def.DefaultSort, nil
		}
		return "created_at DESC", nil
	}

	direction := "ASC"
	field := sort
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		field = sort[1:]
	}

	column, ok := def.SortColumns[field]
	if !ok {
		return "", apperrors.Validation(fmt.Sprintf("unknown sort field %q", field))
	}
	return column + " " + direction, nil
}
