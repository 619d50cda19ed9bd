package listview

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Listable interface {
	ListName() string
	ListText() string
	ListCategory() string
	ListAvailable() bool
	ListPrice() decimal.Decimal
	ListTime() time.Time
}

type SortKey string

const (
	SortNone  SortKey = ""
	SortName  SortKey = "name"
	SortPrice SortKey = "price"
	SortTime  SortKey = "time"
)

// Query is the whole filter/sort/page state of a list screen. Nothing else is
// remembered between renders.
type Query struct {
	Search    string
	Category  string
	Available *bool
	Sort      SortKey
	Desc      bool
	Page      int
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// ParseQuery reads search, category, available, sort, order and page from
// URL values. Unknown sort keys and bad numbers fall back to defaults.
func ParseQuery(values url.Values) Query {
	q := Query{
		Search:   strings.TrimSpace(values.Get("search")),
		Category: strings.TrimSpace(values.Get("category")),
		Page:     1,
	}

	if raw := values.Get("available"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			q.Available = &b
		}
	}

	switch SortKey(values.Get("sort")) {
	case SortName:
		q.Sort = SortName
	case SortPrice:
		q.Sort = SortPrice
	case SortTime:
		q.Sort = SortTime
	}
	q.Desc = strings.EqualFold(values.Get("order"), "desc")

	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		q.Page = p
	}

	return q
}

// Apply filters, sorts and slices items. The input slice is not modified.
// Pages past the end are clamped to the last page.
func Apply[T Listable](items []T, q Query, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = 1
	}

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, q) {
			filtered = append(filtered, item)
		}
	}

	if less := comparator[T](q.Sort); less != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			if q.Desc {
				return less(filtered[j], filtered[i])
			}
			return less(filtered[i], filtered[j])
		})
	}

	total := len(filtered)
	pages := (total + pageSize - 1) / pageSize
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = max(pages, 1)
	}

	from := (page - 1) * pageSize
	to := from + pageSize
	if from > total {
		from = total
	}
	if to > total {
		to = total
	}

	return Page[T]{
		Items:      filtered[from:to],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: pages,
	}
}

func matches[T Listable](item T, q Query) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(item.ListText()), strings.ToLower(q.Search)) {
		return false
	}
	if q.Category != "" && !strings.EqualFold(item.ListCategory(), q.Category) {
		return false
	}
	if q.Available != nil && item.ListAvailable() != *q.Available {
		return false
	}
	return true
}

func comparator[T Listable](key SortKey) func(a, b T) bool {
	switch key {
	case SortName:
		return func(a, b T) bool { return strings.ToLower(a.ListName()) < strings.ToLower(b.ListName()) }
	case SortPrice:
		return func(a, b T) bool { return a.ListPrice().LessThan(b.ListPrice()) }
	case SortTime:
		return func(a, b T) bool { return a.ListTime().Before(b.ListTime()) }
	}
	return nil
}
