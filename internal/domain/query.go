package domain

import (
	"sort"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortFields maps the accepted sortBy values to their comparators.
var SortFields = map[string]func(a, b *Order) int{
	"createdAt":   func(a, b *Order) int { return compareTime(a.CreatedAt, b.CreatedAt) },
	"updatedAt":   func(a, b *Order) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
	"total":       func(a, b *Order) int { return compareFloat(a.Total, b.Total) },
	"subtotal":    func(a, b *Order) int { return compareFloat(a.Subtotal, b.Subtotal) },
	"orderNumber": func(a, b *Order) int { return strings.Compare(a.OrderNumber, b.OrderNumber) },
	"status":      func(a, b *Order) int { return strings.Compare(string(a.Status), string(b.Status)) },
}

type OrderQuery struct {
	Status        Status
	OrderType     OrderType
	CustomerPhone string
	StartDate     *time.Time
	EndDate       *time.Time

	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Normalize fills defaults for unset paging and sorting fields.
func (q *OrderQuery) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if _, ok := SortFields[q.SortBy]; !ok {
		q.SortBy = "createdAt"
	}
	if q.SortOrder != SortAsc {
		q.SortOrder = SortDesc
	}
}

func (q OrderQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Matches applies the filter predicates to a single order.
func (q OrderQuery) Matches(o *Order) bool {
	if q.Status != "" && o.Status != q.Status {
		return false
	}
	if q.OrderType != "" && o.OrderType != q.OrderType {
		return false
	}
	if q.CustomerPhone != "" &&
		!strings.Contains(strings.ToLower(o.Customer.Phone), strings.ToLower(q.CustomerPhone)) {
		return false
	}
	if q.StartDate != nil && o.CreatedAt.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && o.CreatedAt.After(*q.EndDate) {
		return false
	}
	return true
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

func NewPagination(q OrderQuery, total int) Pagination {
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return Pagination{
		CurrentPage:  q.Page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: q.Limit,
	}
}

// ApplyQuery filters, sorts and pages orders in memory. It returns the page
// and the number of orders that matched before paging.
func ApplyQuery(orders []*Order, q OrderQuery) ([]Order, int) {
	q.Normalize()

	matched := make([]*Order, 0, len(orders))
	for _, o := range orders {
		if q.Matches(o) {
			matched = append(matched, o)
		}
	}

	cmp := SortFields[q.SortBy]
	sort.SliceStable(matched, func(i, j int) bool {
		c := cmp(matched[i], matched[j])
		if q.SortOrder == SortDesc {
			return c > 0
		}
		return c < 0
	})

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	page := make([]Order, 0, end-start)
	for _, o := range matched[start:end] {
		page = append(page, *o.Clone())
	}
	return page, total
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
