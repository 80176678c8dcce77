package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []*Order {
	base := time.Date(2024, 12, 8, 10, 0, 0, 0, time.UTC)
	statuses := []Status{StatusDelivered, StatusReady, StatusPlaced, StatusPlaced, StatusCancelled}
	types := []OrderType{OrderTypeTakeout, OrderTypeDineIn, OrderTypeDelivery, OrderTypeDineIn, OrderTypeTakeout}

	orders := make([]*Order, 0, len(statuses))
	for i := range statuses {
		orders = append(orders, &Order{
			ID:          fmt.Sprintf("order%d", i+1),
			OrderNumber: fmt.Sprintf("MB%03d", i+1),
			Status:      statuses[i],
			OrderType:   types[i],
			Customer:    Customer{Phone: fmt.Sprintf("+91987650000%d", i)},
			Total:       float64(100 * (5 - i)),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	return orders
}

func ids(orders []Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestApplyQuery_Defaults(t *testing.T) {
	page, total := ApplyQuery(sampleOrders(), OrderQuery{})

	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"order5", "order4", "order3", "order2", "order1"}, ids(page))
}

func TestApplyQuery_Filters(t *testing.T) {
	tests := []struct {
		name string
		q    OrderQuery
		want []string
	}{
		{"status", OrderQuery{Status: StatusPlaced}, []string{"order4", "order3"}},
		{"order type", OrderQuery{OrderType: OrderTypeTakeout}, []string{"order5", "order1"}},
		{"phone substring", OrderQuery{CustomerPhone: "0003"}, []string{"order4"}},
		{"status and type", OrderQuery{Status: StatusPlaced, OrderType: OrderTypeDelivery}, []string{"order3"}},
		{"no match", OrderQuery{Status: StatusConfirmed}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, total := ApplyQuery(sampleOrders(), tt.q)
			assert.Equal(t, len(tt.want), total)
			assert.Equal(t, tt.want, ids(page))
		})
	}
}

func TestApplyQuery_DateRangeInclusive(t *testing.T) {
	start := time.Date(2024, 12, 8, 11, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 8, 13, 0, 0, 0, time.UTC)

	page, total := ApplyQuery(sampleOrders(), OrderQuery{StartDate: &start, EndDate: &end, SortOrder: SortAsc})

	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"order2", "order3", "order4"}, ids(page))
}

func TestApplyQuery_SortAndPaging(t *testing.T) {
	q := OrderQuery{SortBy: "total", SortOrder: SortAsc, Page: 2, Limit: 2}

	page, total := ApplyQuery(sampleOrders(), q)

	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"order3", "order2"}, ids(page))

	q.Page = 4
	page, _ = ApplyQuery(sampleOrders(), q)
	assert.Empty(t, page)
}

func TestApplyQuery_ReturnsCopies(t *testing.T) {
	orders := sampleOrders()

	page, _ := ApplyQuery(orders, OrderQuery{Limit: 1})
	require.Len(t, page, 1)
	page[0].Status = StatusDelivered

	assert.Equal(t, StatusCancelled, orders[4].Status)
}

func TestNormalize(t *testing.T) {
	q := OrderQuery{Page: -1, Limit: 1000, SortBy: "unknown", SortOrder: "sideways"}
	q.Normalize()

	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, "createdAt", q.SortBy)
	assert.Equal(t, SortDesc, q.SortOrder)
}

func TestNewPagination(t *testing.T) {
	q := OrderQuery{Page: 2, Limit: 10}

	assert.Equal(t, Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 25, ItemsPerPage: 10}, NewPagination(q, 25))
	assert.Equal(t, 0, NewPagination(q, 0).TotalPages)
}
