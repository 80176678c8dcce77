package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
)

var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"total":       "(document->>'total')::numeric",
	"subtotal":    "(document->>'subtotal')::numeric",
	"orderNumber": "order_number",
	"status":      "status",
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('order_number_seq')`).Scan(&seq); err != nil {
		return 0, classify("next sequence", err)
	}
	return seq, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, status, order_type, customer_phone, created_at, updated_at, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, order.ID, order.OrderNumber, string(order.Status), string(order.OrderType),
		order.Customer.Phone, order.CreatedAt, order.UpdatedAt, doc)
	if err != nil {
		return classify("insert order", err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT document FROM orders WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, classify("get order", err)
	}

	var order domain.Order
	if err := json.Unmarshal(doc, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

func (r *OrderRepository) List(ctx context.Context, q domain.OrderQuery) ([]domain.Order, int, error) {
	q.Normalize()

	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if q.Status != "" {
		add("status = $%d", string(q.Status))
	}
	if q.OrderType != "" {
		add("order_type = $%d", string(q.OrderType))
	}
	if q.CustomerPhone != "" {
		// literal substring, so % and _ in the filter are not wildcards
		add("strpos(lower(customer_phone), lower($%d)) > 0", q.CustomerPhone)
	}
	if q.StartDate != nil {
		add("created_at >= $%d", *q.StartDate)
	}
	if q.EndDate != nil {
		add("created_at <= $%d", *q.EndDate)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, classify("count orders", err)
	}

	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	query := fmt.Sprintf(`SELECT document FROM orders%s ORDER BY %s %s, id LIMIT $%d OFFSET $%d`,
		where, sortColumns[q.SortBy], dir, len(args)+1, len(args)+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, classify("list orders", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0, q.Limit)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, classify("scan order", err)
		}
		var o domain.Order
		if err := json.Unmarshal(doc, &o); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify("list orders", err)
	}
	return orders, total, nil
}

func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	doc, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = $3, document = $4
		WHERE id = $1
	`, order.ID, string(order.Status), order.UpdatedAt, doc)
	if err != nil {
		return classify("update order", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify("update order", err)
	}
	if n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
