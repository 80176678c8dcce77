package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in a map and understands just enough of the
// expressions the repositories send.
type fakeDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
	seq   int64
	err   error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func keyOf(item map[string]types.AttributeValue) string {
	return item["PK"].(*types.AttributeValueMemberS).Value + "|" + item["SK"].(*types.AttributeValueMemberS).Value
}

func strAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := keyOf(in.Item)
	_, exists := f.items[k]
	cond := aws.ToString(in.ConditionExpression)
	if strings.HasPrefix(cond, "attribute_not_exists") && exists ||
		strings.HasPrefix(cond, "attribute_exists") && !exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("conditional check failed")}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, _ *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{
		"Seq": &types.AttributeValueMemberN{Value: strconv.FormatInt(f.seq, 10)},
	}}, nil
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[string]bool)
	for _, v := range in.ExpressionAttributeValues {
		if s, ok := v.(*types.AttributeValueMemberS); ok {
			wanted[s.Value] = true
		}
	}
	var out []map[string]types.AttributeValue
	for _, item := range f.items {
		if wanted[strAttr(item, "GSI1PK")] {
			out = append(out, item)
		}
	}
	return &dynamodb.QueryOutput{Items: out}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, _ *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []map[string]types.AttributeValue
	for _, item := range f.items {
		if strings.HasPrefix(strAttr(item, "PK"), "ORDER#") {
			out = append(out, item)
		}
	}
	return &dynamodb.ScanOutput{Items: out}, nil
}

func newOrder(id string, status domain.Status, created time.Time) *domain.Order {
	table := 4
	return &domain.Order{
		ID:          id,
		OrderNumber: "ORD" + id,
		Customer:    domain.Customer{Name: "Priya Sharma", Phone: "+919876554321"},
		Items: []domain.LineItem{{
			MenuItem:  domain.MenuItemRef{ID: "7", Name: "Paneer Makhani", Price: 295},
			Quantity:  1,
			UnitPrice: 295,
			Subtotal:  295,
		}},
		Status:        status,
		OrderType:     domain.OrderTypeDineIn,
		TableNumber:   &table,
		Subtotal:      295,
		Tax:           23.6,
		Total:         318.6,
		PaymentMethod: domain.PaymentCard,
		PaymentStatus: domain.PaymentPending,
		StatusHistory: []domain.StatusEntry{{Status: domain.StatusPlaced, Timestamp: created, UpdatedBy: domain.SystemActor}},
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestDynamoOrderRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewDynamoOrderRepository(newFakeDynamo(), "orders")
	created := time.Date(2024, 12, 8, 10, 30, 0, 0, time.UTC)

	order := newOrder("a1", domain.StatusPlaced, created)
	require.NoError(t, repo.Create(ctx, order))
	assert.Error(t, repo.Create(ctx, order))

	got, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, order.Total, got.Total)
	assert.Equal(t, "Paneer Makhani", got.Items[0].MenuItem.Name)
	require.NotNil(t, got.TableNumber)
	assert.Equal(t, 4, *got.TableNumber)
	assert.True(t, created.Equal(got.CreatedAt))

	require.NoError(t, got.Transition(domain.StatusConfirmed, "staff1", created.Add(time.Minute)))
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, again.Status)
	assert.Len(t, again.StatusHistory, 2)

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrOrderNotFound))
	assert.True(t, errors.Is(repo.Update(ctx, newOrder("missing", domain.StatusPlaced, created)), domain.ErrOrderNotFound))
}

func TestDynamoOrderRepository_NextSequence(t *testing.T) {
	ctx := context.Background()
	repo := NewDynamoOrderRepository(newFakeDynamo(), "orders")

	first, err := repo.NextSequence(ctx)
	require.NoError(t, err)
	second, err := repo.NextSequence(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestDynamoOrderRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewDynamoOrderRepository(newFakeDynamo(), "orders")
	base := time.Date(2024, 12, 8, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newOrder("a1", domain.StatusPlaced, base)))
	require.NoError(t, repo.Create(ctx, newOrder("a2", domain.StatusReady, base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newOrder("a3", domain.StatusPlaced, base.Add(2*time.Hour))))
	_, err := repo.NextSequence(ctx)
	require.NoError(t, err)

	page, total, err := repo.List(ctx, domain.OrderQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, "a3", page[0].ID)

	page, total, err = repo.List(ctx, domain.OrderQuery{Status: domain.StatusPlaced, SortOrder: domain.SortAsc})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "a1", page[0].ID)
	assert.Equal(t, "a3", page[1].ID)
}

func TestDynamoOrderRepository_Unavailable(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	fake.err = errors.New("dial tcp: connection refused")
	repo := NewDynamoOrderRepository(fake, "orders")

	_, err := repo.NextSequence(ctx)
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
	assert.True(t, errors.Is(repo.Create(ctx, newOrder("a1", domain.StatusPlaced, time.Now())), domain.ErrUnavailable))
	_, err = repo.Get(ctx, "a1")
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
	_, _, err = repo.List(ctx, domain.OrderQuery{})
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

func TestDynamoOrderRepository_CancelledRequest(t *testing.T) {
	fake := newFakeDynamo()
	fake.err = fmt.Errorf("operation error DynamoDB: GetItem, %w", context.Canceled)
	repo := NewDynamoOrderRepository(fake, "orders")

	_, err := repo.Get(context.Background(), "a1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, domain.ErrUnavailable))
}

func TestDynamoMenuRepository_GetMenuItem(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	fake.items["MENU#8|METADATA"] = map[string]types.AttributeValue{
		"PK":              &types.AttributeValueMemberS{Value: "MENU#8"},
		"SK":              &types.AttributeValueMemberS{Value: metadataSK},
		"ID":              &types.AttributeValueMemberS{Value: "8"},
		"Name":            &types.AttributeValueMemberS{Value: "Chicken Biryani"},
		"Category":        &types.AttributeValueMemberS{Value: "main_course"},
		"Price":           &types.AttributeValueMemberN{Value: "385"},
		"Availability":    &types.AttributeValueMemberBOOL{Value: true},
		"PreparationTime": &types.AttributeValueMemberN{Value: "45"},
	}
	repo := NewDynamoMenuRepository(fake, "menu")

	item, err := repo.GetMenuItem(ctx, "8")
	require.NoError(t, err)
	assert.Equal(t, "Chicken Biryani", item.Name)
	assert.Equal(t, 385.0, item.Price)
	assert.True(t, item.Availability)

	_, err = repo.GetMenuItem(ctx, "99")
	assert.True(t, errors.Is(err, domain.ErrMenuItemNotFound))
}
