package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
	pkgconfig "github.com/cloud-wave-best-zizon/restaurant-order-service/pkg/config"
)

const (
	metadataSK = "METADATA"
	statusIdx  = "GSI1"
	counterPK  = "COUNTER#ORDER"
)

// DynamoAPI is the part of *dynamodb.Client the stores use.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, opts ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type DynamoOrderRepository struct {
	client    DynamoAPI
	tableName string
}

var (
	_ OrderRepository = (*DynamoOrderRepository)(nil)
	_ MenuRepository  = (*DynamoMenuRepository)(nil)
)

func NewDynamoDBClient(ctx context.Context, cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		// DynamoDB Local
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

func NewDynamoOrderRepository(client DynamoAPI, tableName string) *DynamoOrderRepository {
	return &DynamoOrderRepository{
		client:    client,
		tableName: tableName,
	}
}

func orderKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "ORDER#" + id},
		"SK": &types.AttributeValueMemberS{Value: metadataSK},
	}
}

func unavailable(op string, err error) error {
	return domain.Unavailable(op, err)
}

// NextSequence increments the order counter item with an atomic ADD.
func (r *DynamoOrderRepository) NextSequence(ctx context.Context) (int64, error) {
	update := expression.Add(expression.Name("Seq"), expression.Value(1))
	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return 0, err
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: counterPK},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, unavailable("next sequence", err)
	}

	var seq int64
	if err := attributevalue.Unmarshal(out.Attributes["Seq"], &seq); err != nil {
		return 0, fmt.Errorf("failed to unmarshal order sequence: %w", err)
	}
	return seq, nil
}

func (r *DynamoOrderRepository) marshal(order *domain.Order) (map[string]types.AttributeValue, error) {
	// Order를 DynamoDB 아이템으로 변환
	av, err := attributevalue.MarshalMap(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order: %w", err)
	}

	// PK, SK, 상태 인덱스 키 추가
	for k, v := range orderKey(order.ID) {
		av[k] = v
	}
	av["GSI1PK"] = &types.AttributeValueMemberS{Value: "STATUS#" + string(order.Status)}
	av["GSI1SK"] = &types.AttributeValueMemberS{Value: "ORDER#" + order.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z")}
	return av, nil
}

func (r *DynamoOrderRepository) put(ctx context.Context, order *domain.Order, cond expression.ConditionBuilder) error {
	av, err := r.marshal(order)
	if err != nil {
		return err
	}
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	return err
}

func (r *DynamoOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.put(ctx, order, expression.AttributeNotExists(expression.Name("PK")))
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	if err != nil {
		return unavailable("put order", err)
	}
	return nil
}

func (r *DynamoOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	err := r.put(ctx, order, expression.AttributeExists(expression.Name("PK")))
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return unavailable("update order", err)
	}
	return nil
}

func (r *DynamoOrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            orderKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, unavailable("get order", err)
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrOrderNotFound
	}

	var order domain.Order
	if err := attributevalue.UnmarshalMap(out.Item, &order); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order: %w", err)
	}
	return &order, nil
}

// List reads the matching orders and pages them in memory. A status filter
// is served from the status index, everything else from a filtered scan.
func (r *DynamoOrderRepository) List(ctx context.Context, q domain.OrderQuery) ([]domain.Order, int, error) {
	var (
		items []map[string]types.AttributeValue
		err   error
	)
	if q.Status != "" {
		items, err = r.queryByStatus(ctx, q)
	} else {
		items, err = r.scan(ctx, q)
	}
	if err != nil {
		return nil, 0, unavailable("list orders", err)
	}

	orders := make([]*domain.Order, 0, len(items))
	for _, item := range items {
		var o domain.Order
		if err := attributevalue.UnmarshalMap(item, &o); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		orders = append(orders, &o)
	}

	page, total := domain.ApplyQuery(orders, q)
	return page, total, nil
}

func (r *DynamoOrderRepository) queryByStatus(ctx context.Context, q domain.OrderQuery) ([]map[string]types.AttributeValue, error) {
	builder := expression.NewBuilder().WithKeyCondition(
		expression.Key("GSI1PK").Equal(expression.Value("STATUS#" + string(q.Status))),
	)
	if q.OrderType != "" {
		builder = builder.WithFilter(expression.Name("OrderType").Equal(expression.Value(string(q.OrderType))))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	p := dynamodb.NewQueryPaginator(r.client, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(statusIdx),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
	}
	return items, nil
}

func (r *DynamoOrderRepository) scan(ctx context.Context, q domain.OrderQuery) ([]map[string]types.AttributeValue, error) {
	filter := expression.Name("PK").BeginsWith("ORDER#")
	if q.OrderType != "" {
		filter = filter.And(expression.Name("OrderType").Equal(expression.Value(string(q.OrderType))))
	}
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, out.Items...)
	}
	return items, nil
}
