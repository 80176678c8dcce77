package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cloud-wave-best-zizon/restaurant-order-service/internal/domain"
)

// DynamoMenuRepository reads menu items from the catalog table. Items are keyed
// MENU#<id> / METADATA.
type DynamoMenuRepository struct {
	client    DynamoAPI
	tableName string
}

func NewDynamoMenuRepository(client DynamoAPI, tableName string) *DynamoMenuRepository {
	return &DynamoMenuRepository{
		client:    client,
		tableName: tableName,
	}
}

func (r *DynamoMenuRepository) GetMenuItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "MENU#" + id},
			"SK": &types.AttributeValueMemberS{Value: metadataSK},
		},
	})
	if err != nil {
		return nil, unavailable("get menu item", err)
	}
	if len(out.Item) == 0 {
		return nil, domain.ErrMenuItemNotFound
	}

	var item domain.MenuItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal menu item: %w", err)
	}
	return &item, nil
}
