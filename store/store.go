package store

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Store provides typed DynamoDB operations on the mysfits table.
// A Store holds no mutable state and is safe for concurrent use.
type Store struct {
	client DynamoDBAPI
	config Config
}

// New creates a new Store instance.
func New(client DynamoDBAPI, config Config) *Store {
	config.validate()
	return &Store{
		client: client,
		config: config,
	}
}

// Config returns the validated configuration.
func (s *Store) Config() Config {
	return s.config
}

// Get retrieves a mysfit by id, returning ErrNotFound if it doesn't exist.
func (s *Store) Get(ctx context.Context, id string) (*Mysfit, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.TableName),
		Key:            KeyFor(id),
		ConsistentRead: aws.Bool(s.config.ConsistentRead),
	})
	if err != nil {
		return nil, storeError("get item", err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	return decodeMysfit(result.Item)
}

// Scan returns a summary of every mysfit. Order is whatever DynamoDB returns.
func (s *Store) Scan(ctx context.Context) ([]Summary, error) {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                aws.String(s.config.TableName),
		ProjectionExpression:     aws.String(SummaryProjectionExpr()),
		ExpressionAttributeNames: SummaryProjectionNames(),
		ConsistentRead:           aws.Bool(s.config.ConsistentRead),
	})

	summaries := []Summary{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("scan", err)
		}
		if summaries, err = decodeSummaries(summaries, page.Items); err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// QueryByIndex returns a summary of every mysfit whose filter attribute equals value.
// The filter and value are validated before DynamoDB is called.
func (s *Store) QueryByIndex(ctx context.Context, filter Filter, value string) ([]Summary, error) {
	if !filter.Valid() {
		return nil, ErrInvalidFilter
	}
	if value == "" {
		return nil, ErrMissingValue
	}

	exprNames := mergeExprNames(
		map[string]string{"#filter": filter.Attribute()},
		SummaryProjectionNames(),
	)

	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                aws.String(s.config.TableName),
		IndexName:                aws.String(s.config.indexFor(filter)),
		KeyConditionExpression:   aws.String("#filter = :value"),
		ProjectionExpression:     aws.String(SummaryProjectionExpr()),
		ExpressionAttributeNames: exprNames,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
		},
	})

	summaries := []Summary{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("query", err)
		}
		if summaries, err = decodeSummaries(summaries, page.Items); err != nil {
			return nil, err
		}
	}
	return summaries, nil
}

// IncrementLikes adds one to a mysfit's like counter.
// The increment is a single UpdateItem so concurrent likes are never lost.
func (s *Store) IncrementLikes(ctx context.Context, id string) error {
	return s.update(ctx, id, "SET #likes = #likes + :inc",
		map[string]string{"#likes": AttrLikes},
		map[string]types.AttributeValue{
			":inc": &types.AttributeValueMemberN{Value: "1"},
		},
	)
}

// Adopt marks a mysfit as adopted. Adopting twice is not an error.
func (s *Store) Adopt(ctx context.Context, id string) error {
	return s.update(ctx, id, "SET #adopted = :adopted",
		map[string]string{"#adopted": AttrAdopted},
		map[string]types.AttributeValue{
			":adopted": &types.AttributeValueMemberBOOL{Value: true},
		},
	)
}

// update applies an update expression to an existing mysfit.
// The existence condition keeps UpdateItem from creating a new item for an unknown id.
func (s *Store) update(ctx context.Context, id, updateExpr string, names map[string]string, values map[string]types.AttributeValue) error {
	if id == "" {
		return ErrNotFound
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       KeyFor(id),
		UpdateExpression:          aws.String(updateExpr),
		ConditionExpression:       aws.String(ExistsCondition()),
		ExpressionAttributeNames:  mergeExprNames(names, ExistsNames()),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrNotFound
		}
		return storeError("update item", err)
	}
	return nil
}
