package jobs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoStore implements Store on a DynamoDB table with partition key
// user_id (S) and sort key added_at (N).
type DynamoStore struct {
	client *dynamodb.Client
	table  string
}

var _ Store = (*DynamoStore)(nil)

// NewDynamoStore creates a DynamoStore for the given table.
func NewDynamoStore(client *dynamodb.Client, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

func (s *DynamoStore) Put(ctx context.Context, r Record) error {
	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("marshaling job record: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("writing job record: %w", err)
	}
	return nil
}

func (s *DynamoStore) Latest(ctx context.Context, userID string) (*Record, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("querying latest job record: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	return unmarshalRecord(out.Items[0])
}

func (s *DynamoStore) FindByJobID(ctx context.Context, userID, jobID string) (*Record, error) {
	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("user_id = :uid"),
		FilterExpression:       aws.String("job_id = :jid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
			":jid": &types.AttributeValueMemberS{Value: jobID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying job record by id: %w", err)
	}
	if len(out.Items) == 0 {
		return nil, nil
	}
	return unmarshalRecord(out.Items[0])
}

func (s *DynamoStore) UpdateStatus(ctx context.Context, userID string, addedAt int64, status Status) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(s.table),
		Key:              recordKey(userID, addedAt),
		UpdateExpression: aws.String("SET #s = :val"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":val": &types.AttributeValueMemberS{Value: string(status)},
		},
	})
	if err != nil {
		return fmt.Errorf("updating job status: %w", err)
	}
	return nil
}

func (s *DynamoStore) Delete(ctx context.Context, userID string, addedAt int64) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       recordKey(userID, addedAt),
	})
	if err != nil {
		return fmt.Errorf("deleting job record: %w", err)
	}
	return nil
}

func recordKey(userID string, addedAt int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id":  &types.AttributeValueMemberS{Value: userID},
		"added_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(addedAt, 10)},
	}
}

func unmarshalRecord(item map[string]types.AttributeValue) (*Record, error) {
	var r Record
	if err := attributevalue.UnmarshalMap(item, &r); err != nil {
		return nil, fmt.Errorf("unmarshaling job record: %w", err)
	}
	return &r, nil
}
