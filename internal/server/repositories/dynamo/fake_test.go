package dynamo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory table. Conditions are honoured by checking
// whether the expression asks for the key to exist or not; scan filters are
// recorded but not evaluated.
type fakeClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue

	pageSize int
	scans    []*dynamodb.ScanInput
	err      error

	describeErr error
	created     *dynamodb.CreateTableInput
}

func newFakeClient() *fakeClient {
	return &fakeClient{items: map[string]map[string]types.AttributeValue{}, pageSize: 2}
}

func keyString(av map[string]types.AttributeValue) string {
	if s, ok := av[attrKey].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func checkCondition(cond *string, exists bool) error {
	if cond == nil {
		return nil
	}
	wantMissing := strings.HasPrefix(*cond, "attribute_not_exists")
	if wantMissing == exists {
		return &types.ConditionalCheckFailedException{Message: aws.String("conditional check failed")}
	}
	return nil
}

func (f *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := keyString(in.Item)
	_, exists := f.items[k]
	if err := checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[keyString(in.Key)]}, nil
}

func (f *fakeClient) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	k := keyString(in.Key)
	_, exists := f.items[k]
	if err := checkCondition(in.ConditionExpression, exists); err != nil {
		return nil, err
	}
	delete(f.items, k)
	return &dynamodb.DeleteItemOutput{}, nil
}

// Scan returns items ordered by key in pages of pageSize.
func (f *fakeClient) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.scans = append(f.scans, in)

	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if in.ExclusiveStartKey != nil {
		after := keyString(in.ExclusiveStartKey)
		start = sort.SearchStrings(keys, after) + 1
	}
	end := min(start+f.pageSize, len(keys))

	out := &dynamodb.ScanOutput{}
	for _, k := range keys[start:end] {
		out.Items = append(out.Items, f.items[k])
	}
	if end < len(keys) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{attrKey: &types.AttributeValueMemberS{Value: keys[end-1]}}
	}
	return out, nil
}

func (f *fakeClient) DescribeTable(_ context.Context, in *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if f.created != nil {
		return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
			TableName:   in.TableName,
			TableStatus: types.TableStatusActive,
		}}, nil
	}
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableName: in.TableName, TableStatus: types.TableStatusActive}}, nil
}

func (f *fakeClient) CreateTable(_ context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	f.created = in
	return &dynamodb.CreateTableOutput{}, nil
}
