// Package memtable provides an in-memory stand-in for a single DynamoDB table.
//
// It understands the request shapes issued by the store package: GetItem by hash
// key, paginated Scan and Query with projection expressions, equality key
// conditions on a global secondary index, and UpdateItem with SET clauses
// ("#a = :v" and "#a = #a + :v") guarded by attribute_exists. Every call runs
// under one mutex, so an update is atomic just as it is in DynamoDB.
package memtable

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Table is an in-memory DynamoDB table keyed by a single string hash key.
type Table struct {
	mu      sync.Mutex
	name    string
	hashKey string
	indexes map[string]string
	items   map[string]map[string]types.AttributeValue
	calls   map[string]int
	err     error

	// PageSize limits the items returned per Scan or Query page (0 = unlimited).
	PageSize int

	// MaxBatchWrites limits the puts accepted per BatchWriteItem call (0 = unlimited).
	MaxBatchWrites int
}

// New creates an empty table.
func New(name, hashKey string) *Table {
	return &Table{
		name:    name,
		hashKey: hashKey,
		indexes: make(map[string]string),
		items:   make(map[string]map[string]types.AttributeValue),
		calls:   make(map[string]int),
	}
}

// AddIndex registers a global secondary index partitioned on attr.
func (t *Table) AddIndex(name, attr string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.indexes[name] = attr
}

// Put stores an item, replacing any item with the same key.
func (t *Table) Put(item map[string]types.AttributeValue) error {
	key, err := t.keyOf(item)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[key] = copyItem(item)
	return nil
}

// Item returns a copy of the stored item, or nil.
func (t *Table) Item(key string) map[string]types.AttributeValue {
	t.mu.Lock()
	defer t.mu.Unlock()
	item, ok := t.items[key]
	if !ok {
		return nil
	}
	return copyItem(item)
}

// Len returns the number of stored items.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// Calls returns how many times op (e.g. "GetItem") was invoked.
func (t *Table) Calls(op string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[op]
}

// TotalCalls returns the number of API calls of any kind.
func (t *Table) TotalCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.calls {
		n += c
	}
	return n
}

// FailWith makes every subsequent call return err. Pass nil to clear.
func (t *Table) FailWith(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// begin records a call and returns the injected error, if any. Caller holds mu.
func (t *Table) begin(op, table string) error {
	t.calls[op]++
	if t.err != nil {
		return t.err
	}
	if table != t.name {
		return &types.ResourceNotFoundException{Message: aws.String("table not found: " + table)}
	}
	return nil
}

// GetItem implements the DynamoDB GetItem call.
func (t *Table) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.begin("GetItem", aws.ToString(params.TableName)); err != nil {
		return nil, err
	}
	key, err := t.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

// Scan implements the DynamoDB Scan call.
func (t *Table) Scan(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.begin("Scan", aws.ToString(params.TableName)); err != nil {
		return nil, err
	}
	attrs, err := projection(params.ProjectionExpression, params.ExpressionAttributeNames)
	if err != nil {
		return nil, err
	}
	keys := t.sortedKeys(func(map[string]types.AttributeValue) bool { return true })
	page, last, err := t.page(keys, params.ExclusiveStartKey, attrs)
	if err != nil {
		return nil, err
	}
	return &dynamodb.ScanOutput{Items: page, Count: int32(len(page)), LastEvaluatedKey: last}, nil
}

// Query implements the DynamoDB Query call for "<name> = <value>" key conditions.
func (t *Table) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.begin("Query", aws.ToString(params.TableName)); err != nil {
		return nil, err
	}

	partitionAttr := t.hashKey
	if params.IndexName != nil {
		attr, ok := t.indexes[*params.IndexName]
		if !ok {
			return nil, &types.ResourceNotFoundException{Message: aws.String("index not found: " + *params.IndexName)}
		}
		partitionAttr = attr
	}

	lhs, rhs, ok := strings.Cut(aws.ToString(params.KeyConditionExpression), " = ")
	if !ok {
		return nil, fmt.Errorf("memtable: unsupported key condition %q", aws.ToString(params.KeyConditionExpression))
	}
	attr := resolveName(strings.TrimSpace(lhs), params.ExpressionAttributeNames)
	if attr != partitionAttr {
		return nil, fmt.Errorf("memtable: key condition on %q, index partitioned on %q", attr, partitionAttr)
	}
	want, ok := params.ExpressionAttributeValues[strings.TrimSpace(rhs)].(*types.AttributeValueMemberS)
	if !ok {
		return nil, fmt.Errorf("memtable: key condition value %q must be a string", rhs)
	}

	attrs, err := projection(params.ProjectionExpression, params.ExpressionAttributeNames)
	if err != nil {
		return nil, err
	}
	keys := t.sortedKeys(func(item map[string]types.AttributeValue) bool {
		got, ok := item[attr].(*types.AttributeValueMemberS)
		return ok && got.Value == want.Value
	})
	page, last, err := t.page(keys, params.ExclusiveStartKey, attrs)
	if err != nil {
		return nil, err
	}
	return &dynamodb.QueryOutput{Items: page, Count: int32(len(page)), LastEvaluatedKey: last}, nil
}

// UpdateItem implements the DynamoDB UpdateItem call.
func (t *Table) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.begin("UpdateItem", aws.ToString(params.TableName)); err != nil {
		return nil, err
	}
	key, err := t.keyOf(params.Key)
	if err != nil {
		return nil, err
	}
	current, exists := t.items[key]

	if cond := aws.ToString(params.ConditionExpression); cond != "" {
		inner, ok := strings.CutPrefix(cond, "attribute_exists(")
		if !ok || !strings.HasSuffix(inner, ")") {
			return nil, fmt.Errorf("memtable: unsupported condition %q", cond)
		}
		attr := resolveName(strings.TrimSuffix(inner, ")"), params.ExpressionAttributeNames)
		if _, has := current[attr]; !exists || !has {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}

	next := copyItem(current)
	if next == nil {
		next = copyItem(params.Key)
	}

	clauses, ok := strings.CutPrefix(aws.ToString(params.UpdateExpression), "SET ")
	if !ok {
		return nil, fmt.Errorf("memtable: unsupported update %q", aws.ToString(params.UpdateExpression))
	}
	for _, clause := range strings.Split(clauses, ",") {
		lhs, rhs, ok := strings.Cut(clause, "=")
		if !ok {
			return nil, fmt.Errorf("memtable: malformed SET clause %q", clause)
		}
		target := resolveName(strings.TrimSpace(lhs), params.ExpressionAttributeNames)
		value, err := evalOperand(strings.TrimSpace(rhs), next, params.ExpressionAttributeNames, params.ExpressionAttributeValues)
		if err != nil {
			return nil, err
		}
		next[target] = value
	}

	t.items[key] = next
	return &dynamodb.UpdateItemOutput{}, nil
}

// BatchWriteItem implements the DynamoDB BatchWriteItem call for put requests.
// When MaxBatchWrites is set, requests beyond it are returned as unprocessed.
func (t *Table) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls["BatchWriteItem"]++
	if t.err != nil {
		return nil, t.err
	}

	unprocessed := make(map[string][]types.WriteRequest)
	written := 0
	for table, requests := range params.RequestItems {
		if table != t.name {
			return nil, &types.ResourceNotFoundException{Message: aws.String("table not found: " + table)}
		}
		for _, req := range requests {
			if req.PutRequest == nil {
				return nil, errors.New("memtable: only put requests are supported")
			}
			if t.MaxBatchWrites > 0 && written >= t.MaxBatchWrites {
				unprocessed[table] = append(unprocessed[table], req)
				continue
			}
			key, err := t.keyOf(req.PutRequest.Item)
			if err != nil {
				return nil, err
			}
			t.items[key] = copyItem(req.PutRequest.Item)
			written++
		}
	}
	return &dynamodb.BatchWriteItemOutput{UnprocessedItems: unprocessed}, nil
}

// evalOperand evaluates ":v" or "#a + :v" against the item being updated.
func evalOperand(expr string, item map[string]types.AttributeValue, names map[string]string, values map[string]types.AttributeValue) (types.AttributeValue, error) {
	left, right, isSum := strings.Cut(expr, "+")
	if !isSum {
		v, ok := values[expr]
		if !ok {
			return nil, fmt.Errorf("memtable: unknown value placeholder %q", expr)
		}
		return v, nil
	}

	attr := resolveName(strings.TrimSpace(left), names)
	base, ok := item[attr].(*types.AttributeValueMemberN)
	if !ok {
		return nil, errors.New("memtable: ValidationException: operand type mismatch for " + attr)
	}
	delta, ok := values[strings.TrimSpace(right)].(*types.AttributeValueMemberN)
	if !ok {
		return nil, fmt.Errorf("memtable: increment %q must be a number", right)
	}
	a, err := strconv.ParseInt(base.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("memtable: %s: %w", attr, err)
	}
	b, err := strconv.ParseInt(delta.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("memtable: increment: %w", err)
	}
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(a+b, 10)}, nil
}

// page returns up to PageSize projected items starting after startKey. Caller holds mu.
func (t *Table) page(keys []string, startKey map[string]types.AttributeValue, attrs []string) ([]map[string]types.AttributeValue, map[string]types.AttributeValue, error) {
	start := 0
	if len(startKey) > 0 {
		k, err := t.keyOf(startKey)
		if err != nil {
			return nil, nil, err
		}
		start = sort.SearchStrings(keys, k)
		if start < len(keys) && keys[start] == k {
			start++
		}
	}

	end := len(keys)
	if t.PageSize > 0 && start+t.PageSize < end {
		end = start + t.PageSize
	}

	items := make([]map[string]types.AttributeValue, 0, end-start)
	for _, k := range keys[start:end] {
		items = append(items, project(t.items[k], attrs))
	}

	var last map[string]types.AttributeValue
	if end < len(keys) {
		last = map[string]types.AttributeValue{
			t.hashKey: &types.AttributeValueMemberS{Value: keys[end-1]},
		}
	}
	return items, last, nil
}

// sortedKeys returns the keys of matching items in ascending order. Caller holds mu.
func (t *Table) sortedKeys(match func(map[string]types.AttributeValue) bool) []string {
	keys := make([]string, 0, len(t.items))
	for k, item := range t.items {
		if match(item) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (t *Table) keyOf(item map[string]types.AttributeValue) (string, error) {
	v, ok := item[t.hashKey].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("memtable: item has no string %s key", t.hashKey)
	}
	return v.Value, nil
}

// projection resolves a projection expression to attribute names; nil means all.
func projection(expr *string, names map[string]string) ([]string, error) {
	if expr == nil || *expr == "" {
		return nil, nil
	}
	var attrs []string
	for _, part := range strings.Split(*expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("memtable: malformed projection %q", *expr)
		}
		attrs = append(attrs, resolveName(part, names))
	}
	return attrs, nil
}

func project(item map[string]types.AttributeValue, attrs []string) map[string]types.AttributeValue {
	if attrs == nil {
		return copyItem(item)
	}
	out := make(map[string]types.AttributeValue, len(attrs))
	for _, a := range attrs {
		if v, ok := item[a]; ok {
			out[a] = v
		}
	}
	return out
}

func resolveName(token string, names map[string]string) string {
	if strings.HasPrefix(token, "#") {
		if n, ok := names[token]; ok {
			return n
		}
	}
	return token
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	if item == nil {
		return nil
	}
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
