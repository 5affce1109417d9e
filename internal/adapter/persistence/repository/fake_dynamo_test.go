package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamo keeps items per table keyed by their "id" attribute. It only
// understands the expressions the repositories send.
type fakeDynamo struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
	err    error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func (f *fakeDynamo) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := f.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		f.tables[name] = t
	}
	return t
}

func keyOf(item map[string]types.AttributeValue) string {
	if s, ok := item["id"].(*types.AttributeValueMemberS); ok {
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
	t := f.table(*in.TableName)
	id := keyOf(in.Item)
	if _, exists := t[id]; exists && in.ConditionExpression != nil && strings.Contains(*in.ConditionExpression, "attribute_not_exists") {
		return nil, &types.ConditionalCheckFailedException{}
	}
	t[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.table(*in.TableName)[keyOf(in.Key)]}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if err := checkNames(in.ConditionExpression, in.ExpressionAttributeNames); err != nil {
		return nil, err
	}
	item, ok := f.table(*in.TableName)[keyOf(in.Key)]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}

	// "SET #a = :a, #b = :b"
	assignments := strings.TrimPrefix(*in.UpdateExpression, "SET ")
	for _, a := range strings.Split(assignments, ",") {
		parts := strings.SplitN(strings.TrimSpace(a), " = ", 2)
		if len(parts) != 2 {
			return nil, errors.New("unsupported update expression")
		}
		item[in.ExpressionAttributeNames[parts[0]]] = in.ExpressionAttributeValues[parts[1]]
	}
	return &dynamodb.UpdateItemOutput{Attributes: item}, nil
}

// checkNames fails like DynamoDB does when an expression uses a #name that is
// not declared in ExpressionAttributeNames.
func checkNames(expr *string, names map[string]string) error {
	if expr == nil {
		return nil
	}
	for _, field := range strings.FieldsFunc(*expr, func(r rune) bool {
		return r == '(' || r == ')' || r == ' ' || r == ','
	}) {
		if strings.HasPrefix(field, "#") {
			if _, ok := names[field]; !ok {
				return errors.New("ValidationException: undefined attribute name " + field)
			}
		}
	}
	return nil
}
