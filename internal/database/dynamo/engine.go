// Package dynamo stores each collection in its own DynamoDB table keyed by
// the schema key. String-set fields are stored as native SS attributes so
// AddToSet maps onto a single UpdateItem ADD.
package dynamo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"adonix/internal/database"
	"adonix/pkg/platform/sentinel"
)

// API is the subset of the DynamoDB client the engine calls.
type API interface {
	dynamodb.DescribeTableAPIClient
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

const defaultTableWait = 2 * time.Minute

// Engine creates tables named TablePrefix + identifier.
type Engine struct {
	api         API
	tablePrefix string
	tableWait   time.Duration
}

type Option func(*Engine)

// WithTablePrefix namespaces every table, e.g. per deployment stage.
func WithTablePrefix(prefix string) Option {
	return func(e *Engine) {
		e.tablePrefix = prefix
	}
}

// WithTableWait bounds how long EnsureCollection waits for a new table to
// become ACTIVE.
func WithTableWait(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.tableWait = d
		}
	}
}

func New(api API, opts ...Option) *Engine {
	e := &Engine{api: api, tableWait: defaultTableWait}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Name() string { return "dynamodb" }

func (e *Engine) Ping(ctx context.Context) error {
	if _, err := e.api.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return fmt.Errorf("ping dynamodb: %w", errors.Join(sentinel.ErrUnavailable, err))
	}
	return nil
}

func (e *Engine) EnsureCollection(ctx context.Context, id database.Identifier, schema database.Schema) (database.Collection, error) {
	table := e.tablePrefix + id.String()
	coll := &Collection{
		api:    e.api,
		id:     id,
		table:  table,
		schema: schema,
	}

	_, err := e.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err == nil {
		return coll, nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return nil, fmt.Errorf("describe table %s: %w", table, err)
	}

	_, err = e.api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(schema.Key), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(schema.Key), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	var inUse *types.ResourceInUseException
	if err != nil && !errors.As(err, &inUse) {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(e.api)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, e.tableWait); err != nil {
		return nil, fmt.Errorf("wait for table %s: %w", table, err)
	}
	return coll, nil
}

// Collection is one DynamoDB table.
type Collection struct {
	api    API
	id     database.Identifier
	table  string
	schema database.Schema
}

func (c *Collection) Identifier() database.Identifier { return c.id }

func (c *Collection) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		c.schema.Key: &types.AttributeValueMemberS{Value: key},
	}
}

func (c *Collection) Find(ctx context.Context, key string) (database.Document, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            c.itemKey(key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return fromItem(out.Item)
}

func (c *Collection) Replace(ctx context.Context, key string, doc database.Document) error {
	item, err := c.toItem(doc)
	if err != nil {
		return err
	}
	item[c.schema.Key] = &types.AttributeValueMemberS{Value: key}

	if _, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

func (c *Collection) Delete(ctx context.Context, key string) error {
	out, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(c.table),
		Key:          c.itemKey(key),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if len(out.Attributes) == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// AddToSet issues "ADD <field> :member". DynamoDB creates the item when the
// key is absent and applies set union server-side.
func (c *Collection) AddToSet(ctx context.Context, key, field, value string) error {
	_, err := c.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(c.table),
		Key:                      c.itemKey(key),
		UpdateExpression:         aws.String("ADD #set :member"),
		ExpressionAttributeNames: map[string]string{"#set": field},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":member": &types.AttributeValueMemberSS{Value: []string{value}},
		},
	})
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func (c *Collection) toItem(doc database.Document) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(doc))
	for name, raw := range doc {
		if f, ok := c.schema.Field(name); ok && f.Type == database.FieldStringSet {
			var vals []string
			if err := json.Unmarshal(raw, &vals); err != nil {
				return nil, fmt.Errorf("decode set %q: %w", name, sentinel.ErrInvalidState)
			}
			// DynamoDB rejects empty and duplicate-bearing sets.
			slices.Sort(vals)
			vals = slices.Compact(vals)
			if len(vals) > 0 {
				item[name] = &types.AttributeValueMemberSS{Value: vals}
			}
			continue
		}

		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode field %q: %w", name, err)
		}
		if v == nil {
			continue
		}
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", name, err)
		}
		item[name] = av
	}
	return item, nil
}

func fromItem(item map[string]types.AttributeValue) (database.Document, error) {
	doc := make(database.Document, len(item))
	for name, av := range item {
		var v any
		if ss, ok := av.(*types.AttributeValueMemberSS); ok {
			vals := slices.Clone(ss.Value)
			slices.Sort(vals)
			v = vals
		} else if err := attributevalue.Unmarshal(av, &v); err != nil {
			return nil, fmt.Errorf("unmarshal field %q: %w", name, err)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", name, err)
		}
		doc[name] = raw
	}
	return doc, nil
}
