// Package dynamostore provides an implementation of [store.Store] that
// persists to a DynamoDB table.
package dynamostore

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/recordkit/driver/aws/internal/dynamox"
	"github.com/dogmatiq/recordkit/internal/syncx"
	"github.com/dogmatiq/recordkit/store"
)

var (
	// keyspaceAttr is the name of the attribute that stores the keyspace name
	// on each item. Together with [keyAttr], it forms the primary key of the
	// table.
	keyspaceAttr = "S"

	// keyAttr is the name of the attribute that stores the key on each item.
	// Because it is the table's sort key, DynamoDB orders the items within a
	// keyspace by key, which is what makes range scans possible.
	keyAttr = "K"

	// valueAttr is the name of the attribute that stores the value on each
	// item.
	valueAttr = "V"

	// nonExistentAttr is the name of an attribute that does not exist on any
	// item. It is used to test for the existence of an item without fetching
	// unnecessary data.
	nonExistentAttr = "X"
)

// NewStore returns a new [store.Store] that uses the given DynamoDB client to
// store key/value pairs in the given table.
//
// The table is created if it does not exist.
func NewStore(
	client *dynamodb.Client,
	table string,
	options ...Option,
) store.Store {
	if table == "" {
		panic("table name must not be empty")
	}

	s := &dynamoStore{
		Client: client,
		Table:  table,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Option is a functional option that changes the behavior of [NewStore].
type Option func(*dynamoStore)

// WithRequestHook is an [Option] that configures fn as a pre-request hook.
//
// Before each DynamoDB API request, fn is passed a pointer to the input
// struct, e.g. [dynamodb.GetItemInput], which it may modify in-place. It may
// be called with any DynamoDB request type. Any functions returned by fn are
// applied to the request's options before the request is sent.
func WithRequestHook(fn func(any) []func(*dynamodb.Options)) Option {
	return func(s *dynamoStore) {
		s.OnRequest = fn
	}
}

type dynamoStore struct {
	Client    *dynamodb.Client
	Table     string
	OnRequest func(any) []func(*dynamodb.Options)

	createTableOnce syncx.SucceedOnce
}

func (s *dynamoStore) Open(ctx context.Context, name string) (store.Keyspace, error) {
	if err := s.createTableOnce.Do(ctx, s.createTable); err != nil {
		return nil, err
	}

	return &keyspace{
		Client:    s.Client,
		Table:     s.Table,
		OnRequest: s.OnRequest,
		name:      name,
	}, nil
}

func (s *dynamoStore) createTable(ctx context.Context) error {
	return dynamox.CreateTableIfNotExists(
		ctx,
		s.Client,
		s.Table,
		s.OnRequest,
		dynamox.KeyAttr{
			Name:    &keyspaceAttr,
			Type:    types.ScalarAttributeTypeS,
			KeyType: types.KeyTypeHash,
		},
		dynamox.KeyAttr{
			Name:    &keyAttr,
			Type:    types.ScalarAttributeTypeB,
			KeyType: types.KeyTypeRange,
		},
	)
}
