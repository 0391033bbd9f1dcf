package dynamox

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/recordkit/driver/aws/internal/awsx"
)

// KeyAttr describes one element of a table's primary key.
type KeyAttr struct {
	Name    *string
	Type    types.ScalarAttributeType
	KeyType types.KeyType
}

// CreateTableIfNotExists creates a DynamoDB table with the given primary key
// if it does not already exist.
func CreateTableIfNotExists(
	ctx context.Context,
	client *dynamodb.Client,
	table string,
	m func(any) []func(*dynamodb.Options),
	attrs ...KeyAttr,
) error {
	in := &dynamodb.CreateTableInput{
		TableName:   &table,
		BillingMode: types.BillingModePayPerRequest,
	}

	for _, a := range attrs {
		in.AttributeDefinitions = append(
			in.AttributeDefinitions,
			types.AttributeDefinition{
				AttributeName: a.Name,
				AttributeType: a.Type,
			},
		)
		in.KeySchema = append(
			in.KeySchema,
			types.KeySchemaElement{
				AttributeName: a.Name,
				KeyType:       a.KeyType,
			},
		)
	}

	_, err := awsx.Do(ctx, client.CreateTable, m, in)

	if errors.As(err, new(*types.ResourceInUseException)) {
		return nil
	}

	return err
}
