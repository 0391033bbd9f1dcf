package dynamostore

import (
	"bytes"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/dogmatiq/recordkit/driver/aws/internal/awsx"
	"github.com/dogmatiq/recordkit/driver/aws/internal/dynamox"
	"github.com/dogmatiq/recordkit/store"
)

type keyspace struct {
	Client    *dynamodb.Client
	Table     string
	OnRequest func(any) []func(*dynamodb.Options)

	name string
}

func (ks *keyspace) Name() string {
	return ks.name
}

func (ks *keyspace) primaryKey(k []byte) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyspaceAttr: &types.AttributeValueMemberS{Value: ks.name},
		keyAttr:      &types.AttributeValueMemberB{Value: k},
	}
}

func (ks *keyspace) Get(ctx context.Context, k []byte) ([]byte, error) {
	out, err := awsx.Do(
		ctx,
		ks.Client.GetItem,
		ks.OnRequest,
		&dynamodb.GetItemInput{
			TableName:            &ks.Table,
			Key:                  ks.primaryKey(k),
			ProjectionExpression: aws.String("#V"),
			ExpressionAttributeNames: map[string]string{
				"#V": valueAttr,
			},
		},
	)
	if err != nil || out.Item == nil {
		return nil, err
	}

	v, err := dynamox.AttrAs[*types.AttributeValueMemberB](out.Item, valueAttr)
	if err != nil {
		return nil, err
	}

	return v.Value, nil
}

func (ks *keyspace) Has(ctx context.Context, k []byte) (bool, error) {
	out, err := awsx.Do(
		ctx,
		ks.Client.GetItem,
		ks.OnRequest,
		&dynamodb.GetItemInput{
			TableName:            &ks.Table,
			Key:                  ks.primaryKey(k),
			ProjectionExpression: &nonExistentAttr,
		},
	)
	if err != nil {
		return false, err
	}

	return out.Item != nil, nil
}

func (ks *keyspace) Set(ctx context.Context, k, v []byte) error {
	if len(v) == 0 {
		_, err := awsx.Do(
			ctx,
			ks.Client.DeleteItem,
			ks.OnRequest,
			&dynamodb.DeleteItemInput{
				TableName: &ks.Table,
				Key:       ks.primaryKey(k),
			},
		)
		return err
	}

	_, err := awsx.Do(
		ctx,
		ks.Client.PutItem,
		ks.OnRequest,
		&dynamodb.PutItemInput{
			TableName: &ks.Table,
			Item: map[string]types.AttributeValue{
				keyspaceAttr: &types.AttributeValueMemberS{Value: ks.name},
				keyAttr:      &types.AttributeValueMemberB{Value: k},
				valueAttr:    &types.AttributeValueMemberB{Value: v},
			},
		},
	)
	return err
}

func (ks *keyspace) Range(ctx context.Context, lo, hi []byte, fn store.RangeFunc) error {
	// DynamoDB's key condition syntax permits only a single sort-key
	// condition, so the query expresses the lower bound and the upper bound
	// is applied client-side by terminating the scan at the first key at or
	// beyond it.
	in := &dynamodb.QueryInput{
		TableName:              &ks.Table,
		KeyConditionExpression: aws.String("#S = :S"),
		ProjectionExpression:   aws.String("#K, #V"),
		ExpressionAttributeNames: map[string]string{
			"#S": keyspaceAttr,
			"#K": keyAttr,
			"#V": valueAttr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":S": &types.AttributeValueMemberS{Value: ks.name},
		},
	}

	if lo != nil {
		in.KeyConditionExpression = aws.String("#S = :S AND #K >= :lo")
		in.ExpressionAttributeValues[":lo"] = &types.AttributeValueMemberB{Value: lo}
	}

	for {
		out, err := awsx.Do(
			ctx,
			ks.Client.Query,
			ks.OnRequest,
			in,
		)
		if err != nil {
			return err
		}

		for _, item := range out.Items {
			k, err := dynamox.AttrAs[*types.AttributeValueMemberB](item, keyAttr)
			if err != nil {
				return err
			}

			if hi != nil && bytes.Compare(k.Value, hi) >= 0 {
				return nil
			}

			v, err := dynamox.AttrAs[*types.AttributeValueMemberB](item, valueAttr)
			if err != nil {
				return err
			}

			ok, err := fn(ctx, k.Value, v.Value)
			if !ok || err != nil {
				return err
			}
		}

		if out.LastEvaluatedKey == nil {
			return nil
		}

		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

func (ks *keyspace) Close() error {
	return nil
}
