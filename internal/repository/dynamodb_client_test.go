package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"property-wizard/internal/domain"
)

type fakeDynamo struct {
	getOut       *dynamodb.GetItemOutput
	getErr       error
	txErr        error
	lastGetInput *dynamodb.GetItemInput
	lastTxInput  *dynamodb.TransactWriteItemsInput
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGetInput = in
	return f.getOut, f.getErr
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.lastTxInput = in
	return &dynamodb.TransactWriteItemsOutput{}, f.txErr
}

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "test-table")
	require.NoError(t, err)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func sampleProperty() domain.Property {
	return domain.Property{
		ID:              "conv-1",
		Name:            "Duplex Ontario",
		City:            aws.String("Montréal"),
		PropertyType:    aws.String("plex"),
		AcquisitionDate: aws.String("2022-03-15"),
		PurchasePrice:   aws.Float64(450000.5),
	}
}

func sampleTranscript() []domain.TranscriptEntry {
	return []domain.TranscriptEntry{
		{Role: domain.RoleAssistant, Text: "Quel nom?"},
		{Role: domain.RoleUser, Text: "Duplex Ontario"},
		{Role: domain.RoleSummary, Text: "Voici le résumé"},
	}
}

func TestSaveProperty_HappyPath(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	err := c.SaveProperty(context.Background(), sampleProperty(), sampleTranscript())
	require.NoError(t, err)
	require.NotNil(t, db.lastTxInput)
	require.Len(t, db.lastTxInput.TransactItems, 2)

	prop := db.lastTxInput.TransactItems[0].Put
	require.Equal(t, "test-table", *prop.TableName)
	require.Equal(t, "attribute_not_exists(PK) AND attribute_not_exists(SK)", *prop.ConditionExpression)
	require.Equal(t, "PROP#conv-1", prop.Item["PK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, skMeta, prop.Item["SK"].(*types.AttributeValueMemberS).Value)
	require.Equal(t, "450000.5", prop.Item["purchasePrice"].(*types.AttributeValueMemberN).Value)
	require.Equal(t, "2026-03-01T12:00:00Z", prop.Item["createdAt"].(*types.AttributeValueMemberS).Value)
	require.NotContains(t, prop.Item, "address")
	require.NotContains(t, prop.Item, "currentValue")

	tr := db.lastTxInput.TransactItems[1].Put
	require.Equal(t, skTranscript, tr.Item["SK"].(*types.AttributeValueMemberS).Value)
	entries := tr.Item["entries"].(*types.AttributeValueMemberL).Value
	require.Len(t, entries, 3)
	last := entries[2].(*types.AttributeValueMemberM).Value
	require.Equal(t, "summary", last["role"].(*types.AttributeValueMemberS).Value)
}

func TestSaveProperty_MissingID(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{})
	err := c.SaveProperty(context.Background(), domain.Property{Name: "x"}, nil)
	require.ErrorContains(t, err, "id is required")
}

func TestSaveProperty_ConditionalFailureMapsToExists(t *testing.T) {
	db := &fakeDynamo{txErr: &types.TransactionCanceledException{
		Message: aws.String("Transaction cancelled"),
		CancellationReasons: []types.CancellationReason{
			{Code: aws.String("ConditionalCheckFailed")},
			{Code: aws.String("None")},
		},
	}}
	c := mustNewClient(t, db)
	err := c.SaveProperty(context.Background(), sampleProperty(), sampleTranscript())
	require.ErrorIs(t, err, domain.ErrPropertyExists)
}

func TestSaveProperty_DynamoError(t *testing.T) {
	db := &fakeDynamo{txErr: errors.New("ProvisionedThroughputExceededException")}
	c := mustNewClient(t, db)
	err := c.SaveProperty(context.Background(), sampleProperty(), sampleTranscript())
	require.ErrorContains(t, err, "SaveProperty")
	require.NotErrorIs(t, err, domain.ErrPropertyExists)
}

func TestGetProperty_RoundTripsSavedItem(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)
	want := sampleProperty()
	require.NoError(t, c.SaveProperty(context.Background(), want, nil))

	db.getOut = &dynamodb.GetItemOutput{Item: db.lastTxInput.TransactItems[0].Put.Item}
	got, err := c.GetProperty(context.Background(), "conv-1")
	require.NoError(t, err)

	want.CreatedAt = "2026-03-01T12:00:00Z"
	require.Equal(t, want, got)
	require.Equal(t, "PROP#conv-1", db.lastGetInput.Key["PK"].(*types.AttributeValueMemberS).Value)
	require.True(t, *db.lastGetInput.ConsistentRead)
}

func TestGetProperty_NotFound(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{}})
	_, err := c.GetProperty(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestGetProperty_GetItemError(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getErr: errors.New("boom")})
	_, err := c.GetProperty(context.Background(), "abc")
	require.ErrorContains(t, err, "GetProperty get item")
}

func TestGetProperty_MalformedItem(t *testing.T) {
	c := mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"id":            &types.AttributeValueMemberS{Value: "abc"},
		"name":          &types.AttributeValueMemberS{Value: "x"},
		"purchasePrice": &types.AttributeValueMemberS{Value: "cheap"},
	}}})
	_, err := c.GetProperty(context.Background(), "abc")
	require.ErrorContains(t, err, "not a number")

	c = mustNewClient(t, &fakeDynamo{getOut: &dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: "abc"},
	}}})
	_, err = c.GetProperty(context.Background(), "abc")
	require.ErrorContains(t, err, "name")
}

func TestPropertyPK(t *testing.T) {
	require.Equal(t, "PROP#my-prop", propertyPK("my-prop"))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, "test-table")
	require.ErrorContains(t, err, "must not be nil")

	_, err = New(&fakeDynamo{}, " ")
	require.ErrorContains(t, err, "must not be empty")
}
