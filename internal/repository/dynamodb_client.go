package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"property-wizard/internal/domain"
)

const (
	skMeta       = "META#"
	skTranscript = "TRANSCRIPT#"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client stores completed wizard properties in a single DynamoDB table.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

// propertyPK returns the partition key shared by a property and its transcript.
func propertyPK(id string) string {
	return "PROP#" + id
}

// SaveProperty writes the property and the transcript that produced it in one
// transaction. It fails with domain.ErrPropertyExists if the id is taken.
func (c *Client) SaveProperty(ctx context.Context, p domain.Property, transcript []domain.TranscriptEntry) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("repository: SaveProperty: property id is required")
	}
	if p.CreatedAt == "" {
		p.CreatedAt = c.now().UTC().Format(time.RFC3339)
	}

	_, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(c.tableName),
					Item:                propertyItem(p),
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(c.tableName),
					Item:                transcriptItem(p.ID, p.CreatedAt, transcript),
					ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
				},
			},
		},
	})
	if err != nil {
		if isConditionalFailure(err) {
			return fmt.Errorf("repository: SaveProperty %q: %w", p.ID, domain.ErrPropertyExists)
		}
		return fmt.Errorf("repository: SaveProperty: %w", err)
	}
	return nil
}

// GetProperty reads a stored property by id.
func (c *Client) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: propertyPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Property{}, fmt.Errorf("repository: GetProperty get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.Property{}, fmt.Errorf("repository: GetProperty %q: %w", id, domain.ErrPropertyNotFound)
	}
	p, err := itemToProperty(out.Item)
	if err != nil {
		return domain.Property{}, fmt.Errorf("repository: GetProperty unmarshal: %w", err)
	}
	return p, nil
}

func isConditionalFailure(err error) bool {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return true
	}
	var txErr *types.TransactionCanceledException
	if !errors.As(err, &txErr) {
		return false
	}
	for _, reason := range txErr.CancellationReasons {
		if aws.ToString(reason.Code) == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

func propertyItem(p domain.Property) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: propertyPK(p.ID)},
		"SK":        &types.AttributeValueMemberS{Value: skMeta},
		"id":        &types.AttributeValueMemberS{Value: p.ID},
		"name":      &types.AttributeValueMemberS{Value: p.Name},
		"createdAt": &types.AttributeValueMemberS{Value: p.CreatedAt},
	}
	putString(item, "address", p.Address)
	putString(item, "city", p.City)
	putString(item, "propertyType", p.PropertyType)
	putString(item, "acquisitionDate", p.AcquisitionDate)
	putNumber(item, "purchasePrice", p.PurchasePrice)
	putNumber(item, "currentValue", p.CurrentValue)
	putString(item, "notes", p.Notes)
	return item
}

func transcriptItem(id, createdAt string, transcript []domain.TranscriptEntry) map[string]types.AttributeValue {
	entries := make([]types.AttributeValue, 0, len(transcript))
	for _, e := range transcript {
		entries = append(entries, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"role": &types.AttributeValueMemberS{Value: string(e.Role)},
			"text": &types.AttributeValueMemberS{Value: e.Text},
		}})
	}
	return map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: propertyPK(id)},
		"SK":        &types.AttributeValueMemberS{Value: skTranscript},
		"entries":   &types.AttributeValueMemberL{Value: entries},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
}

// itemToProperty converts a DynamoDB attribute map to a Property.
func itemToProperty(item map[string]types.AttributeValue) (domain.Property, error) {
	id, err := strAttr(item, "id")
	if err != nil {
		return domain.Property{}, err
	}
	name, err := strAttr(item, "name")
	if err != nil {
		return domain.Property{}, err
	}
	createdAt, _ := strAttr(item, "createdAt") // allow empty

	purchasePrice, err := optionalNumber(item, "purchasePrice")
	if err != nil {
		return domain.Property{}, err
	}
	currentValue, err := optionalNumber(item, "currentValue")
	if err != nil {
		return domain.Property{}, err
	}

	return domain.Property{
		ID:              id,
		Name:            name,
		Address:         optionalString(item, "address"),
		City:            optionalString(item, "city"),
		PropertyType:    optionalString(item, "propertyType"),
		AcquisitionDate: optionalString(item, "acquisitionDate"),
		PurchasePrice:   purchasePrice,
		CurrentValue:    currentValue,
		Notes:           optionalString(item, "notes"),
		CreatedAt:       createdAt,
	}, nil
}

func putString(item map[string]types.AttributeValue, key string, v *string) {
	if v != nil {
		item[key] = &types.AttributeValueMemberS{Value: *v}
	}
}

func putNumber(item map[string]types.AttributeValue, key string, v *float64) {
	if v != nil {
		item[key] = &types.AttributeValueMemberN{Value: strconv.FormatFloat(*v, 'f', -1, 64)}
	}
}

func optionalString(item map[string]types.AttributeValue, key string) *string {
	s, err := strAttr(item, key)
	if err != nil {
		return nil
	}
	return &s
}

func optionalNumber(item map[string]types.AttributeValue, key string) (*float64, error) {
	v, ok := item[key]
	if !ok {
		return nil, nil
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return nil, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.ParseFloat(n.Value, 64)
	if err != nil {
		return nil, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return &parsed, nil
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}
