// Package seed loads mysfit fixtures into the mysfits table.
//
// The seed file is a JSON array whose objects use the DynamoDB attribute names
// of the table (MysfitId, Name, Species, ...). Records are written with
// BatchWriteItem in chunks of 25, resubmitting unprocessed items a bounded
// number of times.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// batchSize is the DynamoDB limit on requests per BatchWriteItem call.
const batchSize = 25

// maxAttempts bounds how often unprocessed items are resubmitted.
const maxAttempts = 5

// ErrUnprocessed is returned when DynamoDB keeps rejecting part of a batch.
var ErrUnprocessed = errors.New("seed: items left unprocessed")

// Mysfit is a seed record as written to the table.
type Mysfit struct {
	ID              string `json:"MysfitId" dynamodbav:"MysfitId"`
	Name            string `json:"Name" dynamodbav:"Name"`
	Species         string `json:"Species" dynamodbav:"Species"`
	Description     string `json:"Description" dynamodbav:"Description"`
	Age             int64  `json:"Age" dynamodbav:"Age"`
	GoodEvil        string `json:"GoodEvil" dynamodbav:"GoodEvil"`
	LawChaos        string `json:"LawChaos" dynamodbav:"LawChaos"`
	ThumbImageURI   string `json:"ThumbImageUri" dynamodbav:"ThumbImageUri"`
	ProfileImageURI string `json:"ProfileImageUri" dynamodbav:"ProfileImageUri"`
	Likes           int64  `json:"Likes" dynamodbav:"Likes"`
	Adopted         bool   `json:"Adopted" dynamodbav:"Adopted"`
}

// Validate checks the fields the store requires on read.
func (m Mysfit) Validate() error {
	required := []struct{ attr, value string }{
		{"MysfitId", m.ID},
		{"Name", m.Name},
		{"Species", m.Species},
		{"GoodEvil", m.GoodEvil},
		{"LawChaos", m.LawChaos},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("seed: mysfit %q: %s is required", m.ID, r.attr)
		}
	}
	if m.Age < 0 {
		return fmt.Errorf("seed: mysfit %q: Age must not be negative", m.ID)
	}
	if m.Likes < 0 {
		return fmt.Errorf("seed: mysfit %q: Likes must not be negative", m.ID)
	}
	return nil
}

// Item marshals a mysfit to a DynamoDB item.
func Item(m Mysfit) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMap(m)
}

// Load reads and validates a JSON seed file. Duplicate ids are rejected.
func Load(r io.Reader) ([]Mysfit, error) {
	var mysfits []Mysfit
	if err := json.NewDecoder(r).Decode(&mysfits); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	seen := make(map[string]bool, len(mysfits))
	for _, m := range mysfits {
		if err := m.Validate(); err != nil {
			return nil, err
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("seed: duplicate MysfitId %q", m.ID)
		}
		seen[m.ID] = true
	}
	return mysfits, nil
}

// BatchWriter is the subset of *dynamodb.Client used by Write.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Write puts every mysfit into table, replacing existing items with the same id.
func Write(ctx context.Context, client BatchWriter, table string, mysfits []Mysfit) error {
	requests := make([]types.WriteRequest, 0, len(mysfits))
	for _, m := range mysfits {
		item, err := Item(m)
		if err != nil {
			return fmt.Errorf("seed: marshal %q: %w", m.ID, err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}

	for start := 0; start < len(requests); start += batchSize {
		end := min(start+batchSize, len(requests))
		if err := writeBatch(ctx, client, table, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func writeBatch(ctx context.Context, client BatchWriter, table string, batch []types.WriteRequest) error {
	pending := map[string][]types.WriteRequest{table: batch}
	backoff := 50 * time.Millisecond

	for attempt := 1; ; attempt++ {
		out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("seed: batch write to %s: %w", table, err)
		}
		if len(out.UnprocessedItems[table]) == 0 {
			return nil
		}
		if attempt == maxAttempts {
			return fmt.Errorf("%w: %d after %d attempts", ErrUnprocessed, len(out.UnprocessedItems[table]), attempt)
		}
		pending = out.UnprocessedItems

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
