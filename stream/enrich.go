// Package stream provides the Kinesis Firehose transformation that enriches
// click events with mysfit attributes.
package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"golang.org/x/sync/errgroup"

	"github.com/jacentio/mysfits/store"
)

// DefaultConcurrency is the number of lookups a Handler runs at once.
const DefaultConcurrency = 8

// Lookup fetches a mysfit by id. *store.Store satisfies it.
type Lookup interface {
	Get(ctx context.Context, id string) (*store.Mysfit, error)
}

// Record is one encoded click event in a batch.
type Record struct {
	RecordID string
	Data     []byte
}

// Result is the transformed counterpart of a Record.
type Result struct {
	RecordID string
	Result   string
	Data     []byte
}

// Handler enriches batches of click events.
type Handler struct {
	lookup      Lookup
	logger      *slog.Logger
	concurrency int
}

// Option configures a Handler.
type Option func(*Handler)

// WithConcurrency bounds the lookups in flight per batch. Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(h *Handler) {
		if n >= 1 {
			h.concurrency = n
		}
	}
}

// NewHandler creates a new enrichment handler. A nil logger uses slog.Default().
func NewHandler(lookup Lookup, logger *slog.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		lookup:      lookup,
		logger:      logger,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleFirehose processes a Firehose data transformation event.
// This function is designed to be used as an AWS Lambda handler.
//
// The Lambda runtime has already base64-decoded each record's data and encodes
// the returned data the same way. If any record fails the whole invocation
// fails so Firehose retries the batch.
func (h *Handler) HandleFirehose(ctx context.Context, event events.KinesisFirehoseEvent) (events.KinesisFirehoseResponse, error) {
	records := make([]Record, len(event.Records))
	for i, r := range event.Records {
		records[i] = Record{RecordID: r.RecordID, Data: r.Data}
	}

	results, err := h.Transform(ctx, records)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to transform batch",
			"invocationId", event.InvocationID,
			"records", len(records),
			"error", err,
		)
		return events.KinesisFirehoseResponse{}, err
	}

	resp := events.KinesisFirehoseResponse{
		Records: make([]events.KinesisFirehoseResponseRecord, len(results)),
	}
	for i, r := range results {
		resp.Records[i] = events.KinesisFirehoseResponseRecord{
			RecordID: r.RecordID,
			Result:   r.Result,
			Data:     r.Data,
		}
	}
	return resp, nil
}

// Transform enriches every record. The output has one Result per Record, in
// input order, regardless of the order lookups complete in. The first failure
// cancels the remaining lookups and is returned.
func (h *Handler) Transform(ctx context.Context, records []Record) ([]Result, error) {
	results := make([]Result, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)

	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			data, err := h.enrich(gctx, record)
			if err != nil {
				return fmt.Errorf("record %s: %w", record.RecordID, err)
			}
			results[i] = Result{
				RecordID: record.RecordID,
				Result:   events.KinesisFirehoseTransformedStateOk,
				Data:     data,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "transformed batch", "records", len(records))
	return results, nil
}

// enrich decodes one click, looks up its mysfit and encodes the enriched click.
func (h *Handler) enrich(ctx context.Context, record Record) ([]byte, error) {
	h.logger.DebugContext(ctx, "processing record", "recordId", record.RecordID)

	click, err := decodeClick(record.Data)
	if err != nil {
		return nil, err
	}

	m, err := h.lookup.Get(ctx, click.lookupID)
	if err != nil {
		return nil, fmt.Errorf("retrieve mysfit %s: %w", click.lookupID, err)
	}

	return encodeEnriched(click, m)
}
