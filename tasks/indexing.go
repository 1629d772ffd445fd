package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	taskq "github.com/kocayazbey/AyazTrade-sub002"
	"github.com/kocayazbey/AyazTrade-sub002/job"
)

// Job names for the indexing queue.
const (
	JobIndexDocument  = "indexDocument"
	JobDeleteDocument = "deleteDocument"
)

// IndexPayload is the payload for indexDocument and deleteDocument jobs.
type IndexPayload struct {
	Index    string          `json:"index"`
	DocID    string          `json:"docId"`
	Document json.RawMessage `json:"document,omitempty"`
}

// Indexer upserts and removes documents in the search index. Index
// writes are upserts keyed by DocID, so duplicate delivery after a DLQ
// replay converges to the same document.
type Indexer interface {
	Index(ctx context.Context, index, docID string, doc json.RawMessage) error
	Delete(ctx context.Context, index, docID string) error
}

// IndexDocument returns the indexDocument processor definition.
func IndexDocument(ix Indexer) *job.Definition[IndexPayload] {
	return job.NewDefinition(taskq.QueueIndexing, JobIndexDocument,
		func(ctx context.Context, p IndexPayload) error {
			if p.Index == "" || p.DocID == "" {
				return fmt.Errorf("tasks: %s: index and docId are required", JobIndexDocument)
			}
			return ix.Index(ctx, p.Index, p.DocID, p.Document)
		})
}

// DeleteDocument returns the deleteDocument processor definition.
func DeleteDocument(ix Indexer) *job.Definition[IndexPayload] {
	return job.NewDefinition(taskq.QueueIndexing, JobDeleteDocument,
		func(ctx context.Context, p IndexPayload) error {
			if p.Index == "" || p.DocID == "" {
				return fmt.Errorf("tasks: %s: index and docId are required", JobDeleteDocument)
			}
			return ix.Delete(ctx, p.Index, p.DocID)
		})
}
