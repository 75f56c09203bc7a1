package services

import (
	"context"

	"github.com/arogyalabs/medassist/internal/models"
)

// RecordStore is the append-only durable log of analysis records.
// Implemented by the JSON file store (default) and the Postgres store.
type RecordStore interface {
	Append(ctx context.Context, rec models.AnalysisRecord) error
	List(ctx context.Context) ([]models.AnalysisRecord, error)
}
