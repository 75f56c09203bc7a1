package services

import (
	"context"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/utils"
)

type RecordService interface {
	List(ctx context.Context) ([]models.AnalysisRecord, error)
}

type recordService struct {
	records RecordStore
}

func NewRecordService(records RecordStore) RecordService {
	return &recordService{records: records}
}

func (s *recordService) List(ctx context.Context) ([]models.AnalysisRecord, error) {
	const op = "RecordService.List"

	recs, err := s.records.List(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list records", err)
	}
	return recs, nil
}
