package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/prompt"
	"github.com/arogyalabs/medassist/internal/providers/llm"
	"github.com/arogyalabs/medassist/internal/repositories/memory"
	"github.com/arogyalabs/medassist/internal/utils"
)

// SummarizeResult carries the model response together with the outcome
// of the durable append. A failed append never discards the response;
// callers report the loss separately.
type SummarizeResult struct {
	Text        string
	RecordSaved bool
	RecordErr   error
}

type QueryService interface {
	Summarize(ctx context.Context, sessionID, query, language string) (*SummarizeResult, error)
}

type queryService struct {
	sessions *memory.SessionStore
	llm      llm.Provider
	records  RecordStore
	log      *logrus.Logger
}

func NewQueryService(sessions *memory.SessionStore, provider llm.Provider, records RecordStore, log *logrus.Logger) QueryService {
	return &queryService{sessions: sessions, llm: provider, records: records, log: log}
}

func (s *queryService) Summarize(ctx context.Context, sessionID, query, language string) (*SummarizeResult, error) {
	const op = "QueryService.Summarize"

	if query == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query is required", nil)
	}
	if !prompt.Supported(language) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unsupported language", nil)
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "session not found", err)
	}

	text, err := s.llm.Generate(ctx, prompt.Query(query, language), nil)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to summarize query", err)
	}

	res := &SummarizeResult{Text: text}

	if sess.Name != "" {
		rec := models.AnalysisRecord{
			UserID:     sess.UserID,
			Name:       sess.Name,
			Age:        sess.Age,
			Gender:     sess.Gender,
			ReportType: models.ReportTypeQuery,
			Analysis:   fmt.Sprintf("Query: %s\n\nResponse: %s", query, text),
			Timestamp:  time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.records.Append(ctx, rec); err != nil {
			s.log.WithError(err).WithField("session_id", sessionID).Warn("failed to persist query record")
			res.RecordErr = err
		} else {
			res.RecordSaved = true
		}
	}

	return res, nil
}
