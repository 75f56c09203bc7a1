// Package jsonfile persists analysis records as a single indented
// JSON array, the canonical on-disk format (user_medical_data.json).
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/utils"
)

// RecordStore appends with a whole-file read-modify-write. The mutex
// serializes writers within the process; a shared deployment needs the
// Postgres store instead.
type RecordStore struct {
	path string
	mu   sync.Mutex
	log  *logrus.Logger
}

func NewRecordStore(path string, log *logrus.Logger) *RecordStore {
	if log == nil {
		log = logrus.New()
	}
	return &RecordStore{path: path, log: log}
}

func (s *RecordStore) Append(ctx context.Context, rec models.AnalysisRecord) error {
	const op = "RecordStore.Append"

	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load(op)
	if err != nil {
		return err
	}

	recs = append(recs, rec)

	b, err := json.MarshalIndent(recs, "", "    ")
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to encode records", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to write records file", err)
	}
	return nil
}

func (s *RecordStore) List(ctx context.Context) ([]models.AnalysisRecord, error) {
	const op = "RecordStore.List"

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(op)
}

// load reads the backing file under the lock. A missing file is an
// empty collection. An unparseable file is quarantined with a
// timestamped suffix and treated as empty, so prior records survive on
// disk for manual recovery instead of being overwritten.
func (s *RecordStore) load(op string) ([]models.AnalysisRecord, error) {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []models.AnalysisRecord{}, nil
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read records file", err)
	}

	var recs []models.AnalysisRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		quarantine := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().UTC().Format("20060102T150405"))
		if renameErr := os.Rename(s.path, quarantine); renameErr != nil {
			return nil, utils.E(utils.CodeInternal, op, "records file is corrupt and could not be quarantined", renameErr)
		}
		s.log.WithFields(logrus.Fields{
			"path":       s.path,
			"quarantine": quarantine,
		}).WithError(err).Warn("quarantined corrupt records file")
		return []models.AnalysisRecord{}, nil
	}
	return recs, nil
}
