// Package postgres is the shared-deployment record store. The JSON
// file store cannot serialize writers across processes; point
// DATABASE_URL at Postgres when more than one instance appends.
package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/arogyalabs/medassist/internal/models"
	"github.com/arogyalabs/medassist/internal/utils"
)

type recordRow struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey"`
	UserID     string `gorm:"column:user_id;type:uuid;index"`
	Name       string `gorm:"column:name;type:text"`
	Age        int    `gorm:"column:age"`
	Gender     string `gorm:"column:gender;type:text"`
	ReportType string `gorm:"column:report_type;type:text;index"`
	Analysis   string `gorm:"column:analysis;type:text"`
	Timestamp  string `gorm:"column:timestamp;type:text"`
}

func (recordRow) TableName() string { return "analysis_records" }

type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(dsn string) (*RecordStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, err
	}
	return &RecordStore{db: db}, nil
}

func (s *RecordStore) Append(ctx context.Context, rec models.AnalysisRecord) error {
	const op = "postgres.RecordStore.Append"

	row := recordRow{
		ID:         uuid.NewString(),
		UserID:     rec.UserID,
		Name:       rec.Name,
		Age:        rec.Age,
		Gender:     rec.Gender,
		ReportType: rec.ReportType,
		Analysis:   rec.Analysis,
		Timestamp:  rec.Timestamp,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return utils.E(utils.CodeInternal, op, "failed to insert record", err)
	}
	return nil
}

func (s *RecordStore) List(ctx context.Context) ([]models.AnalysisRecord, error) {
	const op = "postgres.RecordStore.List"

	var rows []recordRow
	if err := s.db.WithContext(ctx).Order("timestamp asc").Find(&rows).Error; err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list records", err)
	}

	out := make([]models.AnalysisRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.AnalysisRecord{
			UserID:     r.UserID,
			Name:       r.Name,
			Age:        r.Age,
			Gender:     r.Gender,
			ReportType: r.ReportType,
			Analysis:   r.Analysis,
			Timestamp:  r.Timestamp,
		})
	}
	return out, nil
}
