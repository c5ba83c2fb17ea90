package repositories

import (
	"context"

	"healthtrack/internal/database"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
)

type RiskSummary struct {
	LowRisk  int64 `json:"lowRiskCount"`
	HighRisk int64 `json:"highRiskCount"`
}

type HealthRecordRepository interface {
	Create(ctx context.Context, record *HealthRecord) error
	ListByUser(ctx context.Context, userID int) ([]HealthRecord, error)
	SummarizeByUser(ctx context.Context, userID int, threshold float64) (RiskSummary, error)
}

type healthRecordRepository struct {
	db  database.DB
	log logger.Logger
}

func NewHealthRecord(db database.DB) HealthRecordRepository {
	return &healthRecordRepository{
		db:  db,
		log: logger.New("healthRecordRepository"),
	}
}

func (r *healthRecordRepository) Create(ctx context.Context, record *HealthRecord) error {
	log := r.log.Function("Create")

	if err := getDB(ctx, r.db).Create(record).Error; err != nil {
		return log.Err("failed to create health record", err, "userID", record.UserID)
	}

	return nil
}

func (r *healthRecordRepository) ListByUser(ctx context.Context, userID int) ([]HealthRecord, error) {
	log := r.log.Function("ListByUser")

	var records []HealthRecord
	err := getDB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, log.Err("failed to list health records", err, "userID", userID)
	}

	return records, nil
}

// SummarizeByUser counts records below threshold as low risk and the rest as
// high risk.
func (r *healthRecordRepository) SummarizeByUser(
	ctx context.Context,
	userID int,
	threshold float64,
) (RiskSummary, error) {
	log := r.log.Function("SummarizeByUser")

	var summary RiskSummary
	err := getDB(ctx, r.db).
		Model(&HealthRecord{}).
		Select(
			"COALESCE(SUM(CASE WHEN prediction < ? THEN 1 ELSE 0 END), 0) AS low_risk, "+
				"COALESCE(SUM(CASE WHEN prediction >= ? THEN 1 ELSE 0 END), 0) AS high_risk",
			threshold, threshold,
		).
		Where("user_id = ?", userID).
		Scan(&summary).Error
	if err != nil {
		return RiskSummary{}, log.Err("failed to summarize health records", err, "userID", userID)
	}

	return summary, nil
}
