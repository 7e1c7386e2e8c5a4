package repository

import (
	"context"

	"workforce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HoursFilter narrows List. From/To are inclusive YYYY-MM-DD bounds.
type HoursFilter struct {
	WorkerID *int64
	From     string
	To       string
}

type HoursRepository interface {
	List(ctx context.Context, f HoursFilter) ([]model.WorkerHours, error)
	// Upsert inserts the day or overwrites the existing (worker_id, work_date) row.
	Upsert(ctx context.Context, h *model.WorkerHours) (*model.WorkerHours, error)
	Delete(ctx context.Context, workerID int64, workDate string) error
}

type hoursRepo struct{ db *gorm.DB }

func NewHoursRepository(db *gorm.DB) HoursRepository { return &hoursRepo{db: db} }

func (r *hoursRepo) List(ctx context.Context, f HoursFilter) ([]model.WorkerHours, error) {
	q := r.db.WithContext(ctx).Order("work_date asc").Order("worker_id asc")
	if f.WorkerID != nil {
		q = q.Where("worker_id = ?", *f.WorkerID)
	}
	if f.From != "" {
		q = q.Where("work_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("work_date <= ?", f.To)
	}
	var rows []model.WorkerHours
	err := q.Find(&rows).Error
	return rows, err
}

func (r *hoursRepo) Upsert(ctx context.Context, h *model.WorkerHours) (*model.WorkerHours, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "worker_id"}, {Name: "work_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"hours", "start_time", "end_time", "note"}),
	}).Create(h).Error
	if err != nil {
		return nil, err
	}
	var saved model.WorkerHours
	if err := db.Where("worker_id = ? AND work_date = ?", h.WorkerID, h.WorkDate).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *hoursRepo) Delete(ctx context.Context, workerID int64, workDate string) error {
	return r.db.WithContext(ctx).
		Where("worker_id = ? AND work_date = ?", workerID, workDate).
		Delete(&model.WorkerHours{}).Error
}
