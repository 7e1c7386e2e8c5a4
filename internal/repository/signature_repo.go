package repository

import (
	"context"

	"workforce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SignatureFilter narrows List. Zero values are ignored.
type SignatureFilter struct {
	CompanyID string
	WorkerID  *int64
	Year      int
	Month     int
}

type SignatureRepository interface {
	List(ctx context.Context, f SignatureFilter) ([]model.Signature, error)
	// Upsert inserts the signature or overwrites the (worker_id, year, month) row.
	Upsert(ctx context.Context, s *model.Signature) (*model.Signature, error)
	Delete(ctx context.Context, workerID int64, year, month int) error
}

type signatureRepo struct{ db *gorm.DB }

func NewSignatureRepository(db *gorm.DB) SignatureRepository { return &signatureRepo{db: db} }

func (r *signatureRepo) List(ctx context.Context, f SignatureFilter) ([]model.Signature, error) {
	q := r.db.WithContext(ctx).Order("year desc").Order("month desc").Order("worker_id asc")
	if f.CompanyID != "" {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.WorkerID != nil {
		q = q.Where("worker_id = ?", *f.WorkerID)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Month != 0 {
		q = q.Where("month = ?", f.Month)
	}
	var list []model.Signature
	err := q.Find(&list).Error
	return list, err
}

func (r *signatureRepo) Upsert(ctx context.Context, s *model.Signature) (*model.Signature, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "worker_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_id", "type", "days", "signed_at"}),
	}).Create(s).Error
	if err != nil {
		return nil, err
	}
	var saved model.Signature
	err = db.Where("worker_id = ? AND year = ? AND month = ?", s.WorkerID, s.Year, s.Month).First(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *signatureRepo) Delete(ctx context.Context, workerID int64, year, month int) error {
	return r.db.WithContext(ctx).
		Where("worker_id = ? AND year = ? AND month = ?", workerID, year, month).
		Delete(&model.Signature{}).Error
}
