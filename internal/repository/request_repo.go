package repository

import (
	"context"

	"workforce/internal/model"

	"gorm.io/gorm"
)

// RequestFilter narrows List. Empty fields are ignored.
type RequestFilter struct {
	WorkerID  *int64
	CompanyID *string
	Status    string
}

type RequestRepository interface {
	List(ctx context.Context, f RequestFilter) ([]model.Request, error)
	FindByID(ctx context.Context, id int64) (*model.Request, error)
	Create(ctx context.Context, r *model.Request) error
	Update(ctx context.Context, r *model.Request) error
	Delete(ctx context.Context, id int64) error
}

type requestRepo struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) RequestRepository { return &requestRepo{db: db} }

func (r *requestRepo) List(ctx context.Context, f RequestFilter) ([]model.Request, error) {
	q := r.db.WithContext(ctx).Order("created_at desc").Order("id desc")
	if f.WorkerID != nil {
		q = q.Where("worker_id = ?", *f.WorkerID)
	}
	if f.CompanyID != nil {
		q = q.Where("company_id = ?", *f.CompanyID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var list []model.Request
	err := q.Find(&list).Error
	return list, err
}

func (r *requestRepo) FindByID(ctx context.Context, id int64) (*model.Request, error) {
	var req model.Request
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepo) Create(ctx context.Context, req *model.Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *requestRepo) Update(ctx context.Context, req *model.Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *requestRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Request{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
