package repository

import (
	"context"

	"workforce/internal/model"

	"gorm.io/gorm"
)

// UserFilter narrows List. Empty fields are ignored.
type UserFilter struct {
	CompanyID *string
	Role      string
}

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, f UserFilter) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	// Delete removes the user together with the rows that only make sense
	// with them: assigned tasks (and subtasks), hours, signatures, requests
	// and the note. Tasks they assigned to others lose their assigner.
	Delete(ctx context.Context, id int64) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) List(ctx context.Context, f UserFilter) ([]model.User, error) {
	q := r.db.WithContext(ctx).Order("name asc")
	if f.CompanyID != nil {
		q = q.Where("company_id = ?", *f.CompanyID)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	var users []model.User
	err := q.Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&model.Task{}).Select("id").Where("assigned_to = ?", id)
		if err := tx.Where("task_id IN (?)", owned).Delete(&model.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assigned_to = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).Where("assigned_by = ?", id).Update("assigned_by", nil).Error; err != nil {
			return err
		}
		dependents := []struct {
			model  any
			column string
		}{
			{&model.WorkerHours{}, "worker_id"},
			{&model.Signature{}, "worker_id"},
			{&model.Request{}, "worker_id"},
			{&model.Note{}, "user_id"},
		}
		for _, d := range dependents {
			if err := tx.Where(d.column+" = ?", id).Delete(d.model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
