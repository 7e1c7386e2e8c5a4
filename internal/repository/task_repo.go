package repository

import (
	"context"

	"workforce/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskFilter narrows List. Empty fields are ignored.
type TaskFilter struct {
	CompanyID  string
	AssignedTo *int64
	Priority   string
	Status     string
}

type TaskRepository interface {
	List(ctx context.Context, f TaskFilter) ([]model.Task, error)
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	Create(ctx context.Context, t *model.Task) error
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id int64) error
	// PauseOthers moves every other in-progress task of the assignee to paused.
	PauseOthers(ctx context.Context, assigneeID, exceptID int64) error

	FindSubtask(ctx context.Context, id int64) (*model.Subtask, error)
	CreateSubtask(ctx context.Context, s *model.Subtask) error
	UpdateSubtask(ctx context.Context, s *model.Subtask) error
	DeleteSubtask(ctx context.Context, id int64) error

	// AddElapsed advances the cockpit counters of open tasks by seconds:
	// elapsed for in-progress tasks, wait for blocked ones.
	AddElapsed(ctx context.Context, seconds int64) (int64, error)
}

type taskRepo struct{ db *gorm.DB }

func NewTaskRepository(db *gorm.DB) TaskRepository { return &taskRepo{db: db} }

func (r *taskRepo) List(ctx context.Context, f TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	})
	if f.CompanyID != "" {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *f.AssignedTo)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var tasks []model.Task
	err := q.Order(model.PriorityOrder).Order("created_at desc").Order("id desc").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepo) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
}

// Update writes the editable columns of t. The cockpit counters belong to
// AddElapsed and are never written back from a loaded copy.
func (r *taskRepo) Update(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations, "elapsed_seconds", "wait_seconds", "created_at").
		Save(t).Error
}

func (r *taskRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Subtask{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *taskRepo) PauseOthers(ctx context.Context, assigneeID, exceptID int64) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).
		Where("assigned_to = ? AND id <> ? AND work_state = ?", assigneeID, exceptID, model.WorkInProgress).
		Update("work_state", model.WorkPaused).Error
}

func (r *taskRepo) FindSubtask(ctx context.Context, id int64) (*model.Subtask, error) {
	var s model.Subtask
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *taskRepo) CreateSubtask(ctx context.Context, s *model.Subtask) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *taskRepo) UpdateSubtask(ctx context.Context, s *model.Subtask) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *taskRepo) DeleteSubtask(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Subtask{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *taskRepo) AddElapsed(ctx context.Context, seconds int64) (int64, error) {
	var touched int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("status = ? AND work_state = ?", model.TaskOpen, model.WorkInProgress).
			UpdateColumn("elapsed_seconds", gorm.Expr("elapsed_seconds + ?", seconds))
		if res.Error != nil {
			return res.Error
		}
		touched += res.RowsAffected
		res = tx.Model(&model.Task{}).
			Where("status = ? AND work_state = ?", model.TaskOpen, model.WorkBlocked).
			UpdateColumn("wait_seconds", gorm.Expr("wait_seconds + ?", seconds))
		if res.Error != nil {
			return res.Error
		}
		touched += res.RowsAffected
		return nil
	})
	return touched, err
}
