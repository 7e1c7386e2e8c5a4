package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"workforce/internal/dto"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/session"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TaskService interface {
	List(ctx context.Context, claims *session.Claims, q dto.TaskQuery) ([]model.Task, error)
	Create(ctx context.Context, claims *session.Claims, req dto.CreateTaskRequest) (*model.Task, error)
	Update(ctx context.Context, claims *session.Claims, req dto.UpdateTaskRequest) (*model.Task, error)
	Delete(ctx context.Context, claims *session.Claims, id int64) error

	CreateSubtask(ctx context.Context, claims *session.Claims, req dto.CreateSubtaskRequest) (*model.Subtask, error)
	UpdateSubtask(ctx context.Context, claims *session.Claims, req dto.UpdateTaskRequest) (*model.Subtask, error)
	DeleteSubtask(ctx context.Context, claims *session.Claims, id int64) error

	// Cockpit transitions.
	Start(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error)
	Pause(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error)
	Block(ctx context.Context, claims *session.Claims, id int64, reason string) (*model.Task, error)
	Complete(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error)
}

type taskService struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	notifier Notifier
}

func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, notifier Notifier) TaskService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &taskService{tasks: tasks, users: users, notifier: notifier}
}

func (s *taskService) List(ctx context.Context, claims *session.Claims, q dto.TaskQuery) ([]model.Task, error) {
	if claims.IsWorker() {
		return []model.Task{}, nil
	}
	f := repository.TaskFilter{
		CompanyID:  q.CompanyID,
		AssignedTo: q.AssignedTo,
		Priority:   q.Priority,
		Status:     q.Status,
	}
	if !claims.IsAdmin() {
		if q.CompanyID != "" && q.CompanyID != claims.Company() {
			return nil, forbidden()
		}
		if claims.Company() == "" {
			return []model.Task{}, nil
		}
		f.CompanyID = claims.Company()
	}
	if claims.IsPlainEmployee() {
		self := claims.UserID
		f.AssignedTo = &self
	}
	return s.tasks.List(ctx, f)
}

func (s *taskService) Create(ctx context.Context, claims *session.Claims, req dto.CreateTaskRequest) (*model.Task, error) {
	if claims.IsWorker() {
		return nil, forbidden()
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, badRequest("title is required")
	}

	companyID := claims.Company()
	if req.CompanyID != nil && *req.CompanyID != "" {
		companyID = *req.CompanyID
	}
	if companyID == "" {
		return nil, badRequest("company_id is required")
	}
	if !claims.CanAccessCompany(companyID) {
		return nil, forbidden()
	}

	assigneeID := claims.UserID
	if req.AssignedTo != nil && *req.AssignedTo != 0 {
		assigneeID = *req.AssignedTo
	}
	var assignee *model.User
	if assigneeID != claims.UserID {
		if claims.IsPlainEmployee() {
			return nil, forbidden()
		}
		u, err := s.users.FindByID(ctx, assigneeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, badRequest("assignee does not exist")
		}
		if err != nil {
			return nil, err
		}
		if !u.InCompany(companyID) {
			return nil, forbidden()
		}
		assignee = u
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	self := claims.UserID
	t := &model.Task{
		Title:            title,
		Description:      req.Description,
		AssignedTo:       &assigneeID,
		AssignedBy:       &self,
		CompanyID:        companyID,
		Priority:         priority,
		Status:           model.TaskOpen,
		DueDate:          req.DueDate,
		CreatedByEmp:     claims.Role == model.RoleEmployee,
		WorkState:        model.WorkPending,
		EstimatedMinutes: req.EstimatedMinutes,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	if assignee != nil {
		s.notifyAssignee(ctx, assignee, t, claims.Username)
	}
	return s.tasks.FindByID(ctx, t.ID)
}

func (s *taskService) Update(ctx context.Context, claims *session.Claims, req dto.UpdateTaskRequest) (*model.Task, error) {
	if req.ID == nil {
		return nil, badRequest("task id is required")
	}
	t, err := s.loadForWrite(ctx, claims, *req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, badRequest("title is required")
		}
		t.Title = title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.EstimatedMinutes != nil {
		t.EstimatedMinutes = *req.EstimatedMinutes
	}
	if req.Status != nil {
		t.Status = *req.Status
		if t.Status == model.TaskDone {
			t.WorkState = model.WorkPending
			t.BlockedReason = nil
		}
	}

	var newAssignee *model.User
	if req.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *req.AssignedTo) {
		if claims.IsPlainEmployee() && *req.AssignedTo != claims.UserID {
			return nil, forbidden()
		}
		u, err := s.users.FindByID(ctx, *req.AssignedTo)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, badRequest("assignee does not exist")
		}
		if err != nil {
			return nil, err
		}
		if !u.InCompany(t.CompanyID) {
			return nil, forbidden()
		}
		id := u.ID
		t.AssignedTo = &id
		t.WorkState = model.WorkPending
		if u.ID != claims.UserID {
			newAssignee = u
		}
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	if newAssignee != nil {
		s.notifyAssignee(ctx, newAssignee, t, claims.Username)
	}
	return s.tasks.FindByID(ctx, t.ID)
}

func (s *taskService) Delete(ctx context.Context, claims *session.Claims, id int64) error {
	if _, err := s.loadForWrite(ctx, claims, id); err != nil {
		return err
	}
	return notFoundOr(s.tasks.Delete(ctx, id), "task")
}

func (s *taskService) CreateSubtask(ctx context.Context, claims *session.Claims, req dto.CreateSubtaskRequest) (*model.Subtask, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, badRequest("title is required")
	}
	if _, err := s.loadForWrite(ctx, claims, req.TaskID); err != nil {
		return nil, err
	}
	st := &model.Subtask{TaskID: req.TaskID, Title: title}
	if err := s.tasks.CreateSubtask(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *taskService) UpdateSubtask(ctx context.Context, claims *session.Claims, req dto.UpdateTaskRequest) (*model.Subtask, error) {
	if req.SubtaskID == nil {
		return nil, badRequest("subtask id is required")
	}
	st, err := s.tasks.FindSubtask(ctx, *req.SubtaskID)
	if err != nil {
		return nil, notFoundOr(err, "subtask")
	}
	if _, err := s.loadForWrite(ctx, claims, st.TaskID); err != nil {
		return nil, err
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, badRequest("title is required")
		}
		st.Title = title
	}
	if req.Done != nil {
		st.Done = *req.Done
	}
	if err := s.tasks.UpdateSubtask(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *taskService) DeleteSubtask(ctx context.Context, claims *session.Claims, id int64) error {
	st, err := s.tasks.FindSubtask(ctx, id)
	if err != nil {
		return notFoundOr(err, "subtask")
	}
	if _, err := s.loadForWrite(ctx, claims, st.TaskID); err != nil {
		return err
	}
	return notFoundOr(s.tasks.DeleteSubtask(ctx, id), "subtask")
}

// Start toggles the task: an in-progress task is paused, anything else
// becomes the assignee's single in-progress task.
func (s *taskService) Start(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error) {
	t, err := s.loadOpenForCockpit(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if t.WorkState == model.WorkInProgress {
		t.WorkState = model.WorkPaused
	} else {
		if t.AssignedTo != nil {
			if err := s.tasks.PauseOthers(ctx, *t.AssignedTo, t.ID); err != nil {
				return nil, err
			}
		}
		t.WorkState = model.WorkInProgress
		t.BlockedReason = nil
	}
	return s.save(ctx, t)
}

func (s *taskService) Pause(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error) {
	t, err := s.loadOpenForCockpit(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if t.WorkState != model.WorkInProgress {
		return nil, badRequest("only a task in progress can be paused")
	}
	t.WorkState = model.WorkPaused
	return s.save(ctx, t)
}

func (s *taskService) Block(ctx context.Context, claims *session.Claims, id int64, reason string) (*model.Task, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, badRequest("a reason is required to block a task")
	}
	t, err := s.loadOpenForCockpit(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	t.WorkState = model.WorkBlocked
	t.BlockedReason = &reason
	return s.save(ctx, t)
}

func (s *taskService) Complete(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error) {
	t, err := s.loadOpenForCockpit(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	t.Status = model.TaskDone
	t.WorkState = model.WorkPending
	t.BlockedReason = nil
	return s.save(ctx, t)
}

func (s *taskService) save(ctx context.Context, t *model.Task) (*model.Task, error) {
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, t.ID)
}

// loadForWrite returns the task if claims may modify it: admins any task,
// acting CEOs tasks of their company, plain employees tasks assigned to them.
func (s *taskService) loadForWrite(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error) {
	if claims.IsWorker() {
		return nil, forbidden()
	}
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "task")
	}
	if !canWriteTask(claims, t) {
		return nil, forbidden()
	}
	return t, nil
}

func (s *taskService) loadOpenForCockpit(ctx context.Context, claims *session.Claims, id int64) (*model.Task, error) {
	t, err := s.loadForWrite(ctx, claims, id)
	if err != nil {
		return nil, err
	}
	if t.Status == model.TaskDone {
		return nil, badRequest("task is already done")
	}
	return t, nil
}

func canWriteTask(claims *session.Claims, t *model.Task) bool {
	switch {
	case claims.IsAdmin():
		return true
	case claims.ActsAsCEO():
		return t.CompanyID == claims.Company()
	default:
		return t.AssignedTo != nil && *t.AssignedTo == claims.UserID
	}
}

func (s *taskService) notifyAssignee(ctx context.Context, u *model.User, t *model.Task, by string) {
	if u.Email == nil || *u.Email == "" {
		return
	}
	subject := "New task: " + t.Title
	body := fmt.Sprintf("Hello %s,\n\n%s assigned you the task %q (priority %s).", u.Name, by, t.Title, t.Priority)
	if t.DueDate != nil {
		body += "\nDue: " + *t.DueDate
	}
	if err := s.notifier.EnqueueEmail(ctx, *u.Email, subject, body); err != nil {
		log.Warn().Err(err).Int64("task_id", t.ID).Msg("task: failed to enqueue assignment email")
	}
}
