package dto

type CreateTaskRequest struct {
	Title            string  `json:"title"             validate:"required,max=200"`
	Description      *string `json:"description"`
	AssignedTo       *int64  `json:"assigned_to"`
	CompanyID        *string `json:"company_id"`
	Priority         string  `json:"priority"          validate:"omitempty,oneof=high medium low"`
	DueDate          *string `json:"due_date"          validate:"omitempty,datetime=2006-01-02"`
	EstimatedMinutes int     `json:"estimated_minutes" validate:"min=0"`
}

// UpdateTaskRequest patches a task, or one of its subtasks when SubtaskID is set.
type UpdateTaskRequest struct {
	ID               *int64  `json:"id"`
	SubtaskID        *int64  `json:"subtask_id"`
	Title            *string `json:"title"             validate:"omitempty,min=1,max=200"`
	Description      *string `json:"description"`
	AssignedTo       *int64  `json:"assigned_to"`
	Priority         *string `json:"priority"          validate:"omitempty,oneof=high medium low"`
	Status           *string `json:"status"            validate:"omitempty,oneof=open done"`
	DueDate          *string `json:"due_date"          validate:"omitempty,datetime=2006-01-02"`
	EstimatedMinutes *int    `json:"estimated_minutes" validate:"omitempty,min=0"`
	Done             *bool   `json:"done"`
}

type DeleteTaskRequest struct {
	ID        *int64 `json:"id"`
	SubtaskID *int64 `json:"subtask_id"`
}

type CreateSubtaskRequest struct {
	TaskID int64  `json:"task_id" validate:"required"`
	Title  string `json:"title"   validate:"required,max=200"`
}

type BlockTaskRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// TaskQuery carries the GET /api/tasks filters.
type TaskQuery struct {
	CompanyID  string
	AssignedTo *int64
	Priority   string
	Status     string
}
