package model

import "time"

// Priority values, ordered high → low.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task status values.
const (
	TaskOpen = "open"
	TaskDone = "done"
)

// Work states drive the cockpit timer while a task is open.
const (
	WorkPending    = "pending"
	WorkInProgress = "in_progress"
	WorkPaused     = "paused"
	WorkBlocked    = "blocked"
)

// Task is a unit of work assigned to a user inside a company.
type Task struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	Description      *string   `json:"description,omitempty"`
	AssignedTo       *int64    `gorm:"index" json:"assigned_to"`
	AssignedBy       *int64    `json:"assigned_by"`
	CompanyID        string    `gorm:"type:varchar(64);index;not null" json:"company_id"`
	Priority         string    `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	Status           string    `gorm:"type:varchar(10);not null;default:open" json:"status"`
	DueDate          *string   `gorm:"type:varchar(10)" json:"due_date,omitempty"`
	CreatedByEmp     bool      `gorm:"not null;default:false" json:"created_by_emp"`
	WorkState        string    `gorm:"type:varchar(16);not null;default:pending" json:"work_state"`
	BlockedReason    *string   `json:"blocked_reason,omitempty"`
	EstimatedMinutes int       `gorm:"not null;default:0" json:"estimated_minutes"`
	ElapsedSeconds   int64     `gorm:"not null;default:0" json:"elapsed_seconds"`
	WaitSeconds      int64     `gorm:"not null;default:0" json:"wait_seconds"`
	Subtasks         []Subtask `gorm:"foreignKey:TaskID" json:"subtasks"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Task) TableName() string { return "tasks" }

// Subtask is a checklist item of a Task.
type Subtask struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	TaskID int64  `gorm:"index;not null" json:"task_id"`
	Title  string `gorm:"not null" json:"title"`
	Done   bool   `gorm:"not null;default:false" json:"done"`
}

func (Subtask) TableName() string { return "subtasks" }

// PriorityOrder is an ORDER BY expression sorting high before medium before low.
const PriorityOrder = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"
