package model

import "time"

// Request status values.
const (
	RequestPending    = "pending"
	RequestInProgress = "inprogress"
	RequestDone       = "done"
)

// Request is a ticket submitted by a worker to the company management.
type Request struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	WorkerID   int64     `gorm:"index;not null" json:"worker_id"`
	WorkerName string    `gorm:"not null" json:"worker_name"`
	CompanyID  *string   `gorm:"type:varchar(64);index" json:"company_id"`
	Type       string    `gorm:"not null" json:"type"`
	Text       string    `gorm:"not null" json:"text"`
	Status     string    `gorm:"type:varchar(16);not null;default:pending" json:"status"`
	Reply      *string   `json:"reply,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Request) TableName() string { return "requests" }
