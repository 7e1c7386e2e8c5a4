package model

import "github.com/shopspring/decimal"

// WorkerHours is one row per (worker, date).
type WorkerHours struct {
	ID        int64           `gorm:"primaryKey" json:"id"`
	WorkerID  int64           `gorm:"uniqueIndex:idx_worker_hours_day;not null" json:"worker_id"`
	WorkDate  string          `gorm:"uniqueIndex:idx_worker_hours_day;type:varchar(10);not null" json:"work_date"` // YYYY-MM-DD
	StartTime *string         `gorm:"type:varchar(5)" json:"start_time,omitempty"`
	EndTime   *string         `gorm:"type:varchar(5)" json:"end_time,omitempty"`
	Hours     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"hours"`
	Note      *string         `json:"note,omitempty"`
}

func (WorkerHours) TableName() string { return "worker_hours" }
