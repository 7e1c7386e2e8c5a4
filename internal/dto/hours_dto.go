package dto

import (
	"workforce/internal/model"

	"github.com/shopspring/decimal"
)

type UpsertHoursRequest struct {
	WorkerID  *int64          `json:"worker_id"`
	WorkDate  string          `json:"work_date"  validate:"required,datetime=2006-01-02"`
	Hours     decimal.Decimal `json:"hours"      validate:"min=0,max=24"`
	StartTime *string         `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string         `json:"end_time"   validate:"omitempty,datetime=15:04"`
	Note      *string         `json:"note"       validate:"omitempty,max=500"`
}

type DeleteHoursRequest struct {
	WorkerID *int64 `json:"worker_id"`
	WorkDate string `json:"work_date" validate:"required,datetime=2006-01-02"`
}

// HoursQuery carries the GET /api/hours filters. Month is 1-12, 0 means unset.
type HoursQuery struct {
	WorkerID *int64
	Year     int
	Month    int
}

type HoursMonthResponse struct {
	WorkerID   int64               `json:"worker_id"`
	Hours      []model.WorkerHours `json:"hours"`
	Signatures []model.Signature   `json:"signatures"`
	Total      decimal.Decimal     `json:"total"`
}
