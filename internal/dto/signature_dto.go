package dto

type SignMonthRequest struct {
	WorkerID    int64   `json:"worker_id"    validate:"required"`
	Year        int     `json:"year"         validate:"required,min=2000,max=2100"`
	Month       int     `json:"month"        validate:"required,min=1,max=12"`
	Type        string  `json:"type"         validate:"required,oneof=full partial"`
	Days        []int   `json:"days"         validate:"omitempty,dive,min=1,max=31"`
	SigPassword *string `json:"sig_password"`
}

type DeleteSignatureRequest struct {
	WorkerID int64 `json:"worker_id" validate:"required"`
	Year     int   `json:"year"      validate:"required"`
	Month    int   `json:"month"     validate:"required,min=1,max=12"`
}

// SignatureQuery carries the GET /api/signatures filters.
type SignatureQuery struct {
	CompanyID string
	WorkerID  *int64
	Year      int
	Month     int
}
