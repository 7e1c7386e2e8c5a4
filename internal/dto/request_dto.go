package dto

type CreateRequestRequest struct {
	Type string `json:"type" validate:"required,max=50"`
	Text string `json:"text" validate:"required,max=2000"`
}

type UpdateRequestRequest struct {
	ID     int64   `json:"id"     validate:"required"`
	Status *string `json:"status" validate:"omitempty,oneof=pending inprogress done"`
	Reply  *string `json:"reply"  validate:"omitempty,max=2000"`
}

// RequestQuery carries the GET /api/requests filters.
type RequestQuery struct {
	Status    string
	CompanyID string
}
