package dto

type CreateUserRequest struct {
	Username     string  `json:"username"      validate:"required,max=150"`
	Password     string  `json:"password"      validate:"required,max=72"`
	Name         string  `json:"name"          validate:"required,max=100"`
	Role         string  `json:"role"          validate:"required,oneof=admin ceo employee worker"`
	CompanyID    *string `json:"company_id"`
	Avatar       string  `json:"avatar"`
	AvatarColor  string  `json:"avatar_color"`
	IDType       string  `json:"id_type"       validate:"omitempty,oneof=id passport"`
	IDNumber     *string `json:"id_number"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	CEOInterface bool    `json:"ceo_interface"`
	FieldWorker  bool    `json:"field_worker"`
}

type UpdateUserRequest struct {
	ID           int64   `json:"id"            validate:"required"`
	Username     *string `json:"username"      validate:"omitempty,min=1,max=150"`
	Password     *string `json:"password"      validate:"omitempty,min=1,max=72"`
	Name         *string `json:"name"          validate:"omitempty,min=1,max=100"`
	Role         *string `json:"role"          validate:"omitempty,oneof=admin ceo employee worker"`
	CompanyID    *string `json:"company_id"`
	Avatar       *string `json:"avatar"`
	AvatarColor  *string `json:"avatar_color"`
	IDType       *string `json:"id_type"       validate:"omitempty,oneof=id passport"`
	IDNumber     *string `json:"id_number"`
	Email        *string `json:"email"         validate:"omitempty,email"`
	CEOInterface *bool   `json:"ceo_interface"`
	FieldWorker  *bool   `json:"field_worker"`
}
