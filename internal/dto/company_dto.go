package dto

type CreateCompanyRequest struct {
	Name        string  `json:"name"         validate:"required,max=100"`
	Field       string  `json:"field"        validate:"max=100"`
	Emoji       string  `json:"emoji"        validate:"max=16"`
	Color       string  `json:"color"        validate:"omitempty,hexcolor"`
	SigPassword *string `json:"sig_password" validate:"omitempty,max=72"`
}

type UpdateCompanyRequest struct {
	ID    string  `json:"id"    validate:"required"`
	Name  *string `json:"name"  validate:"omitempty,min=1,max=100"`
	Field *string `json:"field" validate:"omitempty,max=100"`
	Emoji *string `json:"emoji" validate:"omitempty,max=16"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
	// SigPassword: nil keeps the current one, "" removes it.
	SigPassword *string `json:"sig_password" validate:"omitempty,max=72"`
}
