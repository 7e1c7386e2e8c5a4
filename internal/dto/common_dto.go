package dto

import "github.com/shopspring/decimal"

func init() {
	// Hours travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// IDRequest is the body of DELETE calls addressing a numeric row.
type IDRequest struct {
	ID int64 `json:"id" validate:"required"`
}

// SlugRequest is the body of DELETE calls addressing a company.
type SlugRequest struct {
	ID string `json:"id" validate:"required"`
}

// OK is the body of successful calls that return no row.
type OK struct {
	OK bool `json:"ok"`
}
