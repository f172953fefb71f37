package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ToggleProductRequest struct {
	AttendeeID uint `json:"attendee_id"`
	ProductID  uint `json:"product_id"`
	// Day passes only: the total units wanted, ignored for everything else.
	Quantity int `json:"quantity"`
}

func (req *ToggleProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.AttendeeID, validation.Required),
		validation.Field(&req.ProductID, validation.Required),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

func (req *ApplyCouponRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 64)),
	)
}
