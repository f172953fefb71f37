package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

var attendeeCategories = []interface{}{"main", "spouse", "kid", "baby", "teen"}

type AttendeeRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (req AttendeeRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Category, validation.Required, validation.In(attendeeCategories...)),
	)
}

type CreateApplicationRequest struct {
	PopupID   uint              `json:"popup_id"`
	Group     bool              `json:"is_group"`
	Attendees []AttendeeRequest `json:"attendees"`
}

func (req *CreateApplicationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PopupID, validation.Required),
		validation.Field(&req.Attendees, validation.Required, validation.Length(1, 20)),
	)
}

type AddAttendeeRequest struct {
	AttendeeRequest
}
