package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

const dateLayout = "02/01/2006"

var productCategories = []interface{}{
	"month", "local month", "week", "local week", "day", "local day", "patreon", "supporter",
}

type CreatePopupRequest struct {
	Name                 string  `json:"name"`
	Location             string  `json:"location"`
	Description          string  `json:"description"`
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	GroupDiscountPercent float64 `json:"group_discount_percent"`
}

func (req *CreatePopupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Location, validation.Required),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.StartDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.EndDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&req.GroupDiscountPercent, validation.Min(0.0), validation.Max(100.0)),
	)
}

// ParseDates returns the parsed date range. Validate must pass first.
func (req *CreatePopupRequest) ParseDates() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

// UpdatePopupRequest carries the full replacement state of a popup; update is
// a whole-record write, not a patch.
type UpdatePopupRequest struct {
	CreatePopupRequest
	Active bool `json:"active"`
}

type CreateProductRequest struct {
	Name             string  `json:"name"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	CompareAtPrice   float64 `json:"compare_price"`
	AttendeeCategory string  `json:"attendee_category"`
	Exclusive        bool    `json:"exclusive"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
}

func (req *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Category, validation.Required, validation.In(productCategories...)),
		validation.Field(&req.Price, validation.Min(0.0)),
		validation.Field(&req.CompareAtPrice, validation.Min(0.0)),
		validation.Field(&req.AttendeeCategory, validation.In("main", "spouse", "kid", "baby", "teen")),
		validation.Field(&req.StartDate, validation.Date(dateLayout)),
		validation.Field(&req.EndDate, validation.Date(dateLayout)),
	)
}

// ParseDates returns the product's date range; zero times when unset.
func (req *CreateProductRequest) ParseDates() (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if req.StartDate != "" {
		if start, err = time.Parse(dateLayout, req.StartDate); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if req.EndDate != "" {
		if end, err = time.Parse(dateLayout, req.EndDate); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return start, end, nil
}

// UpdateProductRequest carries the full replacement state of a product,
// including the active flag used to retire passes from the catalog.
type UpdateProductRequest struct {
	CreateProductRequest
	Active bool `json:"active"`
}

type CreateCouponRequest struct {
	Code      string  `json:"code"`
	Value     float64 `json:"value"`
	ValidFrom string  `json:"valid_from"`
	ValidTo   string  `json:"valid_to"`
}

func (req *CreateCouponRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Value, validation.Required, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&req.ValidFrom, validation.Date(dateLayout)),
		validation.Field(&req.ValidTo, validation.Date(dateLayout)),
	)
}

// ParseDates returns the coupon's validity window; zero times when unset.
func (req *CreateCouponRequest) ParseDates() (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if req.ValidFrom != "" {
		if from, err = time.Parse(dateLayout, req.ValidFrom); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if req.ValidTo != "" {
		if to, err = time.Parse(dateLayout, req.ValidTo); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	return from, to, nil
}
