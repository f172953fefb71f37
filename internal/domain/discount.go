package domain

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
)

// DiscountApplied is the discount currently retained for a popup. Value is a
// percentage in [0,100]; zero means no discount.
type DiscountApplied struct {
	Value   float64      `json:"value"`
	Type    DiscountType `json:"type"`
	Code    string       `json:"code,omitempty"`
	PopupID uint         `json:"popup_id,omitempty"`
}
