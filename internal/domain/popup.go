package domain

import "time"

// Popup is one popup city edition. Products and coupons are scoped to it.
type Popup struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	// Percentage applied to group registrations, reconciled against
	// individual coupon discounts at checkout (larger one wins).
	GroupDiscountPercent float64   `json:"group_discount_percent"`
	Active               bool      `json:"is_active"`
	Products             []Product `json:"products,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Coupon is a percentage discount code owned by a popup.
type Coupon struct {
	ID        uint         `json:"id"`
	PopupID   uint         `json:"popup_id"`
	Code      string       `json:"code"`
	Type      DiscountType `json:"type"`
	Value     float64      `json:"value"`
	Active    bool         `json:"is_active"`
	ValidFrom time.Time    `json:"valid_from"`
	ValidTo   time.Time    `json:"valid_to"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// IsRedeemable reports whether the coupon can be applied at the given time.
func (c Coupon) IsRedeemable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if !c.ValidFrom.IsZero() && now.Before(c.ValidFrom) {
		return false
	}
	if !c.ValidTo.IsZero() && now.After(c.ValidTo) {
		return false
	}
	return true
}
