package domain

import "time"

type ProductCategory string

const (
	CategoryMonth      ProductCategory = "month"
	CategoryLocalMonth ProductCategory = "local month"
	CategoryWeek       ProductCategory = "week"
	CategoryLocalWeek  ProductCategory = "local week"
	CategoryDay        ProductCategory = "day"
	CategoryLocalDay   ProductCategory = "local day"
	CategoryPatreon    ProductCategory = "patreon"
	CategorySupporter  ProductCategory = "supporter"
)

// IsMonthly reports whether the category belongs to the monthly tier.
func (c ProductCategory) IsMonthly() bool {
	return c == CategoryMonth || c == CategoryLocalMonth
}

// IsWeekly reports whether the category belongs to the weekly tier.
func (c ProductCategory) IsWeekly() bool {
	return c == CategoryWeek || c == CategoryLocalWeek
}

// IsDaily reports whether the category belongs to the day tier.
func (c ProductCategory) IsDaily() bool {
	return c == CategoryDay || c == CategoryLocalDay
}

// IsSpecial reports whether the category is an all-inclusive supporter product.
// Special products are never discounted and zero the price of everything else
// for the attendee while active.
func (c ProductCategory) IsSpecial() bool {
	return c == CategoryPatreon || c == CategorySupporter
}

// IsLocal reports whether the category is scoped to local residents.
func (c ProductCategory) IsLocal() bool {
	return c == CategoryLocalMonth || c == CategoryLocalWeek || c == CategoryLocalDay
}

type AttendeeCategory string

const (
	AttendeeMain   AttendeeCategory = "main"
	AttendeeSpouse AttendeeCategory = "spouse"
	AttendeeKid    AttendeeCategory = "kid"
	AttendeeBaby   AttendeeCategory = "baby"
	AttendeeTeen   AttendeeCategory = "teen"
)

type Product struct {
	ID               uint             `json:"id"`
	PopupID          uint             `json:"popup_id"`
	Name             string           `json:"name"`
	Category         ProductCategory  `json:"category"`
	Price            float64          `json:"price"`
	CompareAtPrice   float64          `json:"compare_price"`     // strike-through display price
	AttendeeCategory AttendeeCategory `json:"attendee_category"` // empty means any
	Active           bool             `json:"is_active"`
	Exclusive        bool             `json:"exclusive"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
}

// BasePrice is the reference price used for totals and strike-through display.
// Falls back to Price when no compare-at price is set.
func (p Product) BasePrice() float64 {
	if p.CompareAtPrice > 0 {
		return p.CompareAtPrice
	}
	return p.Price
}

// AppliesTo reports whether the product can be offered to the given attendee
// category. Products without an attendee category apply to everyone.
func (p Product) AppliesTo(c AttendeeCategory) bool {
	return p.AttendeeCategory == "" || p.AttendeeCategory == c
}

// MaxDayQuantity is the day-pass quantity ceiling, derived from the product's
// date range (inclusive on both ends).
func (p Product) MaxDayQuantity() int {
	if p.EndDate.Before(p.StartDate) {
		return 0
	}
	return int(p.EndDate.Sub(p.StartDate).Hours()/24) + 1
}
