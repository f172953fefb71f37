package domain

// AttendeeProduct is a catalog product annotated for one attendee: what it
// costs them this cycle, whether they already own it, and what they have
// selected so far.
type AttendeeProduct struct {
	Product

	Selected  bool    `json:"selected"`  // user wants to buy or modify this now
	Purchased bool    `json:"purchased"` // already owned from a prior payment
	Edit      bool    `json:"edit"`      // purchased item being modified, not newly bought
	Disabled  bool    `json:"disabled"`  // ineligible to toggle this cycle
	PriceNow  float64 `json:"calculated_price"`

	// Day passes only: units selected this cycle vs. units already owned.
	Quantity         int `json:"quantity"`
	OriginalQuantity int `json:"original_quantity"`
}

// QuantityDelta is the number of day-pass units above what is already owned.
// Only the delta counts as a new purchase.
func (ap AttendeeProduct) QuantityDelta() int {
	return ap.Quantity - ap.OriginalQuantity
}

// Purchase is one owned product from an approved prior payment.
type Purchase struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// Attendee is one person on an application roster.
type Attendee struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Category  AttendeeCategory `json:"category"`
	Purchases []Purchase       `json:"purchases"`
}

// AttendeePassState is the derived, ordered pass state for one attendee.
// Rebuilt from scratch on every input change.
type AttendeePassState struct {
	AttendeeID uint              `json:"attendee_id"`
	Name       string            `json:"name"`
	Category   AttendeeCategory  `json:"category"`
	Products   []AttendeeProduct `json:"products"`
}

// PurchaseItem is one line of the flattened list handed to payment submission.
type PurchaseItem struct {
	ProductID  uint `json:"product_id"`
	AttendeeID uint `json:"attendee_id"`
	Quantity   int  `json:"quantity"`
}

// Totals is the checkout summary for the whole roster.
type Totals struct {
	Total          float64 `json:"total"`
	OriginalTotal  float64 `json:"original_total"`
	DiscountAmount float64 `json:"discount_amount"`
}
