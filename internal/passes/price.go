package passes

import "github.com/popuphq/passes-api/internal/domain"

// CalculatePrice computes the effective price of a product for one attendee.
// specialActive means the attendee holds an active patreon/supporter product,
// which forces every non-special product to zero. Otherwise a positive
// percentage discount is applied against the compare-at price, multiplied by
// the selected quantity (defaulting to 1).
//
// Preconditions, not validated here: base price >= 0, discountPercent in [0,100].
func CalculatePrice(p domain.AttendeeProduct, specialActive bool, discountPercent float64) float64 {
	if specialActive && !p.Category.IsSpecial() {
		return 0
	}

	if discountPercent > 0 && !p.Category.IsSpecial() {
		qty := p.Quantity
		if qty <= 0 {
			qty = 1
		}

		return p.BasePrice() * (1 - discountPercent/100) * float64(qty)
	}

	return p.BasePrice()
}

// unitPrice is CalculatePrice for a single unit, used by the total
// calculators when pricing day-pass deltas.
func unitPrice(p domain.AttendeeProduct, specialActive bool, discountPercent float64) float64 {
	p.Quantity = 1

	return CalculatePrice(p, specialActive, discountPercent)
}

// specialActive reports whether the attendee holds an active patreon or
// supporter product, either purchased or currently selected.
func specialActive(products []domain.AttendeeProduct) bool {
	for _, p := range products {
		if p.Category.IsSpecial() && (p.Selected || p.Purchased) {
			return true
		}
	}

	return false
}
