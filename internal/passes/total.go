package passes

import "github.com/popuphq/passes-api/internal/domain"

// totalsFunc computes one attendee's share of the checkout summary.
type totalsFunc func(products []domain.AttendeeProduct, discount domain.DiscountApplied) domain.Totals

// CalculateTotals sums per-attendee totals and then reconciles the group
// discount against the accumulated individual discounts: the larger of the
// two wins outright, they never stack.
func CalculateTotals(states []domain.AttendeePassState, discount domain.DiscountApplied, groupDiscountPercent float64) domain.Totals {
	var sum domain.Totals
	for _, st := range states {
		t := totalsFor(st.Products)(st.Products, discount)
		sum.Total += t.Total
		sum.OriginalTotal += t.OriginalTotal
		sum.DiscountAmount += t.DiscountAmount
	}

	if groupDiscountPercent > 0 {
		groupAmount := sum.OriginalTotal * groupDiscountPercent / 100
		if groupAmount > sum.DiscountAmount {
			sum.Total = sum.OriginalTotal - groupAmount
			sum.DiscountAmount = groupAmount
		}
	}

	return sum
}

// totalsFor picks the tier strategy for one attendee, checked in priority
// order: an active supporter selection beats a month selection, which beats
// week swaps inside an owned month, then pure day-pass states, then the
// weekly default.
func totalsFor(products []domain.AttendeeProduct) totalsFunc {
	switch {
	case hasSelectedSpecial(products):
		return specialTotals
	case hasSelectedMonth(products):
		return monthlyTotals
	case hasPurchasedMonth(products) && hasSelectedWeek(products):
		return monthPurchasedTotals
	case onlyDaySelections(products):
		return dayTotals
	default:
		return weeklyTotals
	}
}

func hasSelectedSpecial(products []domain.AttendeeProduct) bool {
	for _, p := range products {
		if p.Category.IsSpecial() && p.Selected && !p.Purchased {
			return true
		}
	}

	return false
}

func hasSelectedMonth(products []domain.AttendeeProduct) bool {
	for _, p := range products {
		if p.Category.IsMonthly() && p.Selected && !p.Purchased {
			return true
		}
	}

	return false
}

func hasPurchasedMonth(products []domain.AttendeeProduct) bool {
	for _, p := range products {
		if p.Category.IsMonthly() && p.Purchased && !p.Selected {
			return true
		}
	}

	return false
}

func hasSelectedWeek(products []domain.AttendeeProduct) bool {
	for _, p := range products {
		if p.Category.IsWeekly() && p.Selected {
			return true
		}
	}

	return false
}

func onlyDaySelections(products []domain.AttendeeProduct) bool {
	days := false
	for _, p := range products {
		if p.Category.IsDaily() {
			if p.QuantityDelta() > 0 {
				days = true
			}
			continue
		}
		if p.Selected && !p.Purchased {
			return false
		}
	}

	return days
}

// accumulate walks the selected, not-yet-purchased products. Day passes
// contribute only their quantity delta at unit price; everything else
// contributes its computed price against the compare-at base.
func accumulate(products []domain.AttendeeProduct, discount domain.DiscountApplied, special bool, skip func(domain.AttendeeProduct) bool) (total, original float64) {
	for _, p := range products {
		if !p.Selected || p.Purchased {
			continue
		}
		if skip != nil && skip(p) {
			continue
		}

		if p.Category.IsDaily() {
			delta := p.QuantityDelta()
			if delta <= 0 {
				continue
			}
			total += unitPrice(p, special, discount.Value) * float64(delta)
			original += p.BasePrice() * float64(delta)
			continue
		}

		total += p.PriceNow
		original += p.BasePrice()
	}

	return total, original
}

// specialTotals covers attendees with an active patreon/supporter selection.
// The supporter product is charged at face value while the patron override
// zeroes everything else, so the whole zeroed base shows up as discount.
func specialTotals(products []domain.AttendeeProduct, discount domain.DiscountApplied) domain.Totals {
	total, original := accumulate(products, discount, true, nil)

	return domain.Totals{Total: total, OriginalTotal: original, DiscountAmount: original - total}
}

// monthlyTotals covers attendees with a month pass selected. Weekly passes
// are subsumed under the month and excluded even when still flagged selected.
func monthlyTotals(products []domain.AttendeeProduct, discount domain.DiscountApplied) domain.Totals {
	total, original := accumulate(products, discount, false, func(p domain.AttendeeProduct) bool {
		return p.Category.IsWeekly()
	})

	return domain.Totals{Total: total, OriginalTotal: original, DiscountAmount: original - total}
}

// monthPurchasedTotals covers week swaps inside an already-owned month: newly
// selected weeks are charged, owned weeks under edit are credited back at
// base price. The already-discounted month is never re-discounted, so the
// reported discount amount stays zero.
func monthPurchasedTotals(products []domain.AttendeeProduct, _ domain.DiscountApplied) domain.Totals {
	var total, original float64
	for _, p := range products {
		if !p.Category.IsWeekly() {
			continue
		}
		switch {
		case p.Selected && !p.Purchased:
			total += p.PriceNow
			original += p.BasePrice()
		case p.Purchased && p.Edit:
			total -= p.BasePrice()
			original -= p.BasePrice()
		}
	}

	return domain.Totals{Total: total, OriginalTotal: original, DiscountAmount: 0}
}

// dayTotals covers pure day-pass states.
func dayTotals(products []domain.AttendeeProduct, discount domain.DiscountApplied) domain.Totals {
	total, original := accumulate(products, discount, false, func(p domain.AttendeeProduct) bool {
		return !p.Category.IsDaily()
	})

	return domain.Totals{Total: total, OriginalTotal: original, DiscountAmount: original - total}
}

// weeklyTotals is the default strategy. It prices week and day selections
// together and credits back owned weeks under edit, so the displayed total
// reflects only the incremental amount owed.
func weeklyTotals(products []domain.AttendeeProduct, discount domain.DiscountApplied) domain.Totals {
	total, original := accumulate(products, discount, false, nil)

	for _, p := range products {
		if p.Category.IsWeekly() && p.Purchased && p.Edit {
			total -= p.BasePrice()
			original -= p.BasePrice()
		}
	}

	return domain.Totals{Total: total, OriginalTotal: original, DiscountAmount: original - total}
}
