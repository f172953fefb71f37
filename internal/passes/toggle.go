package passes

import "github.com/popuphq/passes-api/internal/domain"

// weeksPerMonth is how many active weekly passes upgrade into a month pass.
const weeksPerMonth = 4

// selectionFunc mutates one attendee's product list in response to a toggle.
type selectionFunc func(products []domain.AttendeeProduct, toggled domain.AttendeeProduct, discount domain.DiscountApplied)

// HandleSelection applies a user toggle of one product for one attendee and
// returns the updated states. The strategy is picked from the toggled
// product's category; products flagged exclusive (other than month passes)
// always use the exclusive strategy. Unknown attendee ids are a deliberate
// no-op and return the states unchanged.
func HandleSelection(states []domain.AttendeePassState, attendeeID uint, toggled domain.AttendeeProduct, discount domain.DiscountApplied) []domain.AttendeePassState {
	out := make([]domain.AttendeePassState, len(states))
	copy(out, states)

	for i := range out {
		if out[i].AttendeeID != attendeeID {
			continue
		}

		products := make([]domain.AttendeeProduct, len(out[i].Products))
		copy(products, out[i].Products)

		strategyFor(toggled)(products, toggled, discount)
		out[i].Products = products

		break
	}

	return out
}

func strategyFor(p domain.AttendeeProduct) selectionFunc {
	if p.Exclusive && !p.Category.IsMonthly() {
		return applyExclusive
	}

	switch {
	case p.Category.IsSpecial():
		return applySpecial
	case p.Category.IsMonthly():
		return applyMonth
	case p.Category.IsDaily():
		return applyDay
	default:
		// Weekly tier, and the fallback for unrecognized categories.
		return applyWeek
	}
}

// applyExclusive flips the toggled product and, when it becomes selected,
// drops every other exclusive pick for the attendee. Month passes are exempt
// from the drop, an exclusive month can coexist with other exclusive picks.
func applyExclusive(products []domain.AttendeeProduct, toggled domain.AttendeeProduct, _ domain.DiscountApplied) {
	i := indexOf(products, toggled.ID)
	if i < 0 {
		return
	}

	products[i].Selected = !products[i].Selected
	if !products[i].Selected || !products[i].Exclusive {
		return
	}

	for j := range products {
		if j != i && products[j].Exclusive && !products[j].Category.IsMonthly() {
			products[j].Selected = false
		}
	}
}

// applySpecial flips a patreon/supporter product and reprices the whole
// product list, since the patron override zeroes everything non-special.
func applySpecial(products []domain.AttendeeProduct, toggled domain.AttendeeProduct, discount domain.DiscountApplied) {
	i := indexOf(products, toggled.ID)
	if i < 0 {
		return
	}

	products[i].Selected = !products[i].Selected

	active := specialActive(products)
	for j := range products {
		products[j].PriceNow = CalculatePrice(products[j], active, discount.Value)
	}
}

// applyMonth flips a month pass. Selecting it force-selects every unpurchased
// weekly pass (a month implies all its weeks); deselecting leaves the weeks
// alone, the caller toggles them individually.
func applyMonth(products []domain.AttendeeProduct, toggled domain.AttendeeProduct, _ domain.DiscountApplied) {
	i := indexOf(products, toggled.ID)
	if i < 0 {
		return
	}

	products[i].Selected = !products[i].Selected
	if !products[i].Selected {
		return
	}

	for j := range products {
		if products[j].Category.IsWeekly() && !products[j].Purchased {
			products[j].Selected = true
		}
	}
}

// applyWeek flips a weekly pass. Re-selecting a purchased week marks it as an
// edit of the existing booking. Once the attendee has four active weeks in
// the tier and no edit in flight, the month pass is auto-selected and all day
// passes are cleared; a month they already own is never re-selected.
func applyWeek(products []domain.AttendeeProduct, toggled domain.AttendeeProduct, _ domain.DiscountApplied) {
	i := indexOf(products, toggled.ID)
	if i < 0 {
		return
	}

	products[i].Selected = !products[i].Selected
	if products[i].Purchased {
		products[i].Edit = products[i].Selected
	}

	local := products[i].Category.IsLocal()
	activeWeeks, editing := 0, false
	for _, q := range products {
		if !q.Category.IsWeekly() || q.Category.IsLocal() != local {
			continue
		}
		if q.Purchased || q.Selected {
			activeWeeks++
		}
		if q.Edit {
			editing = true
		}
	}

	if editing || activeWeeks < weeksPerMonth {
		return
	}

	mi := monthIndex(products, local)
	if mi < 0 || products[mi].Purchased {
		return
	}

	products[mi].Selected = true
	for j := range products {
		if products[j].Category.IsDaily() {
			products[j].Selected = false
			products[j].Quantity = 0
		}
	}
}

// applyDay takes the quantity carried on the toggle payload; only the delta
// above what is already owned counts as a new purchase. The quantity ceiling
// from the product date range is enforced by the caller.
func applyDay(products []domain.AttendeeProduct, toggled domain.AttendeeProduct, _ domain.DiscountApplied) {
	i := indexOf(products, toggled.ID)
	if i < 0 {
		return
	}

	products[i].Quantity = toggled.Quantity
	products[i].Selected = products[i].QuantityDelta() > 0
}

func indexOf(products []domain.AttendeeProduct, productID uint) int {
	for i, p := range products {
		if p.ID == productID {
			return i
		}
	}

	return -1
}

// monthIndex finds the month pass matching the toggled week's locality,
// falling back to any monthly-tier product.
func monthIndex(products []domain.AttendeeProduct, local bool) int {
	fallback := -1
	for i, p := range products {
		if !p.Category.IsMonthly() {
			continue
		}
		if p.Category.IsLocal() == local {
			return i
		}
		if fallback < 0 {
			fallback = i
		}
	}

	return fallback
}
