package passes

import (
	"sort"

	"github.com/popuphq/passes-api/internal/domain"
)

// Orchestrator owns the derived pass state for one application roster. Every
// input change throws the derived state away and rebuilds it; only the toggle
// path mutates it in place, working off the previous derivation. It is not
// safe for concurrent use, callers serialize access the way a UI event loop
// serializes dispatches.
type Orchestrator struct {
	attendees []domain.Attendee
	catalog   []domain.Product
	discount  domain.DiscountApplied
	states    []domain.AttendeePassState
}

func NewOrchestrator(attendees []domain.Attendee, catalog []domain.Product, discount domain.DiscountApplied) *Orchestrator {
	o := &Orchestrator{
		catalog:  catalog,
		discount: discount,
	}
	o.setRoster(attendees)
	o.rebuild()

	return o
}

func (o *Orchestrator) SetAttendees(attendees []domain.Attendee) {
	o.setRoster(attendees)
	o.rebuild()
}

func (o *Orchestrator) SetCatalog(catalog []domain.Product) {
	o.catalog = catalog
	o.rebuild()
}

// SetDiscount retains the discount only when it strictly beats the one
// already held for the same popup. Switching popups drops the retained
// discount and reprices, even when the incoming value is zero.
func (o *Orchestrator) SetDiscount(d domain.DiscountApplied) {
	if d.PopupID != o.discount.PopupID {
		o.discount = domain.DiscountApplied{PopupID: d.PopupID}
		if d.Value > 0 {
			o.discount = d
		}
		o.rebuild()

		return
	}

	if d.Value <= o.discount.Value {
		return
	}

	o.discount = d
	o.rebuild()
}

func (o *Orchestrator) Discount() domain.DiscountApplied {
	return o.discount
}

func (o *Orchestrator) State() []domain.AttendeePassState {
	return o.states
}

// Toggle dispatches a user toggle against the previous derived state,
// replacing the attendee's product list. Unknown attendee ids are a no-op.
func (o *Orchestrator) Toggle(attendeeID uint, product domain.AttendeeProduct) {
	o.states = HandleSelection(o.states, attendeeID, product, o.discount)
}

func (o *Orchestrator) Totals(groupDiscountPercent float64) domain.Totals {
	return CalculateTotals(o.states, o.discount, groupDiscountPercent)
}

// ProductsToPurchase flattens the current selections into the list handed to
// payment submission. Day passes contribute only the delta above what is
// already owned; purchased items appear only when under edit.
func (o *Orchestrator) ProductsToPurchase() []domain.PurchaseItem {
	var items []domain.PurchaseItem
	for _, st := range o.states {
		for _, p := range st.Products {
			if p.Category.IsDaily() {
				if delta := p.QuantityDelta(); delta > 0 {
					items = append(items, domain.PurchaseItem{
						ProductID:  p.ID,
						AttendeeID: st.AttendeeID,
						Quantity:   delta,
					})
				}
				continue
			}

			if p.Selected && (!p.Purchased || p.Edit) {
				items = append(items, domain.PurchaseItem{
					ProductID:  p.ID,
					AttendeeID: st.AttendeeID,
					Quantity:   1,
				})
			}
		}
	}

	return items
}

func (o *Orchestrator) setRoster(attendees []domain.Attendee) {
	roster := make([]domain.Attendee, len(attendees))
	copy(roster, attendees)

	sort.SliceStable(roster, func(i, j int) bool {
		return rosterRank(roster[i].Category) < rosterRank(roster[j].Category)
	})

	o.attendees = roster
}

// rosterRank orders rosters main first, then spouse, then everyone else.
// Monthly/patreon eligibility and discount propagation are computed relative
// to the main attendee, so the order is an invariant.
func rosterRank(c domain.AttendeeCategory) int {
	switch c {
	case domain.AttendeeMain:
		return 0
	case domain.AttendeeSpouse:
		return 1
	default:
		return 2
	}
}

type stateKey struct {
	attendeeID uint
	productID  uint
}

// rebuild derives every attendee's product list from scratch: filter the
// catalog to the attendee, seed day-pass quantities from prior purchases,
// merge the previous selection state back in by (attendee, product) key, run
// the purchase rules, then price everything.
func (o *Orchestrator) rebuild() {
	prev := make(map[stateKey]domain.AttendeeProduct)
	for _, st := range o.states {
		for _, p := range st.Products {
			prev[stateKey{st.AttendeeID, p.ID}] = p
		}
	}

	states := make([]domain.AttendeePassState, 0, len(o.attendees))
	for _, a := range o.attendees {
		var products []domain.AttendeeProduct
		for _, cp := range o.catalog {
			if !cp.Active || !cp.AppliesTo(a.Category) {
				continue
			}

			ap := domain.AttendeeProduct{Product: cp}
			if cp.Category.IsDaily() {
				ap.OriginalQuantity = ownedQuantity(a.Purchases, cp.ID)
				ap.Quantity = ap.OriginalQuantity
			}

			if prevAP, ok := prev[stateKey{a.ID, cp.ID}]; ok {
				ap.Selected = prevAP.Selected
				ap.Edit = prevAP.Edit
				if cp.Category.IsDaily() && prevAP.Quantity > ap.Quantity {
					ap.Quantity = prevAP.Quantity
				}
			}

			products = append(products, ap)
		}

		products = ApplyPurchaseRules(products, a.Purchases)

		active := specialActive(products)
		for i := range products {
			products[i].PriceNow = CalculatePrice(products[i], active, o.discount.Value)
		}

		states = append(states, domain.AttendeePassState{
			AttendeeID: a.ID,
			Name:       a.Name,
			Category:   a.Category,
			Products:   products,
		})
	}

	o.states = states
}

func ownedQuantity(purchases []domain.Purchase, productID uint) int {
	total := 0
	for _, p := range purchases {
		if p.ProductID == productID {
			total += p.Quantity
		}
	}

	return total
}
