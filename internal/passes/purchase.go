package passes

import "github.com/popuphq/passes-api/internal/domain"

// ApplyPurchaseRules marks which catalog products the attendee already owns
// from prior approved payments. Owning any monthly-tier product implies
// ownership of every weekly-tier product it covers (subsumption), so those
// weeks are flagged purchased as well. Runs once per re-derivation, before
// any toggle strategy.
func ApplyPurchaseRules(products []domain.AttendeeProduct, owned []domain.Purchase) []domain.AttendeeProduct {
	ownedIDs := make(map[uint]bool, len(owned))
	for _, o := range owned {
		ownedIDs[o.ProductID] = true
	}

	ownsMonth := false
	for _, p := range products {
		if p.Category.IsMonthly() && ownedIDs[p.ID] {
			ownsMonth = true
			break
		}
	}

	out := make([]domain.AttendeeProduct, len(products))
	copy(out, products)

	for i := range out {
		if ownedIDs[out[i].ID] {
			out[i].Purchased = true
			continue
		}
		if ownsMonth && out[i].Category.IsWeekly() {
			out[i].Purchased = true
		}
	}

	return out
}
