package passes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popuphq/passes-api/internal/domain"
)

func testCatalog() []domain.Product {
	start := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	return []domain.Product{
		{ID: 1, Category: domain.CategoryMonth, Price: 1000, Active: true},
		{ID: 2, Category: domain.CategoryWeek, Price: 300, Active: true},
		{ID: 3, Category: domain.CategoryWeek, Price: 300, Active: true},
		{ID: 4, Category: domain.CategoryWeek, Price: 300, Active: true},
		{ID: 5, Category: domain.CategoryWeek, Price: 300, Active: true},
		{ID: 6, Category: domain.CategoryDay, Price: 60, Active: true, StartDate: start, EndDate: start.AddDate(0, 0, 27)},
		{ID: 7, Category: "kids club", Price: 150, Active: true, AttendeeCategory: domain.AttendeeKid},
		{ID: 8, Category: domain.CategoryPatreon, Price: 1500, Active: true},
		{ID: 9, Category: domain.CategoryWeek, Price: 300, Active: false},
	}
}

func testRoster() []domain.Attendee {
	return []domain.Attendee{
		{ID: 11, Name: "Kim", Category: domain.AttendeeSpouse},
		{ID: 10, Name: "Alex", Category: domain.AttendeeMain},
		{ID: 12, Name: "Sam", Category: domain.AttendeeKid},
	}
}

func TestOrchestrator_RosterOrderAndFiltering(t *testing.T) {
	o := NewOrchestrator(testRoster(), testCatalog(), domain.DiscountApplied{})

	states := o.State()
	require.Len(t, states, 3)

	assert.Equal(t, uint(10), states[0].AttendeeID, "main attendee comes first")
	assert.Equal(t, uint(11), states[1].AttendeeID)
	assert.Equal(t, uint(12), states[2].AttendeeID)

	for _, p := range states[0].Products {
		assert.NotEqual(t, uint(7), p.ID, "kid-only products are filtered out for the main attendee")
		assert.NotEqual(t, uint(9), p.ID, "inactive products are filtered out")
	}
}

func TestOrchestrator_IdempotentRebuild(t *testing.T) {
	o := NewOrchestrator(testRoster(), testCatalog(), domain.DiscountApplied{})

	before := o.State()
	o.SetCatalog(testCatalog())

	assert.Equal(t, before, o.State(), "identical inputs derive identical state")
}

func TestOrchestrator_SelectionSurvivesRebuild(t *testing.T) {
	o := NewOrchestrator(testRoster(), testCatalog(), domain.DiscountApplied{})

	week := findState(t, o, 10, 2)
	o.Toggle(10, week)
	require.True(t, findState(t, o, 10, 2).Selected)

	o.SetCatalog(testCatalog())

	assert.True(t, findState(t, o, 10, 2).Selected, "selected state merged back in by id")
}

func TestOrchestrator_MonotonicDiscount(t *testing.T) {
	o := NewOrchestrator(testRoster(), testCatalog(), domain.DiscountApplied{})

	o.SetDiscount(domain.DiscountApplied{Value: 10, Type: domain.DiscountPercentage, PopupID: 1})
	assert.Equal(t, 10.0, o.Discount().Value)

	before := o.State()
	o.SetDiscount(domain.DiscountApplied{Value: 5, Type: domain.DiscountPercentage, PopupID: 1})
	assert.Equal(t, 10.0, o.Discount().Value, "weaker discount for the same popup is ignored")
	assert.Equal(t, before, o.State())

	o.SetDiscount(domain.DiscountApplied{Value: 10, Type: domain.DiscountPercentage, PopupID: 1})
	assert.Equal(t, 10.0, o.Discount().Value, "equal discount is ignored as well")

	o.SetDiscount(domain.DiscountApplied{Value: 15, Type: domain.DiscountPercentage, PopupID: 1})
	assert.Equal(t, 15.0, o.Discount().Value)

	o.SetDiscount(domain.DiscountApplied{Value: 5, Type: domain.DiscountPercentage, PopupID: 2})
	assert.Equal(t, 5.0, o.Discount().Value, "switching popups resets the retained discount")
}

func TestOrchestrator_PopupSwitchReprices(t *testing.T) {
	o := NewOrchestrator(testRoster(), testCatalog(), domain.DiscountApplied{})

	o.SetDiscount(domain.DiscountApplied{Value: 50, Type: domain.DiscountPercentage, PopupID: 1})
	require.InDelta(t, 150.0, findState(t, o, 10, 2).PriceNow, 1e-9)

	o.SetDiscount(domain.DiscountApplied{PopupID: 2})

	assert.Equal(t, 0.0, o.Discount().Value)
	assert.InDelta(t, 300.0, findState(t, o, 10, 2).PriceNow, 1e-9, "prices revert once the discount is dropped")
}

func TestOrchestrator_DiscountReprices(t *testing.T) {
	o := NewOrchestrator(testRoster(), testCatalog(), domain.DiscountApplied{})

	o.SetDiscount(domain.DiscountApplied{Value: 20, Type: domain.DiscountPercentage, PopupID: 1})

	assert.InDelta(t, 240.0, findState(t, o, 10, 2).PriceNow, 1e-9)
}

func TestOrchestrator_PurchasesAnnotated(t *testing.T) {
	roster := testRoster()
	roster[1].Purchases = []domain.Purchase{{ProductID: 1, Quantity: 1}} // Alex owns the month

	o := NewOrchestrator(roster, testCatalog(), domain.DiscountApplied{})

	assert.True(t, findState(t, o, 10, 1).Purchased)
	assert.True(t, findState(t, o, 10, 2).Purchased, "weeks subsumed by the owned month")
	assert.False(t, findState(t, o, 11, 2).Purchased, "spouse owns nothing")
}

func TestOrchestrator_DayQuantitiesSeededFromPurchases(t *testing.T) {
	roster := testRoster()
	roster[1].Purchases = []domain.Purchase{{ProductID: 6, Quantity: 2}}

	o := NewOrchestrator(roster, testCatalog(), domain.DiscountApplied{})

	day := findState(t, o, 10, 6)
	assert.Equal(t, 2, day.OriginalQuantity)
	assert.Equal(t, 2, day.Quantity)
}

func TestOrchestrator_ProductsToPurchase(t *testing.T) {
	roster := testRoster()
	roster[1].Purchases = []domain.Purchase{{ProductID: 6, Quantity: 1}}

	o := NewOrchestrator(roster, testCatalog(), domain.DiscountApplied{})

	o.Toggle(10, findState(t, o, 10, 2))

	day := findState(t, o, 10, 6)
	day.Quantity = 3
	o.Toggle(10, day)

	items := o.ProductsToPurchase()

	assert.ElementsMatch(t, []domain.PurchaseItem{
		{ProductID: 2, AttendeeID: 10, Quantity: 1},
		{ProductID: 6, AttendeeID: 10, Quantity: 2},
	}, items)
}

func findState(t *testing.T, o *Orchestrator, attendeeID, productID uint) domain.AttendeeProduct {
	t.Helper()

	for _, st := range o.State() {
		if st.AttendeeID != attendeeID {
			continue
		}
		for _, p := range st.Products {
			if p.ID == productID {
				return p
			}
		}
	}

	require.FailNow(t, "state not found", "attendee=%d product=%d", attendeeID, productID)

	return domain.AttendeeProduct{}
}
