package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popuphq/passes-api/internal/domain"
)

const testAttendeeID = 7

func testProduct(id uint, category domain.ProductCategory, price float64) domain.AttendeeProduct {
	return domain.AttendeeProduct{
		Product: domain.Product{ID: id, Category: category, Price: price, Active: true},
	}
}

// passCatalog is a month, four weeks, one day pass and a patreon product.
func passCatalog() []domain.AttendeeProduct {
	return []domain.AttendeeProduct{
		testProduct(1, domain.CategoryMonth, 1000),
		testProduct(2, domain.CategoryWeek, 300),
		testProduct(3, domain.CategoryWeek, 300),
		testProduct(4, domain.CategoryWeek, 300),
		testProduct(5, domain.CategoryWeek, 300),
		testProduct(6, domain.CategoryDay, 60),
		testProduct(8, domain.CategoryPatreon, 1500),
	}
}

func singleState(products []domain.AttendeeProduct) []domain.AttendeePassState {
	return []domain.AttendeePassState{
		{AttendeeID: testAttendeeID, Category: domain.AttendeeMain, Products: products},
	}
}

func productByID(t *testing.T, states []domain.AttendeePassState, id uint) domain.AttendeeProduct {
	t.Helper()

	for _, st := range states {
		for _, p := range st.Products {
			if p.ID == id {
				return p
			}
		}
	}

	require.FailNow(t, "product not found", "id=%d", id)

	return domain.AttendeeProduct{}
}

func TestHandleSelection_UnknownAttendeeIsNoop(t *testing.T) {
	states := singleState(passCatalog())

	got := HandleSelection(states, 999, testProduct(2, domain.CategoryWeek, 300), domain.DiscountApplied{})

	assert.Equal(t, states, got)
}

func TestHandleSelection_UnknownCategoryFallsBackToWeekly(t *testing.T) {
	products := append(passCatalog(), testProduct(9, "merch", 40))
	states := singleState(products)

	got := HandleSelection(states, testAttendeeID, testProduct(9, "merch", 40), domain.DiscountApplied{})

	assert.True(t, productByID(t, got, 9).Selected)
	assert.False(t, productByID(t, got, 1).Selected, "no month auto-selection from a non-week toggle")
}

func TestExclusiveStrategy_SingleExclusivePick(t *testing.T) {
	products := passCatalog()
	tent := testProduct(20, "housing", 400)
	tent.Exclusive = true
	dorm := testProduct(21, "housing", 250)
	dorm.Exclusive = true
	dorm.Selected = true
	month := testProduct(22, domain.CategoryMonth, 1200)
	month.Exclusive = true
	month.Selected = true
	products = append(products, tent, dorm, month)

	got := HandleSelection(singleState(products), testAttendeeID, tent, domain.DiscountApplied{})

	assert.True(t, productByID(t, got, 20).Selected)
	assert.False(t, productByID(t, got, 21).Selected, "other exclusive picks are dropped")
	assert.True(t, productByID(t, got, 22).Selected, "exclusive month passes survive")
}

func TestExclusiveStrategy_DeselectLeavesOthersAlone(t *testing.T) {
	products := passCatalog()
	tent := testProduct(20, "housing", 400)
	tent.Exclusive = true
	tent.Selected = true
	dorm := testProduct(21, "housing", 250)
	dorm.Exclusive = true
	products = append(products, tent, dorm)

	got := HandleSelection(singleState(products), testAttendeeID, tent, domain.DiscountApplied{})

	assert.False(t, productByID(t, got, 20).Selected)
	assert.False(t, productByID(t, got, 21).Selected)
}

func TestSpecialStrategy_ZeroesOtherPrices(t *testing.T) {
	states := singleState(passCatalog())

	got := HandleSelection(states, testAttendeeID, testProduct(8, domain.CategoryPatreon, 1500), domain.DiscountApplied{})

	assert.True(t, productByID(t, got, 8).Selected)
	assert.Equal(t, 1500.0, productByID(t, got, 8).PriceNow)
	assert.Equal(t, 0.0, productByID(t, got, 1).PriceNow)
	assert.Equal(t, 0.0, productByID(t, got, 2).PriceNow)

	// Toggling the patreon product back off restores regular pricing.
	got = HandleSelection(got, testAttendeeID, testProduct(8, domain.CategoryPatreon, 1500), domain.DiscountApplied{})

	assert.False(t, productByID(t, got, 8).Selected)
	assert.Equal(t, 1000.0, productByID(t, got, 1).PriceNow)
	assert.Equal(t, 300.0, productByID(t, got, 2).PriceNow)
}

func TestMonthStrategy_SelectImpliesUnpurchasedWeeks(t *testing.T) {
	products := passCatalog()
	products[1].Purchased = true // week 2 already owned

	got := HandleSelection(singleState(products), testAttendeeID, products[0], domain.DiscountApplied{})

	assert.True(t, productByID(t, got, 1).Selected)
	assert.False(t, productByID(t, got, 2).Selected, "purchased weeks are left alone")
	assert.True(t, productByID(t, got, 3).Selected)
	assert.True(t, productByID(t, got, 4).Selected)
	assert.True(t, productByID(t, got, 5).Selected)
}

func TestMonthStrategy_DeselectLeavesWeeksUntouched(t *testing.T) {
	products := passCatalog()
	products[0].Selected = true
	products[2].Selected = true

	got := HandleSelection(singleState(products), testAttendeeID, products[0], domain.DiscountApplied{})

	assert.False(t, productByID(t, got, 1).Selected)
	assert.True(t, productByID(t, got, 3).Selected, "weeks are toggled individually after month deselect")
}

func TestWeekStrategy_FourthWeekUpgradesToMonth(t *testing.T) {
	products := passCatalog()
	products[1].Selected = true
	products[2].Selected = true
	products[3].Selected = true
	products[5].Selected = true // day pass with two units selected
	products[5].Quantity = 2

	got := HandleSelection(singleState(products), testAttendeeID, products[4], domain.DiscountApplied{})

	assert.True(t, productByID(t, got, 1).Selected, "month auto-selected at four active weeks")

	day := productByID(t, got, 6)
	assert.False(t, day.Selected)
	assert.Equal(t, 0, day.Quantity)

	// Observed source behavior: the weeks stay flagged selected under the month.
	assert.True(t, productByID(t, got, 2).Selected)
	assert.True(t, productByID(t, got, 5).Selected)
}

func TestWeekStrategy_PurchasedWeeksCountTowardsUpgrade(t *testing.T) {
	products := passCatalog()
	products[1].Purchased = true
	products[2].Purchased = true
	products[3].Selected = true

	got := HandleSelection(singleState(products), testAttendeeID, products[4], domain.DiscountApplied{})

	assert.True(t, productByID(t, got, 1).Selected)
}

func TestWeekStrategy_EditSuppressesUpgrade(t *testing.T) {
	products := passCatalog()
	products[1].Purchased = true
	products[1].Selected = true
	products[1].Edit = true
	products[2].Selected = true
	products[3].Selected = true

	got := HandleSelection(singleState(products), testAttendeeID, products[4], domain.DiscountApplied{})

	assert.False(t, productByID(t, got, 1).Selected, "no auto-month while an edit is in flight")
	assert.True(t, productByID(t, got, 5).Selected)
}

func TestWeekStrategy_OwnedMonthNeverReselected(t *testing.T) {
	products := passCatalog()
	products[0].Purchased = true
	products[1].Selected = true
	products[2].Selected = true
	products[3].Selected = true

	got := HandleSelection(singleState(products), testAttendeeID, products[4], domain.DiscountApplied{})

	assert.False(t, productByID(t, got, 1).Selected)
}

func TestWeekStrategy_ReselectingPurchasedWeekEntersEditMode(t *testing.T) {
	products := passCatalog()
	products[1].Purchased = true

	got := HandleSelection(singleState(products), testAttendeeID, products[1], domain.DiscountApplied{})

	week := productByID(t, got, 2)
	assert.True(t, week.Selected)
	assert.True(t, week.Edit)

	got = HandleSelection(got, testAttendeeID, products[1], domain.DiscountApplied{})

	week = productByID(t, got, 2)
	assert.False(t, week.Selected)
	assert.False(t, week.Edit)
}

func TestDayStrategy_DeltaDecidesSelection(t *testing.T) {
	products := passCatalog()
	products[5].OriginalQuantity = 2
	products[5].Quantity = 2

	payload := products[5]
	payload.Quantity = 3
	got := HandleSelection(singleState(products), testAttendeeID, payload, domain.DiscountApplied{})

	day := productByID(t, got, 6)
	assert.True(t, day.Selected, "one unit above owned counts as a new purchase")
	assert.Equal(t, 3, day.Quantity)

	payload.Quantity = 2
	got = HandleSelection(got, testAttendeeID, payload, domain.DiscountApplied{})

	day = productByID(t, got, 6)
	assert.False(t, day.Selected, "delta of zero is not a purchase")
	assert.Equal(t, 2, day.Quantity)
}
