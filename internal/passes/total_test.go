package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/popuphq/passes-api/internal/domain"
)

func pricedProduct(id uint, category domain.ProductCategory, base, priceNow float64) domain.AttendeeProduct {
	p := testProduct(id, category, base)
	p.CompareAtPrice = base
	p.PriceNow = priceNow

	return p
}

func TestCalculateTotals_GroupDiscountWins(t *testing.T) {
	week := pricedProduct(2, domain.CategoryWeek, 1000, 900)
	week.Selected = true

	discount := domain.DiscountApplied{Value: 10, Type: domain.DiscountPercentage}

	got := CalculateTotals(singleState([]domain.AttendeeProduct{week}), discount, 15)

	assert.InDelta(t, 1000.0, got.OriginalTotal, 1e-9)
	assert.InDelta(t, 150.0, got.DiscountAmount, 1e-9, "group 15% beats individual 10%")
	assert.InDelta(t, 850.0, got.Total, 1e-9)
}

func TestCalculateTotals_IndividualDiscountWins(t *testing.T) {
	week := pricedProduct(2, domain.CategoryWeek, 1000, 900)
	week.Selected = true

	discount := domain.DiscountApplied{Value: 10, Type: domain.DiscountPercentage}

	got := CalculateTotals(singleState([]domain.AttendeeProduct{week}), discount, 5)

	assert.InDelta(t, 1000.0, got.OriginalTotal, 1e-9)
	assert.InDelta(t, 100.0, got.DiscountAmount, 1e-9, "group 5% loses, discounts never stack")
	assert.InDelta(t, 900.0, got.Total, 1e-9)
}

func TestCalculateTotals_SpecialStrategy(t *testing.T) {
	supporter := pricedProduct(8, domain.CategorySupporter, 500, 500)
	supporter.Selected = true
	week := pricedProduct(2, domain.CategoryWeek, 200, 0) // zeroed by the patron override
	week.Selected = true

	got := CalculateTotals(singleState([]domain.AttendeeProduct{supporter, week}), domain.DiscountApplied{}, 0)

	assert.InDelta(t, 500.0, got.Total, 1e-9)
	assert.InDelta(t, 700.0, got.OriginalTotal, 1e-9)
	assert.InDelta(t, 200.0, got.DiscountAmount, 1e-9)
}

func TestCalculateTotals_MonthlyStrategyExcludesWeeks(t *testing.T) {
	month := pricedProduct(1, domain.CategoryMonth, 1000, 1000)
	month.Selected = true

	// Weeks force-selected under the month must not be double counted.
	weeks := make([]domain.AttendeeProduct, 0, 4)
	for id := uint(2); id <= 5; id++ {
		w := pricedProduct(id, domain.CategoryWeek, 300, 300)
		w.Selected = true
		weeks = append(weeks, w)
	}

	got := CalculateTotals(singleState(append([]domain.AttendeeProduct{month}, weeks...)), domain.DiscountApplied{}, 0)

	assert.InDelta(t, 1000.0, got.Total, 1e-9)
	assert.InDelta(t, 1000.0, got.OriginalTotal, 1e-9)
	assert.InDelta(t, 0.0, got.DiscountAmount, 1e-9)
}

func TestCalculateTotals_MonthPurchasedStrategy(t *testing.T) {
	month := pricedProduct(1, domain.CategoryMonth, 1000, 1000)
	month.Purchased = true

	newWeek := pricedProduct(2, domain.CategoryWeek, 300, 270)
	newWeek.Selected = true

	swapped := pricedProduct(3, domain.CategoryWeek, 300, 270)
	swapped.Purchased = true
	swapped.Selected = true
	swapped.Edit = true

	discount := domain.DiscountApplied{Value: 10, Type: domain.DiscountPercentage}

	got := CalculateTotals(singleState([]domain.AttendeeProduct{month, newWeek, swapped}), discount, 0)

	assert.InDelta(t, -30.0, got.Total, 1e-9, "new week at 270 minus 300 credit for the swapped week")
	assert.InDelta(t, 0.0, got.OriginalTotal, 1e-9)
	assert.InDelta(t, 0.0, got.DiscountAmount, 1e-9, "owned months are never re-discounted")
}

func TestCalculateTotals_DayStrategy(t *testing.T) {
	day := pricedProduct(6, domain.CategoryDay, 60, 60)
	day.Selected = true
	day.OriginalQuantity = 1
	day.Quantity = 3

	got := CalculateTotals(singleState([]domain.AttendeeProduct{day}), domain.DiscountApplied{Value: 50, Type: domain.DiscountPercentage}, 0)

	assert.InDelta(t, 60.0, got.Total, 1e-9, "two new units at half price")
	assert.InDelta(t, 120.0, got.OriginalTotal, 1e-9)
	assert.InDelta(t, 60.0, got.DiscountAmount, 1e-9)
}

func TestCalculateTotals_WeeklyDefaultHandlesDayDeltas(t *testing.T) {
	week := pricedProduct(2, domain.CategoryWeek, 300, 300)
	week.Selected = true
	day := pricedProduct(6, domain.CategoryDay, 60, 60)
	day.Selected = true
	day.Quantity = 2

	got := CalculateTotals(singleState([]domain.AttendeeProduct{week, day}), domain.DiscountApplied{}, 0)

	assert.InDelta(t, 420.0, got.Total, 1e-9)
	assert.InDelta(t, 420.0, got.OriginalTotal, 1e-9)
}

func TestCalculateTotals_SumsAcrossAttendees(t *testing.T) {
	main := pricedProduct(2, domain.CategoryWeek, 300, 300)
	main.Selected = true
	spouse := pricedProduct(3, domain.CategoryWeek, 250, 250)
	spouse.Selected = true

	states := []domain.AttendeePassState{
		{AttendeeID: 1, Category: domain.AttendeeMain, Products: []domain.AttendeeProduct{main}},
		{AttendeeID: 2, Category: domain.AttendeeSpouse, Products: []domain.AttendeeProduct{spouse}},
	}

	got := CalculateTotals(states, domain.DiscountApplied{}, 0)

	assert.InDelta(t, 550.0, got.Total, 1e-9)
}
