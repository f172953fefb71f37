package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popuphq/passes-api/internal/domain"
)

type fakeAppRepo struct {
	apps map[uint]domain.Application
}

func (f *fakeAppRepo) GetByID(_ context.Context, id uint) (domain.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return domain.Application{}, ErrApplicationNotFound
	}

	return app, nil
}

type fakePopupRepo struct {
	popup    domain.Popup
	products []domain.Product
	coupons  map[string]domain.Coupon
}

func (f *fakePopupRepo) GetByID(_ context.Context, _ uint) (domain.Popup, error) {
	return f.popup, nil
}

func (f *fakePopupRepo) GetProductsByPopupID(_ context.Context, _ uint) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakePopupRepo) GetCouponByCode(_ context.Context, _ uint, code string) (domain.Coupon, error) {
	coupon, ok := f.coupons[code]
	if !ok {
		return domain.Coupon{}, ErrCouponNotFound
	}

	return coupon, nil
}

const (
	testUserID        = uint(42)
	testApplicationID = uint(7)
	testPopupID       = uint(3)
)

func newTestService() (*PassesService, *fakeAppRepo, *fakePopupRepo) {
	appRepo := &fakeAppRepo{
		apps: map[uint]domain.Application{
			testApplicationID: {
				ID:      testApplicationID,
				PopupID: testPopupID,
				UserID:  testUserID,
				Status:  domain.ApplicationAccepted,
				Attendees: []domain.Attendee{
					{ID: 1, Name: "Ada", Category: domain.AttendeeMain},
					{ID: 2, Name: "Sam", Category: domain.AttendeeSpouse},
				},
			},
		},
	}

	popupRepo := &fakePopupRepo{
		popup: domain.Popup{ID: testPopupID, Name: "Popup Atlantis", GroupDiscountPercent: 20},
		products: []domain.Product{
			{ID: 10, PopupID: testPopupID, Name: "Full Month", Category: domain.CategoryMonth, Price: 1000, Active: true},
			{ID: 11, PopupID: testPopupID, Name: "Week 1", Category: domain.CategoryWeek, Price: 300, Active: true},
			{ID: 12, PopupID: testPopupID, Name: "Week 2", Category: domain.CategoryWeek, Price: 300, Active: true},
			{
				ID: 13, PopupID: testPopupID, Name: "Day Pass", Category: domain.CategoryDay, Price: 50, Active: true,
				StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			},
		},
		coupons: map[string]domain.Coupon{
			"SPRING10": {ID: 1, PopupID: testPopupID, Code: "SPRING10", Type: domain.DiscountPercentage, Value: 10, Active: true},
			"EXPIRED":  {ID: 2, PopupID: testPopupID, Code: "EXPIRED", Type: domain.DiscountPercentage, Value: 50, Active: true, ValidTo: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	return NewPassesService(appRepo, popupRepo), appRepo, popupRepo
}

func TestPassesService_GetPassState(t *testing.T) {
	svc, _, _ := newTestService()

	state, err := svc.GetPassState(context.Background(), testUserID, testApplicationID)
	require.NoError(t, err)

	require.Len(t, state.Attendees, 2)
	assert.Equal(t, "Ada", state.Attendees[0].Name)
	assert.Len(t, state.Attendees[0].Products, 4)
	assert.Zero(t, state.Totals.Total)
}

func TestPassesService_GetPassState_NotOwner(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetPassState(context.Background(), 999, testApplicationID)
	assert.ErrorIs(t, err, ErrNotApplicationOwner)
}

func TestPassesService_GetPassState_UnknownApplication(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetPassState(context.Background(), testUserID, 404)
	assert.ErrorIs(t, err, ErrApplicationNotFound)
}

func TestPassesService_ToggleProduct(t *testing.T) {
	svc, _, _ := newTestService()

	state, err := svc.ToggleProduct(context.Background(), testUserID, testApplicationID, 1, 11, 0)
	require.NoError(t, err)

	week := findAttendeeProduct(t, state, 1, 11)
	assert.True(t, week.Selected)
	assert.InDelta(t, 300.0, state.Totals.Total, 0.001)
}

func TestPassesService_ToggleProduct_UnknownProduct(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ToggleProduct(context.Background(), testUserID, testApplicationID, 1, 999, 0)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPassesService_ToggleProduct_DayQuantityCeiling(t *testing.T) {
	svc, _, _ := newTestService()

	// The day pass covers 5 days, 6 units cannot be bought.
	_, err := svc.ToggleProduct(context.Background(), testUserID, testApplicationID, 1, 13, 6)
	assert.ErrorIs(t, err, ErrInvalidDayQuantity)

	state, err := svc.ToggleProduct(context.Background(), testUserID, testApplicationID, 1, 13, 3)
	require.NoError(t, err)

	day := findAttendeeProduct(t, state, 1, 13)
	assert.True(t, day.Selected)
	assert.Equal(t, 3, day.Quantity)
}

func TestPassesService_ApplyCoupon(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ToggleProduct(context.Background(), testUserID, testApplicationID, 1, 11, 0)
	require.NoError(t, err)

	state, err := svc.ApplyCoupon(context.Background(), testUserID, testApplicationID, "SPRING10")
	require.NoError(t, err)

	assert.InDelta(t, 10.0, state.Discount.Value, 0.001)
	assert.InDelta(t, 270.0, state.Totals.Total, 0.001)
	assert.InDelta(t, 30.0, state.Totals.DiscountAmount, 0.001)
}

func TestPassesService_ApplyCoupon_Expired(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ApplyCoupon(context.Background(), testUserID, testApplicationID, "EXPIRED")
	assert.ErrorIs(t, err, ErrCouponNotRedeemable)
}

func TestPassesService_ApplyCoupon_Unknown(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ApplyCoupon(context.Background(), testUserID, testApplicationID, "NOPE")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestPassesService_BuildCheckout(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.BuildCheckout(context.Background(), testUserID, testApplicationID)
	assert.ErrorIs(t, err, ErrNothingToPurchase)

	_, err = svc.ToggleProduct(context.Background(), testUserID, testApplicationID, 1, 11, 0)
	require.NoError(t, err)
	_, err = svc.ToggleProduct(context.Background(), testUserID, testApplicationID, 2, 13, 2)
	require.NoError(t, err)

	plan, err := svc.BuildCheckout(context.Background(), testUserID, testApplicationID)
	require.NoError(t, err)

	assert.Equal(t, testApplicationID, plan.ApplicationID)
	assert.Equal(t, testPopupID, plan.PopupID)
	assert.ElementsMatch(t, []domain.PurchaseItem{
		{ProductID: 11, AttendeeID: 1, Quantity: 1},
		{ProductID: 13, AttendeeID: 2, Quantity: 2},
	}, plan.Items)
	assert.InDelta(t, 400.0, plan.Totals.Total, 0.001)
}

func TestPassesService_Refresh_PicksUpPurchases(t *testing.T) {
	svc, appRepo, _ := newTestService()

	_, err := svc.GetPassState(context.Background(), testUserID, testApplicationID)
	require.NoError(t, err)

	// A payment got approved since the session started.
	app := appRepo.apps[testApplicationID]
	app.Attendees[0].Purchases = []domain.Purchase{{ProductID: 11, Quantity: 1}}
	appRepo.apps[testApplicationID] = app

	state, err := svc.Refresh(context.Background(), testUserID, testApplicationID)
	require.NoError(t, err)

	week := findAttendeeProduct(t, state, 1, 11)
	assert.True(t, week.Purchased)
}

func findAttendeeProduct(t *testing.T, state PassState, attendeeID, productID uint) domain.AttendeeProduct {
	t.Helper()

	for _, st := range state.Attendees {
		if st.AttendeeID != attendeeID {
			continue
		}
		for _, p := range st.Products {
			if p.ID == productID {
				return p
			}
		}
	}

	t.Fatalf("product %v not found for attendee %v", productID, attendeeID)

	return domain.AttendeeProduct{}
}
