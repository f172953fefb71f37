package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popuphq/passes-api/internal/domain"
)

type fakeCatalogRepo struct {
	popups   map[uint]domain.Popup
	products map[uint]domain.Product
	coupons  map[string]domain.Coupon
	nextID   uint
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		popups:   make(map[uint]domain.Popup),
		products: make(map[uint]domain.Product),
		coupons:  make(map[string]domain.Coupon),
		nextID:   1,
	}
}

func (f *fakeCatalogRepo) Create(_ context.Context, popup domain.Popup) (domain.Popup, error) {
	popup.ID = f.nextID
	f.popups[popup.ID] = popup
	f.nextID++

	return popup, nil
}

func (f *fakeCatalogRepo) GetByID(_ context.Context, id uint) (domain.Popup, error) {
	popup, ok := f.popups[id]
	if !ok {
		return domain.Popup{}, ErrPopupNotFound
	}

	return popup, nil
}

func (f *fakeCatalogRepo) GetAll(_ context.Context) ([]domain.Popup, error) {
	var popups []domain.Popup
	for _, p := range f.popups {
		popups = append(popups, p)
	}

	return popups, nil
}

func (f *fakeCatalogRepo) Update(_ context.Context, popup domain.Popup) (domain.Popup, error) {
	if _, ok := f.popups[popup.ID]; !ok {
		return domain.Popup{}, ErrPopupNotFound
	}
	f.popups[popup.ID] = popup

	return popup, nil
}

func (f *fakeCatalogRepo) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	product.ID = f.nextID
	f.products[product.ID] = product
	f.nextID++

	return product, nil
}

func (f *fakeCatalogRepo) GetProductByID(_ context.Context, id uint) (domain.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}

	return product, nil
}

func (f *fakeCatalogRepo) GetProductsByPopupID(_ context.Context, popupID uint) ([]domain.Product, error) {
	var products []domain.Product
	for _, p := range f.products {
		if p.PopupID == popupID {
			products = append(products, p)
		}
	}

	return products, nil
}

func (f *fakeCatalogRepo) UpdateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	if _, ok := f.products[product.ID]; !ok {
		return domain.Product{}, ErrProductNotFound
	}
	f.products[product.ID] = product

	return product, nil
}

func (f *fakeCatalogRepo) CreateCoupon(_ context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	if _, ok := f.coupons[coupon.Code]; ok {
		return domain.Coupon{}, ErrCouponCodeExists
	}
	coupon.ID = f.nextID
	f.coupons[coupon.Code] = coupon
	f.nextID++

	return coupon, nil
}

func (f *fakeCatalogRepo) GetCouponsByPopupID(_ context.Context, popupID uint) ([]domain.Coupon, error) {
	var coupons []domain.Coupon
	for _, c := range f.coupons {
		if c.PopupID == popupID {
			coupons = append(coupons, c)
		}
	}

	return coupons, nil
}

func TestPopupService_UpdatePopup(t *testing.T) {
	svc := NewPopupService(newFakeCatalogRepo())

	created, err := svc.CreatePopup(context.Background(), domain.Popup{
		Name:                 "Zanzalu",
		Location:             "Zanzibar",
		GroupDiscountPercent: 10,
		Active:               true,
	})
	require.NoError(t, err)

	created.GroupDiscountPercent = 20
	created.Active = false

	updated, err := svc.UpdatePopup(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.GroupDiscountPercent)
	assert.False(t, updated.Active)

	got, err := svc.GetPopup(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestPopupService_UpdateProduct(t *testing.T) {
	svc := NewPopupService(newFakeCatalogRepo())

	created, err := svc.CreateProduct(context.Background(), domain.Product{
		PopupID:  3,
		Name:     "Week 1",
		Category: domain.CategoryWeek,
		Price:    300,
		Active:   true,
	})
	require.NoError(t, err)

	created.Price = 350
	created.Active = false

	updated, err := svc.UpdateProduct(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, 350.0, updated.Price)
	assert.False(t, updated.Active)

	got, err := svc.GetProduct(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestPopupService_UpdateProduct_RejectsInvertedDates(t *testing.T) {
	svc := NewPopupService(newFakeCatalogRepo())

	start := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)

	created, err := svc.CreateProduct(context.Background(), domain.Product{
		PopupID:   3,
		Name:      "Day pass",
		Category:  domain.CategoryDay,
		Price:     60,
		Active:    true,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 27),
	})
	require.NoError(t, err)

	created.EndDate = start.AddDate(0, 0, -1)

	_, err = svc.UpdateProduct(context.Background(), created)
	assert.ErrorIs(t, err, ErrInvalidProductDates)
}

func TestPopupService_CreateCoupon_ValueBounds(t *testing.T) {
	svc := NewPopupService(newFakeCatalogRepo())

	for _, value := range []float64{0, -5, 101} {
		_, err := svc.CreateCoupon(context.Background(), domain.Coupon{
			PopupID: 3,
			Code:    "SPRING10",
			Value:   value,
		})
		assert.ErrorIs(t, err, ErrInvalidCouponValue, "value=%v", value)
	}

	created, err := svc.CreateCoupon(context.Background(), domain.Coupon{
		PopupID: 3,
		Code:    "SPRING10",
		Value:   10,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DiscountPercentage, created.Type, "percentage is the default coupon type")

	_, err = svc.CreateCoupon(context.Background(), domain.Coupon{
		PopupID: 3,
		Code:    "SPRING10",
		Value:   15,
	})
	assert.ErrorIs(t, err, ErrCouponCodeExists)
}
