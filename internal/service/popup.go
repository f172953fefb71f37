package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/repository"
)

var (
	ErrPopupNotFound       = repository.ErrPopupNotFound
	ErrCouponCodeExists    = repository.ErrCouponCodeExists
	ErrInvalidCouponValue  = errors.New("coupon value must be a percentage in (0,100]")
	ErrInvalidProductDates = errors.New("product end date before start date")
)

type PopupRepository interface {
	Create(ctx context.Context, popup domain.Popup) (domain.Popup, error)
	GetByID(ctx context.Context, id uint) (domain.Popup, error)
	GetAll(ctx context.Context) ([]domain.Popup, error)
	Update(ctx context.Context, popup domain.Popup) (domain.Popup, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProductByID(ctx context.Context, id uint) (domain.Product, error)
	GetProductsByPopupID(ctx context.Context, popupID uint) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error)
	GetCouponsByPopupID(ctx context.Context, popupID uint) ([]domain.Coupon, error)
}

// PopupService is the backoffice surface for popups, their product catalogs
// and their coupon codes.
type PopupService struct {
	repo PopupRepository
}

func NewPopupService(repo PopupRepository) *PopupService {
	return &PopupService{
		repo: repo,
	}
}

func (s *PopupService) CreatePopup(ctx context.Context, popup domain.Popup) (domain.Popup, error) {
	created, err := s.repo.Create(ctx, popup)
	if err != nil {
		return domain.Popup{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PopupService) GetPopup(ctx context.Context, id uint) (domain.Popup, error) {
	popup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPopupNotFound) {
			return domain.Popup{}, ErrPopupNotFound
		}

		return domain.Popup{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return popup, nil
}

func (s *PopupService) ListPopups(ctx context.Context) ([]domain.Popup, error) {
	popups, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetAll -> %w", err)
	}

	return popups, nil
}

func (s *PopupService) UpdatePopup(ctx context.Context, popup domain.Popup) (domain.Popup, error) {
	updated, err := s.repo.Update(ctx, popup)
	if err != nil {
		return domain.Popup{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *PopupService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if !product.EndDate.IsZero() && product.EndDate.Before(product.StartDate) {
		return domain.Product{}, ErrInvalidProductDates
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.CreateProduct -> %w", err)
	}

	return created, nil
}

func (s *PopupService) GetProduct(ctx context.Context, id uint) (domain.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return domain.Product{}, ErrProductNotFound
		}

		return domain.Product{}, fmt.Errorf("s.repo.GetProductByID -> %w", err)
	}

	return product, nil
}

func (s *PopupService) ListProducts(ctx context.Context, popupID uint) ([]domain.Product, error) {
	products, err := s.repo.GetProductsByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetProductsByPopupID -> %w", err)
	}

	return products, nil
}

func (s *PopupService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if !product.EndDate.IsZero() && product.EndDate.Before(product.StartDate) {
		return domain.Product{}, ErrInvalidProductDates
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.UpdateProduct -> %w", err)
	}

	return updated, nil
}

func (s *PopupService) CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	if coupon.Type == "" {
		coupon.Type = domain.DiscountPercentage
	}
	if coupon.Type == domain.DiscountPercentage && (coupon.Value <= 0 || coupon.Value > 100) {
		return domain.Coupon{}, ErrInvalidCouponValue
	}

	created, err := s.repo.CreateCoupon(ctx, coupon)
	if err != nil {
		if errors.Is(err, repository.ErrCouponCodeExists) {
			return domain.Coupon{}, ErrCouponCodeExists
		}

		return domain.Coupon{}, fmt.Errorf("s.repo.CreateCoupon -> %w", err)
	}

	return created, nil
}

func (s *PopupService) ListCoupons(ctx context.Context, popupID uint) ([]domain.Coupon, error) {
	coupons, err := s.repo.GetCouponsByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetCouponsByPopupID -> %w", err)
	}

	return coupons, nil
}
