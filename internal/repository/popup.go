package repository

import (
	"context"
	"fmt"

	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/repository/dao"
)

var (
	ErrPopupNotFound    = dao.ErrPopupNotFound
	ErrProductNotFound  = dao.ErrProductNotFound
	ErrCouponNotFound   = dao.ErrCouponNotFound
	ErrCouponCodeExists = dao.ErrCouponCodeExists
)

type PopupDAO interface {
	Insert(ctx context.Context, popup dao.Popup) (dao.Popup, error)
	FindByID(ctx context.Context, id uint) (dao.Popup, error)
	FindAll(ctx context.Context) ([]dao.Popup, error)
	Update(ctx context.Context, popup dao.Popup) (dao.Popup, error)
	InsertProduct(ctx context.Context, product dao.Product) (dao.Product, error)
	FindProductByID(ctx context.Context, id uint) (dao.Product, error)
	FindProductsByPopupID(ctx context.Context, popupID uint) ([]dao.Product, error)
	UpdateProduct(ctx context.Context, product dao.Product) (dao.Product, error)
	InsertCoupon(ctx context.Context, coupon dao.Coupon) (dao.Coupon, error)
	FindCouponByCode(ctx context.Context, popupID uint, code string) (dao.Coupon, error)
	FindCouponsByPopupID(ctx context.Context, popupID uint) ([]dao.Coupon, error)
}

type PopupRepository struct {
	dao PopupDAO
}

func NewPopupRepository(dao PopupDAO) *PopupRepository {
	return &PopupRepository{
		dao: dao,
	}
}

func (r *PopupRepository) Create(ctx context.Context, popup domain.Popup) (domain.Popup, error) {
	created, err := r.dao.Insert(ctx, r.popupDomainToDao(popup))
	if err != nil {
		return domain.Popup{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.popupDaoToDomain(created), nil
}

func (r *PopupRepository) GetByID(ctx context.Context, id uint) (domain.Popup, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Popup{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.popupDaoToDomain(found), nil
}

func (r *PopupRepository) GetAll(ctx context.Context) ([]domain.Popup, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	popups := make([]domain.Popup, len(found))
	for i, p := range found {
		popups[i] = r.popupDaoToDomain(p)
	}

	return popups, nil
}

func (r *PopupRepository) Update(ctx context.Context, popup domain.Popup) (domain.Popup, error) {
	updated, err := r.dao.Update(ctx, r.popupDomainToDao(popup))
	if err != nil {
		return domain.Popup{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.popupDaoToDomain(updated), nil
}

func (r *PopupRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.dao.InsertProduct(ctx, r.productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.InsertProduct -> %w", err)
	}

	return r.productDaoToDomain(created), nil
}

func (r *PopupRepository) GetProductByID(ctx context.Context, id uint) (domain.Product, error) {
	found, err := r.dao.FindProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindProductByID -> %w", err)
	}

	return r.productDaoToDomain(found), nil
}

func (r *PopupRepository) GetProductsByPopupID(ctx context.Context, popupID uint) ([]domain.Product, error) {
	found, err := r.dao.FindProductsByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindProductsByPopupID -> %w", err)
	}

	products := make([]domain.Product, len(found))
	for i, p := range found {
		products[i] = r.productDaoToDomain(p)
	}

	return products, nil
}

func (r *PopupRepository) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := r.dao.UpdateProduct(ctx, r.productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.UpdateProduct -> %w", err)
	}

	return r.productDaoToDomain(updated), nil
}

func (r *PopupRepository) CreateCoupon(ctx context.Context, coupon domain.Coupon) (domain.Coupon, error) {
	created, err := r.dao.InsertCoupon(ctx, r.couponDomainToDao(coupon))
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("r.dao.InsertCoupon -> %w", err)
	}

	return r.couponDaoToDomain(created), nil
}

func (r *PopupRepository) GetCouponByCode(ctx context.Context, popupID uint, code string) (domain.Coupon, error) {
	found, err := r.dao.FindCouponByCode(ctx, popupID, code)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("r.dao.FindCouponByCode -> %w", err)
	}

	return r.couponDaoToDomain(found), nil
}

func (r *PopupRepository) GetCouponsByPopupID(ctx context.Context, popupID uint) ([]domain.Coupon, error) {
	found, err := r.dao.FindCouponsByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCouponsByPopupID -> %w", err)
	}

	coupons := make([]domain.Coupon, len(found))
	for i, c := range found {
		coupons[i] = r.couponDaoToDomain(c)
	}

	return coupons, nil
}

func (r *PopupRepository) popupDomainToDao(p domain.Popup) dao.Popup {
	return dao.Popup{
		ID:                   p.ID,
		Name:                 p.Name,
		Location:             p.Location,
		Description:          p.Description,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		GroupDiscountPercent: p.GroupDiscountPercent,
		IsActive:             p.Active,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func (r *PopupRepository) popupDaoToDomain(p dao.Popup) domain.Popup {
	products := make([]domain.Product, len(p.Products))
	for i, prod := range p.Products {
		products[i] = r.productDaoToDomain(prod)
	}

	return domain.Popup{
		ID:                   p.ID,
		Name:                 p.Name,
		Location:             p.Location,
		Description:          p.Description,
		StartDate:            p.StartDate,
		EndDate:              p.EndDate,
		GroupDiscountPercent: p.GroupDiscountPercent,
		Active:               p.IsActive,
		Products:             products,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func (r *PopupRepository) productDomainToDao(p domain.Product) dao.Product {
	return dao.Product{
		ID:               p.ID,
		PopupID:          p.PopupID,
		Name:             p.Name,
		Category:         string(p.Category),
		Price:            p.Price,
		CompareAtPrice:   p.CompareAtPrice,
		AttendeeCategory: string(p.AttendeeCategory),
		IsActive:         p.Active,
		Exclusive:        p.Exclusive,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
	}
}

func (r *PopupRepository) productDaoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:               p.ID,
		PopupID:          p.PopupID,
		Name:             p.Name,
		Category:         domain.ProductCategory(p.Category),
		Price:            p.Price,
		CompareAtPrice:   p.CompareAtPrice,
		AttendeeCategory: domain.AttendeeCategory(p.AttendeeCategory),
		Active:           p.IsActive,
		Exclusive:        p.Exclusive,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
	}
}

func (r *PopupRepository) couponDomainToDao(c domain.Coupon) dao.Coupon {
	return dao.Coupon{
		ID:        c.ID,
		PopupID:   c.PopupID,
		Code:      c.Code,
		Type:      string(c.Type),
		Value:     c.Value,
		IsActive:  c.Active,
		ValidFrom: c.ValidFrom,
		ValidTo:   c.ValidTo,
	}
}

func (r *PopupRepository) couponDaoToDomain(c dao.Coupon) domain.Coupon {
	return domain.Coupon{
		ID:        c.ID,
		PopupID:   c.PopupID,
		Code:      c.Code,
		Type:      domain.DiscountType(c.Type),
		Value:     c.Value,
		Active:    c.IsActive,
		ValidFrom: c.ValidFrom,
		ValidTo:   c.ValidTo,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
