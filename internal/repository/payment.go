package repository

import (
	"context"
	"fmt"

	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/repository/dao"
)

var ErrPaymentNotFound = dao.ErrPaymentNotFound

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	FindByApplicationID(ctx context.Context, applicationID uint) ([]dao.Payment, error)
	FindByPopupID(ctx context.Context, popupID uint) ([]dao.Payment, error)
	Update(ctx context.Context, payment dao.Payment) (dao.Payment, error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(payment))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (domain.Payment, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) GetByApplicationID(ctx context.Context, applicationID uint) ([]domain.Payment, error) {
	found, err := r.dao.FindByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByApplicationID -> %w", err)
	}

	payments := make([]domain.Payment, len(found))
	for i, p := range found {
		payments[i] = r.daoToDomain(p)
	}

	return payments, nil
}

func (r *PaymentRepository) GetByPopupID(ctx context.Context, popupID uint) ([]domain.Payment, error) {
	found, err := r.dao.FindByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByPopupID -> %w", err)
	}

	payments := make([]domain.Payment, len(found))
	for i, p := range found {
		payments[i] = r.daoToDomain(p)
	}

	return payments, nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(payment))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PaymentRepository) domainToDao(p domain.Payment) dao.Payment {
	items := make([]dao.PaymentItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = dao.PaymentItem{
			PaymentID:  p.ID,
			ProductID:  item.ProductID,
			AttendeeID: item.AttendeeID,
			Quantity:   item.Quantity,
		}
	}

	return dao.Payment{
		ID:            p.ID,
		ApplicationID: p.ApplicationID,
		PopupID:       p.PopupID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		DiscountCode:  p.DiscountCode,
		StripeID:      p.StripeID,
		Status:        string(p.Status),
		Items:         items,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	items := make([]domain.PurchaseItem, len(p.Items))
	for i, item := range p.Items {
		items[i] = domain.PurchaseItem{
			ProductID:  item.ProductID,
			AttendeeID: item.AttendeeID,
			Quantity:   item.Quantity,
		}
	}

	return domain.Payment{
		ID:            p.ID,
		ApplicationID: p.ApplicationID,
		PopupID:       p.PopupID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		DiscountCode:  p.DiscountCode,
		StripeID:      p.StripeID,
		Status:        domain.PaymentStatus(p.Status),
		Items:         items,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
