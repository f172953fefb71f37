package repository

import (
	"context"
	"fmt"

	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/repository/dao"
)

var (
	ErrApplicationNotFound = dao.ErrApplicationNotFound
	ErrAttendeeNotFound    = dao.ErrAttendeeNotFound
)

type ApplicationDAO interface {
	Insert(ctx context.Context, application dao.Application) (dao.Application, error)
	FindByID(ctx context.Context, id uint) (dao.Application, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Application, error)
	FindByPopupID(ctx context.Context, popupID uint) ([]dao.Application, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	InsertAttendee(ctx context.Context, attendee dao.Attendee) (dao.Attendee, error)
	DeleteAttendee(ctx context.Context, id uint) error
	InsertPurchases(ctx context.Context, purchases []dao.Purchase) error
}

type ApplicationRepository struct {
	dao ApplicationDAO
}

func NewApplicationRepository(dao ApplicationDAO) *ApplicationRepository {
	return &ApplicationRepository{
		dao: dao,
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, application domain.Application) (domain.Application, error) {
	daoApp := dao.Application{
		PopupID: application.PopupID,
		UserID:  application.UserID,
		Status:  string(application.Status),
		IsGroup: application.Group,
	}
	for _, a := range application.Attendees {
		daoApp.Attendees = append(daoApp.Attendees, dao.Attendee{
			Name:     a.Name,
			Category: string(a.Category),
		})
	}

	created, err := r.dao.Insert(ctx, daoApp)
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (domain.Application, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Application{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ApplicationRepository) GetByUserID(ctx context.Context, userID uint) ([]domain.Application, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	applications := make([]domain.Application, len(found))
	for i, a := range found {
		applications[i] = r.daoToDomain(a)
	}

	return applications, nil
}

func (r *ApplicationRepository) GetByPopupID(ctx context.Context, popupID uint) ([]domain.Application, error) {
	found, err := r.dao.FindByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByPopupID -> %w", err)
	}

	applications := make([]domain.Application, len(found))
	for i, a := range found {
		applications[i] = r.daoToDomain(a)
	}

	return applications, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *ApplicationRepository) AddAttendee(ctx context.Context, applicationID uint, attendee domain.Attendee) (domain.Attendee, error) {
	created, err := r.dao.InsertAttendee(ctx, dao.Attendee{
		ApplicationID: applicationID,
		Name:          attendee.Name,
		Category:      string(attendee.Category),
	})
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("r.dao.InsertAttendee -> %w", err)
	}

	return r.attendeeDaoToDomain(created), nil
}

func (r *ApplicationRepository) RemoveAttendee(ctx context.Context, attendeeID uint) error {
	if err := r.dao.DeleteAttendee(ctx, attendeeID); err != nil {
		return fmt.Errorf("r.dao.DeleteAttendee -> %w", err)
	}

	return nil
}

// RecordPurchases materializes an approved payment's line items as owned
// purchases on the roster.
func (r *ApplicationRepository) RecordPurchases(ctx context.Context, paymentID uint, items []domain.PurchaseItem) error {
	purchases := make([]dao.Purchase, len(items))
	for i, item := range items {
		purchases[i] = dao.Purchase{
			AttendeeID: item.AttendeeID,
			ProductID:  item.ProductID,
			PaymentID:  paymentID,
			Quantity:   item.Quantity,
		}
	}

	if err := r.dao.InsertPurchases(ctx, purchases); err != nil {
		return fmt.Errorf("r.dao.InsertPurchases -> %w", err)
	}

	return nil
}

func (r *ApplicationRepository) daoToDomain(a dao.Application) domain.Application {
	attendees := make([]domain.Attendee, len(a.Attendees))
	for i, att := range a.Attendees {
		attendees[i] = r.attendeeDaoToDomain(att)
	}

	return domain.Application{
		ID:        a.ID,
		PopupID:   a.PopupID,
		UserID:    a.UserID,
		Status:    domain.ApplicationStatus(a.Status),
		Group:     a.IsGroup,
		Attendees: attendees,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (r *ApplicationRepository) attendeeDaoToDomain(a dao.Attendee) domain.Attendee {
	purchases := make([]domain.Purchase, len(a.Purchases))
	for i, p := range a.Purchases {
		purchases[i] = domain.Purchase{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
		}
	}

	return domain.Attendee{
		ID:        a.ID,
		Name:      a.Name,
		Category:  domain.AttendeeCategory(a.Category),
		Purchases: purchases,
	}
}
