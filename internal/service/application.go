package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/repository"
)

var (
	ErrAttendeeNotFound         = repository.ErrAttendeeNotFound
	ErrRosterNeedsMain          = errors.New("roster needs exactly one main attendee")
	ErrApplicationNotEditable   = errors.New("application roster is no longer editable")
	ErrInvalidApplicationStatus = errors.New("invalid application status transition")
)

type ApplicationRepository interface {
	Create(ctx context.Context, application domain.Application) (domain.Application, error)
	GetByID(ctx context.Context, id uint) (domain.Application, error)
	GetByUserID(ctx context.Context, userID uint) ([]domain.Application, error)
	GetByPopupID(ctx context.Context, popupID uint) ([]domain.Application, error)
	UpdateStatus(ctx context.Context, id uint, status domain.ApplicationStatus) error
	AddAttendee(ctx context.Context, applicationID uint, attendee domain.Attendee) (domain.Attendee, error)
	RemoveAttendee(ctx context.Context, attendeeID uint) error
}

// ApplicationService manages the registration lifecycle: draft, submit,
// review, and the attendee roster while the application is still a draft.
type ApplicationService struct {
	repo ApplicationRepository
}

func NewApplicationService(repo ApplicationRepository) *ApplicationService {
	return &ApplicationService{
		repo: repo,
	}
}

func (s *ApplicationService) Create(ctx context.Context, application domain.Application) (domain.Application, error) {
	if err := validateRoster(application.Attendees); err != nil {
		return domain.Application{}, err
	}
	application.Status = domain.ApplicationDraft

	created, err := s.repo.Create(ctx, application)
	if err != nil {
		return domain.Application{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ApplicationService) Get(ctx context.Context, userID, applicationID uint) (domain.Application, error) {
	application, err := s.getOwned(ctx, userID, applicationID)
	if err != nil {
		return domain.Application{}, err
	}

	return application, nil
}

func (s *ApplicationService) ListByUser(ctx context.Context, userID uint) ([]domain.Application, error) {
	applications, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByUserID -> %w", err)
	}

	return applications, nil
}

func (s *ApplicationService) ListByPopup(ctx context.Context, popupID uint) ([]domain.Application, error) {
	applications, err := s.repo.GetByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByPopupID -> %w", err)
	}

	return applications, nil
}

// Submit moves a draft to pending review.
func (s *ApplicationService) Submit(ctx context.Context, userID, applicationID uint) (domain.Application, error) {
	application, err := s.getOwned(ctx, userID, applicationID)
	if err != nil {
		return domain.Application{}, err
	}
	if application.Status != domain.ApplicationDraft {
		return domain.Application{}, ErrInvalidApplicationStatus
	}
	if err = validateRoster(application.Attendees); err != nil {
		return domain.Application{}, err
	}

	if err = s.repo.UpdateStatus(ctx, applicationID, domain.ApplicationPending); err != nil {
		return domain.Application{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}
	application.Status = domain.ApplicationPending

	return application, nil
}

// Review accepts or rejects a pending application. Backoffice only.
func (s *ApplicationService) Review(ctx context.Context, applicationID uint, accept bool) (domain.Application, error) {
	application, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.Application{}, ErrApplicationNotFound
		}

		return domain.Application{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	if application.Status != domain.ApplicationPending {
		return domain.Application{}, ErrInvalidApplicationStatus
	}
	application.Review(accept)

	if err = s.repo.UpdateStatus(ctx, applicationID, application.Status); err != nil {
		return domain.Application{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return application, nil
}

func (s *ApplicationService) AddAttendee(ctx context.Context, userID, applicationID uint, attendee domain.Attendee) (domain.Attendee, error) {
	application, err := s.getOwned(ctx, userID, applicationID)
	if err != nil {
		return domain.Attendee{}, err
	}
	if application.Status != domain.ApplicationDraft {
		return domain.Attendee{}, ErrApplicationNotEditable
	}
	if attendee.Category == domain.AttendeeMain && hasMain(application.Attendees) {
		return domain.Attendee{}, ErrRosterNeedsMain
	}

	created, err := s.repo.AddAttendee(ctx, applicationID, attendee)
	if err != nil {
		return domain.Attendee{}, fmt.Errorf("s.repo.AddAttendee -> %w", err)
	}

	return created, nil
}

func (s *ApplicationService) RemoveAttendee(ctx context.Context, userID, applicationID, attendeeID uint) error {
	application, err := s.getOwned(ctx, userID, applicationID)
	if err != nil {
		return err
	}
	if application.Status != domain.ApplicationDraft {
		return ErrApplicationNotEditable
	}

	for _, a := range application.Attendees {
		if a.ID == attendeeID && a.Category == domain.AttendeeMain {
			return ErrRosterNeedsMain
		}
	}

	if err = s.repo.RemoveAttendee(ctx, attendeeID); err != nil {
		return fmt.Errorf("s.repo.RemoveAttendee -> %w", err)
	}

	return nil
}

func (s *ApplicationService) getOwned(ctx context.Context, userID, applicationID uint) (domain.Application, error) {
	application, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.Application{}, ErrApplicationNotFound
		}

		return domain.Application{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}
	if application.UserID != userID {
		return domain.Application{}, ErrNotApplicationOwner
	}

	return application, nil
}

func validateRoster(attendees []domain.Attendee) error {
	mains := 0
	for _, a := range attendees {
		if a.Category == domain.AttendeeMain {
			mains++
		}
	}
	if mains != 1 {
		return ErrRosterNeedsMain
	}

	return nil
}

func hasMain(attendees []domain.Attendee) bool {
	for _, a := range attendees {
		if a.Category == domain.AttendeeMain {
			return true
		}
	}

	return false
}
