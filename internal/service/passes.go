package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/passes"
	"github.com/popuphq/passes-api/internal/repository"
)

var (
	ErrApplicationNotFound = repository.ErrApplicationNotFound
	ErrProductNotFound     = repository.ErrProductNotFound
	ErrCouponNotFound      = repository.ErrCouponNotFound
	ErrNotApplicationOwner = errors.New("application belongs to another user")
	ErrCouponNotRedeemable = errors.New("coupon is not redeemable")
	ErrInvalidDayQuantity  = errors.New("day pass quantity out of range")
	ErrNothingToPurchase   = errors.New("nothing selected to purchase")
)

type PassesApplicationRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Application, error)
}

type PassesPopupRepository interface {
	GetByID(ctx context.Context, id uint) (domain.Popup, error)
	GetProductsByPopupID(ctx context.Context, popupID uint) ([]domain.Product, error)
	GetCouponByCode(ctx context.Context, popupID uint, code string) (domain.Coupon, error)
}

// session is the live pass state for one application. Orchestrators are not
// safe for concurrent use, so the service mutex serializes every session the
// way a UI event loop serializes dispatches.
type session struct {
	orch                 *passes.Orchestrator
	application          domain.Application
	groupDiscountPercent float64
}

// PassesService exposes the pass selection flow: derived state, toggles,
// coupon application and the checkout plan handed to payment submission.
type PassesService struct {
	appRepo   PassesApplicationRepository
	popupRepo PassesPopupRepository

	mu       sync.Mutex
	sessions map[uint]*session
}

func NewPassesService(appRepo PassesApplicationRepository, popupRepo PassesPopupRepository) *PassesService {
	return &PassesService{
		appRepo:   appRepo,
		popupRepo: popupRepo,
		sessions:  make(map[uint]*session),
	}
}

// PassState is the full selection view returned to the portal after every
// mutation: the per-attendee product grids plus the running totals.
type PassState struct {
	Attendees []domain.AttendeePassState `json:"attendees"`
	Totals    domain.Totals              `json:"totals"`
	Discount  domain.DiscountApplied     `json:"discount"`
}

// CheckoutPlan is the flattened purchase list priced for payment submission.
type CheckoutPlan struct {
	ApplicationID uint                  `json:"application_id"`
	PopupID       uint                  `json:"popup_id"`
	Items         []domain.PurchaseItem `json:"items"`
	Totals        domain.Totals         `json:"totals"`
	DiscountCode  string                `json:"discount_code,omitempty"`
}

func (s *PassesService) GetPassState(ctx context.Context, userID, applicationID uint) (PassState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadSession(ctx, userID, applicationID)
	if err != nil {
		return PassState{}, err
	}

	return s.snapshot(sess), nil
}

// ToggleProduct dispatches one product toggle for an attendee. For day passes
// quantity is the total units wanted; for everything else it is ignored.
func (s *PassesService) ToggleProduct(ctx context.Context, userID, applicationID, attendeeID, productID uint, quantity int) (PassState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadSession(ctx, userID, applicationID)
	if err != nil {
		return PassState{}, err
	}

	toggled, err := findProduct(sess.orch.State(), attendeeID, productID)
	if err != nil {
		return PassState{}, err
	}

	if toggled.Category.IsDaily() {
		if quantity < 0 || quantity < toggled.OriginalQuantity {
			return PassState{}, ErrInvalidDayQuantity
		}
		if max := toggled.MaxDayQuantity(); max > 0 && quantity > max {
			return PassState{}, ErrInvalidDayQuantity
		}
		toggled.Quantity = quantity
	}

	sess.orch.Toggle(attendeeID, toggled)

	return s.snapshot(sess), nil
}

// ApplyCoupon resolves a code against the popup and hands it to the session.
// A weaker coupon than the one already applied is accepted silently and
// changes nothing.
func (s *PassesService) ApplyCoupon(ctx context.Context, userID, applicationID uint, code string) (PassState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadSession(ctx, userID, applicationID)
	if err != nil {
		return PassState{}, err
	}

	coupon, err := s.popupRepo.GetCouponByCode(ctx, sess.application.PopupID, code)
	if err != nil {
		if errors.Is(err, repository.ErrCouponNotFound) {
			return PassState{}, ErrCouponNotFound
		}

		return PassState{}, fmt.Errorf("s.popupRepo.GetCouponByCode -> %w", err)
	}

	if !coupon.IsRedeemable(time.Now()) || coupon.Type != domain.DiscountPercentage {
		return PassState{}, ErrCouponNotRedeemable
	}

	sess.orch.SetDiscount(domain.DiscountApplied{
		Value:   coupon.Value,
		Type:    coupon.Type,
		Code:    coupon.Code,
		PopupID: coupon.PopupID,
	})

	return s.snapshot(sess), nil
}

// Refresh reloads the roster and catalog from storage, keeping the selections
// made so far. Called after roster edits or an approved payment.
func (s *PassesService) Refresh(ctx context.Context, userID, applicationID uint) (PassState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadSession(ctx, userID, applicationID)
	if err != nil {
		return PassState{}, err
	}

	application, catalog, popup, err := s.fetchInputs(ctx, applicationID)
	if err != nil {
		return PassState{}, err
	}

	sess.application = application
	sess.groupDiscountPercent = groupPercent(application, popup)
	sess.orch.SetCatalog(catalog)
	sess.orch.SetAttendees(application.Attendees)

	return s.snapshot(sess), nil
}

// BuildCheckout flattens the current selections into a priced plan.
func (s *PassesService) BuildCheckout(ctx context.Context, userID, applicationID uint) (CheckoutPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.loadSession(ctx, userID, applicationID)
	if err != nil {
		return CheckoutPlan{}, err
	}

	items := sess.orch.ProductsToPurchase()
	if len(items) == 0 {
		return CheckoutPlan{}, ErrNothingToPurchase
	}

	return CheckoutPlan{
		ApplicationID: sess.application.ID,
		PopupID:       sess.application.PopupID,
		Items:         items,
		Totals:        sess.orch.Totals(sess.groupDiscountPercent),
		DiscountCode:  sess.orch.Discount().Code,
	}, nil
}

// DropSession discards the live state for an application, forcing the next
// call to rebuild from storage.
func (s *PassesService) DropSession(applicationID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, applicationID)
}

func (s *PassesService) loadSession(ctx context.Context, userID, applicationID uint) (*session, error) {
	if sess, ok := s.sessions[applicationID]; ok {
		if sess.application.UserID != userID {
			return nil, ErrNotApplicationOwner
		}

		return sess, nil
	}

	application, catalog, popup, err := s.fetchInputs(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if application.UserID != userID {
		return nil, ErrNotApplicationOwner
	}

	sess := &session{
		orch:                 passes.NewOrchestrator(application.Attendees, catalog, domain.DiscountApplied{PopupID: application.PopupID}),
		application:          application,
		groupDiscountPercent: groupPercent(application, popup),
	}
	s.sessions[applicationID] = sess

	return sess, nil
}

func (s *PassesService) fetchInputs(ctx context.Context, applicationID uint) (domain.Application, []domain.Product, domain.Popup, error) {
	application, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return domain.Application{}, nil, domain.Popup{}, ErrApplicationNotFound
		}

		return domain.Application{}, nil, domain.Popup{}, fmt.Errorf("s.appRepo.GetByID -> %w", err)
	}

	popup, err := s.popupRepo.GetByID(ctx, application.PopupID)
	if err != nil {
		return domain.Application{}, nil, domain.Popup{}, fmt.Errorf("s.popupRepo.GetByID -> %w", err)
	}

	catalog, err := s.popupRepo.GetProductsByPopupID(ctx, application.PopupID)
	if err != nil {
		return domain.Application{}, nil, domain.Popup{}, fmt.Errorf("s.popupRepo.GetProductsByPopupID -> %w", err)
	}

	return application, catalog, popup, nil
}

func (s *PassesService) snapshot(sess *session) PassState {
	return PassState{
		Attendees: sess.orch.State(),
		Totals:    sess.orch.Totals(sess.groupDiscountPercent),
		Discount:  sess.orch.Discount(),
	}
}

func groupPercent(application domain.Application, popup domain.Popup) float64 {
	if !application.Group {
		return 0
	}

	return popup.GroupDiscountPercent
}

func findProduct(states []domain.AttendeePassState, attendeeID, productID uint) (domain.AttendeeProduct, error) {
	for _, st := range states {
		if st.AttendeeID != attendeeID {
			continue
		}
		for _, p := range st.Products {
			if p.ID == productID {
				return p, nil
			}
		}
	}

	return domain.AttendeeProduct{}, ErrProductNotFound
}
