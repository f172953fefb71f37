package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"

	"github.com/popuphq/passes-api/internal/config"
	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/repository"
)

var (
	ErrPaymentNotFound      = repository.ErrPaymentNotFound
	ErrInvalidPaymentStatus = errors.New("payment is not pending")
	ErrInvalidPayment       = errors.New("payment has no valid items")
)

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	GetByID(ctx context.Context, id uint) (domain.Payment, error)
	GetByApplicationID(ctx context.Context, applicationID uint) ([]domain.Payment, error)
	GetByPopupID(ctx context.Context, popupID uint) ([]domain.Payment, error)
	Update(ctx context.Context, payment domain.Payment) (domain.Payment, error)
}

type PaymentApplicationRepository interface {
	RecordPurchases(ctx context.Context, paymentID uint, items []domain.PurchaseItem) error
}

// PaymentService records checkout submissions and runs the backoffice
// approval flow. A payment starts pending with a Stripe payment intent; only
// approval turns its items into owned purchases.
type PaymentService struct {
	repo    PaymentRepository
	appRepo PaymentApplicationRepository
	conf    *config.StripeConfig
}

func NewPaymentService(repo PaymentRepository, appRepo PaymentApplicationRepository, conf *config.StripeConfig) *PaymentService {
	if conf != nil {
		stripe.Key = conf.SecretKey
	}

	return &PaymentService{
		repo:    repo,
		appRepo: appRepo,
		conf:    conf,
	}
}

// Submit turns a checkout plan into a pending payment backed by a Stripe
// payment intent. The plan's total is already reconciled, it is charged as is.
func (s *PaymentService) Submit(ctx context.Context, plan CheckoutPlan) (domain.Payment, error) {
	payment := domain.Payment{
		ApplicationID: plan.ApplicationID,
		PopupID:       plan.PopupID,
		Amount:        plan.Totals.Total,
		Currency:      s.currency(),
		DiscountCode:  plan.DiscountCode,
		Status:        domain.PaymentPending,
		Items:         plan.Items,
	}
	if !payment.IsValid() {
		return domain.Payment{}, ErrInvalidPayment
	}

	intent, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(payment.Amount * 100))),
		Currency: stripe.String(payment.Currency),
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("paymentintent.New -> %w", err)
	}
	payment.StripeID = intent.ID

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint) (domain.Payment, error) {
	payment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return domain.Payment{}, ErrPaymentNotFound
		}

		return domain.Payment{}, fmt.Errorf("s.repo.GetByID -> %w", err)
	}

	return payment, nil
}

func (s *PaymentService) ListByApplication(ctx context.Context, applicationID uint) ([]domain.Payment, error) {
	payments, err := s.repo.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByApplicationID -> %w", err)
	}

	return payments, nil
}

func (s *PaymentService) ListByPopup(ctx context.Context, popupID uint) ([]domain.Payment, error) {
	payments, err := s.repo.GetByPopupID(ctx, popupID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetByPopupID -> %w", err)
	}

	return payments, nil
}

// Approve marks a pending payment approved and materializes its items as
// owned purchases on the roster.
func (s *PaymentService) Approve(ctx context.Context, paymentID uint) (domain.Payment, error) {
	payment, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment.Status != domain.PaymentPending {
		return domain.Payment{}, ErrInvalidPaymentStatus
	}
	payment.Approve()

	updated, err := s.repo.Update(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if err = s.appRepo.RecordPurchases(ctx, updated.ID, updated.Items); err != nil {
		return domain.Payment{}, fmt.Errorf("s.appRepo.RecordPurchases -> %w", err)
	}

	return updated, nil
}

func (s *PaymentService) Reject(ctx context.Context, paymentID uint) (domain.Payment, error) {
	payment, err := s.GetPayment(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment.Status != domain.PaymentPending {
		return domain.Payment{}, ErrInvalidPaymentStatus
	}
	payment.Reject()

	updated, err := s.repo.Update(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *PaymentService) currency() string {
	if s.conf != nil && s.conf.Currency != "" {
		return s.conf.Currency
	}

	return "usd"
}
