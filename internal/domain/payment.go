package domain

import "time"

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentApproved PaymentStatus = "Approved"
	PaymentRejected PaymentStatus = "Rejected"
)

// Payment is one checkout submission for an application. Approval is a
// backoffice action; only then do the items become owned purchases.
type Payment struct {
	ID            uint           `json:"id"`
	ApplicationID uint           `json:"application_id"`
	PopupID       uint           `json:"popup_id"`
	Amount        float64        `json:"amount"`
	Currency      string         `json:"currency"`
	DiscountCode  string         `json:"discount_code,omitempty"`
	StripeID      string         `json:"stripe_id,omitempty"`
	Status        PaymentStatus  `json:"status"`
	Items         []PurchaseItem `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (p *Payment) Approve() {
	if p.Status == PaymentPending {
		p.Status = PaymentApproved
	}
}

func (p *Payment) Reject() {
	if p.Status == PaymentPending {
		p.Status = PaymentRejected
	}
}

func (p *Payment) IsValid() bool {
	if p.ApplicationID == 0 {
		return false
	}
	if len(p.Items) == 0 {
		return false
	}
	for _, item := range p.Items {
		if item.Quantity <= 0 {
			return false
		}
	}
	return true
}
