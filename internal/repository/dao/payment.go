package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type Payment struct {
	ID            uint    `gorm:"primaryKey"`
	ApplicationID uint    `gorm:"not null;index"`
	PopupID       uint    `gorm:"not null;index"`
	Amount        float64 `gorm:"not null"`
	Currency      string  `gorm:"not null"`
	DiscountCode  string
	StripeID      string
	Status        string        `gorm:"not null;default:Pending"`
	Items         []PaymentItem `gorm:"foreignKey:PaymentID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PaymentItem struct {
	ID         uint `gorm:"primaryKey"`
	PaymentID  uint `gorm:"not null;index"`
	ProductID  uint `gorm:"not null"`
	AttendeeID uint `gorm:"not null"`
	Quantity   int  `gorm:"not null;default:1"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment
	result := d.db.WithContext(ctx).Preload("Items").First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByApplicationID(ctx context.Context, applicationID uint) ([]Payment, error) {
	var payments []Payment
	result := d.db.WithContext(ctx).
		Preload("Items").
		Where("application_id = ?", applicationID).
		Order("id").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

func (d *PaymentDAO) FindByPopupID(ctx context.Context, popupID uint) ([]Payment, error) {
	var payments []Payment
	result := d.db.WithContext(ctx).
		Preload("Items").
		Where("popup_id = ?", popupID).
		Order("id").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

func (d *PaymentDAO) Update(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Save(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return payment, nil
}
