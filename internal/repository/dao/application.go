package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAttendeeNotFound    = errors.New("attendee not found")
)

type Application struct {
	ID        uint   `gorm:"primaryKey"`
	PopupID   uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Status    string `gorm:"not null;default:draft"`
	IsGroup   bool   `gorm:"default:false"`
	Attendees []Attendee `gorm:"foreignKey:ApplicationID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Attendee struct {
	ID            uint   `gorm:"primaryKey"`
	ApplicationID uint   `gorm:"not null;index"`
	Name          string `gorm:"not null"`
	Category      string `gorm:"not null"` // "main", "spouse", "kid", "baby", "teen"
	Purchases     []Purchase `gorm:"foreignKey:AttendeeID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Purchase is one owned product, materialized when a payment is approved.
type Purchase struct {
	ID         uint `gorm:"primaryKey"`
	AttendeeID uint `gorm:"not null;index"`
	ProductID  uint `gorm:"not null"`
	PaymentID  uint `gorm:"not null;index"`
	Quantity   int  `gorm:"not null;default:1"`
	CreatedAt  time.Time
}

type ApplicationDAO struct {
	db *gorm.DB
}

func NewApplicationDAO(db *gorm.DB) *ApplicationDAO {
	return &ApplicationDAO{
		db: db,
	}
}

func (d *ApplicationDAO) Insert(ctx context.Context, application Application) (Application, error) {
	result := d.db.WithContext(ctx).Create(&application)
	if result.Error != nil {
		return Application{}, result.Error
	}

	return application, nil
}

func (d *ApplicationDAO) FindByID(ctx context.Context, id uint) (Application, error) {
	var application Application
	result := d.db.WithContext(ctx).
		Preload("Attendees.Purchases").
		Preload("Attendees").
		First(&application, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Application{}, ErrApplicationNotFound
		}

		return Application{}, result.Error
	}

	return application, nil
}

func (d *ApplicationDAO) FindByUserID(ctx context.Context, userID uint) ([]Application, error) {
	var applications []Application
	result := d.db.WithContext(ctx).
		Preload("Attendees.Purchases").
		Preload("Attendees").
		Where("user_id = ?", userID).
		Find(&applications)
	if result.Error != nil {
		return nil, result.Error
	}

	return applications, nil
}

func (d *ApplicationDAO) FindByPopupID(ctx context.Context, popupID uint) ([]Application, error) {
	var applications []Application
	result := d.db.WithContext(ctx).
		Preload("Attendees").
		Where("popup_id = ?", popupID).
		Find(&applications)
	if result.Error != nil {
		return nil, result.Error
	}

	return applications, nil
}

func (d *ApplicationDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}

	return nil
}

func (d *ApplicationDAO) InsertAttendee(ctx context.Context, attendee Attendee) (Attendee, error) {
	result := d.db.WithContext(ctx).Create(&attendee)
	if result.Error != nil {
		return Attendee{}, result.Error
	}

	return attendee, nil
}

func (d *ApplicationDAO) DeleteAttendee(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Attendee{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendeeNotFound
	}

	return nil
}

func (d *ApplicationDAO) InsertPurchases(ctx context.Context, purchases []Purchase) error {
	if len(purchases) == 0 {
		return nil
	}

	result := d.db.WithContext(ctx).Create(&purchases)

	return result.Error
}
