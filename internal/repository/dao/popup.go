package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPopupNotFound    = errors.New("popup not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCouponNotFound   = errors.New("coupon not found")
	ErrCouponCodeExists = errors.New("coupon code already exists")
)

type Popup struct {
	ID                   uint      `gorm:"primaryKey"`
	Name                 string    `gorm:"not null"`
	Location             string    `gorm:"not null"`
	Description          string
	StartDate            time.Time `gorm:"not null"`
	EndDate              time.Time `gorm:"not null"`
	GroupDiscountPercent float64   `gorm:"default:0"`
	IsActive             bool      `gorm:"default:true"`
	Products             []Product `gorm:"foreignKey:PopupID"`
	Coupons              []Coupon  `gorm:"foreignKey:PopupID"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type Product struct {
	ID               uint    `gorm:"primaryKey"`
	PopupID          uint    `gorm:"not null;index"`
	Name             string  `gorm:"not null"`
	Category         string  `gorm:"not null"` // "month", "week", "day", local variants, "patreon", "supporter"
	Price            float64 `gorm:"not null"`
	CompareAtPrice   float64
	AttendeeCategory string // empty means any attendee
	IsActive         bool   `gorm:"default:true"`
	Exclusive        bool   `gorm:"default:false"`
	StartDate        time.Time
	EndDate          time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Coupon struct {
	ID        uint    `gorm:"primaryKey"`
	PopupID   uint    `gorm:"not null;index;uniqueIndex:idx_coupons_popup_code"`
	Code      string  `gorm:"not null;uniqueIndex:idx_coupons_popup_code"`
	Type      string  `gorm:"not null"` // only "percentage" is supported
	Value     float64 `gorm:"not null"`
	IsActive  bool    `gorm:"default:true"`
	ValidFrom time.Time
	ValidTo   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PopupDAO struct {
	db *gorm.DB
}

func NewPopupDAO(db *gorm.DB) *PopupDAO {
	return &PopupDAO{
		db: db,
	}
}

func (d *PopupDAO) Insert(ctx context.Context, popup Popup) (Popup, error) {
	result := d.db.WithContext(ctx).Create(&popup)
	if result.Error != nil {
		return Popup{}, result.Error
	}

	return popup, nil
}

func (d *PopupDAO) FindByID(ctx context.Context, id uint) (Popup, error) {
	var popup Popup
	result := d.db.WithContext(ctx).Preload("Products").First(&popup, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Popup{}, ErrPopupNotFound
		}

		return Popup{}, result.Error
	}

	return popup, nil
}

func (d *PopupDAO) FindAll(ctx context.Context) ([]Popup, error) {
	var popups []Popup
	result := d.db.WithContext(ctx).Find(&popups)
	if result.Error != nil {
		return nil, result.Error
	}

	return popups, nil
}

func (d *PopupDAO) Update(ctx context.Context, popup Popup) (Popup, error) {
	result := d.db.WithContext(ctx).Save(&popup)
	if result.Error != nil {
		return Popup{}, result.Error
	}

	return popup, nil
}

func (d *PopupDAO) InsertProduct(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *PopupDAO) FindProductByID(ctx context.Context, id uint) (Product, error) {
	var product Product
	result := d.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *PopupDAO) FindProductsByPopupID(ctx context.Context, popupID uint) ([]Product, error) {
	var products []Product
	result := d.db.WithContext(ctx).Where("popup_id = ?", popupID).Order("id").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *PopupDAO) UpdateProduct(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Save(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *PopupDAO) InsertCoupon(ctx context.Context, coupon Coupon) (Coupon, error) {
	result := d.db.WithContext(ctx).Create(&coupon)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "idx_coupons_popup_code") {
			return Coupon{}, ErrCouponCodeExists
		}

		return Coupon{}, result.Error
	}

	return coupon, nil
}

func (d *PopupDAO) FindCouponByCode(ctx context.Context, popupID uint, code string) (Coupon, error) {
	var coupon Coupon
	result := d.db.WithContext(ctx).Where("popup_id = ? AND code = ?", popupID, code).First(&coupon)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Coupon{}, ErrCouponNotFound
		}

		return Coupon{}, result.Error
	}

	return coupon, nil
}

func (d *PopupDAO) FindCouponsByPopupID(ctx context.Context, popupID uint) ([]Coupon, error) {
	var coupons []Coupon
	result := d.db.WithContext(ctx).Where("popup_id = ?", popupID).Find(&coupons)
	if result.Error != nil {
		return nil, result.Error
	}

	return coupons, nil
}
