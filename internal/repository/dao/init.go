package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Popup{},
		&Product{},
		&Coupon{},
		&Application{},
		&Attendee{},
		&Purchase{},
		&Payment{},
		&PaymentItem{},
	)
}
