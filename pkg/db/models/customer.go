package models

import (
	"time"

	"github.com/danhewitt/motorline-backend/pkg/enums"
)

// Customer is a lead captured from the public site: a reservation request,
// a trade-in enquiry, or a newsletter signup. SourceID links the record to
// the visitor cookie so favourites can be mirrored onto it.
type Customer struct {
	ID           int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Kind         enums.CustomerKind `gorm:"column:kind;not null"`
	FirstName    string             `gorm:"column:first_name;not null;default:''"`
	LastName     string             `gorm:"column:last_name;not null;default:''"`
	Email        string             `gorm:"column:email;not null;index:customers_email_idx"`
	Phone        string             `gorm:"column:phone;not null;default:''"`
	Message      string             `gorm:"column:message;not null;default:''"`
	SourceID     *string            `gorm:"column:source_id;index:customers_source_id_idx"`
	ClassifiedID *int64             `gorm:"column:classified_id"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}

// CustomerFavourite mirrors a visitor's favourites set onto a customer record
// so the admin view can show a lead's saved cars.
type CustomerFavourite struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID   int64     `gorm:"column:customer_id;not null;index:customer_favourites_customer_id_idx;uniqueIndex:customer_favourites_customer_classified_key"`
	ClassifiedID int64     `gorm:"column:classified_id;not null;uniqueIndex:customer_favourites_customer_classified_key"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
