package models

import (
	"time"

	"github.com/danhewitt/motorline-backend/pkg/enums"
)

// Classified is the canonical vehicle listing record.
type Classified struct {
	ID             int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	Slug           string                 `gorm:"column:slug;not null;uniqueIndex:classifieds_slug_key"`
	Title          string                 `gorm:"column:title;not null"`
	Description    string                 `gorm:"column:description;not null;default:''"`
	Year           int                    `gorm:"column:year;not null"`
	PriceMinor     int64                  `gorm:"column:price_minor;not null"`
	Currency       enums.Currency         `gorm:"column:currency;not null;default:'GBP'"`
	Odometer       int                    `gorm:"column:odometer;not null;default:0"`
	OdometerUnit   enums.OdometerUnit     `gorm:"column:odometer_unit;not null;default:'miles'"`
	Colour         string                 `gorm:"column:colour;not null;default:''"`
	Transmission   enums.Transmission     `gorm:"column:transmission;not null"`
	FuelType       enums.FuelType         `gorm:"column:fuel_type;not null"`
	BodyType       enums.BodyType         `gorm:"column:body_type;not null"`
	ULEZ           enums.ULEZCompliance   `gorm:"column:ulez;not null;default:'non_compliant'"`
	Doors          int                    `gorm:"column:doors;not null;default:0"`
	Seats          int                    `gorm:"column:seats;not null;default:0"`
	Status         enums.ClassifiedStatus `gorm:"column:status;not null;default:'draft';index:classifieds_status_idx"`
	MakeID         int64                  `gorm:"column:make_id;not null;index:classifieds_make_id_idx"`
	ModelID        int64                  `gorm:"column:model_id;not null;index:classifieds_model_id_idx"`
	ModelVariantID *int64                 `gorm:"column:model_variant_id"`
	Views          int64                  `gorm:"column:views;not null;default:0"`
	Make           *Make                  `gorm:"foreignKey:MakeID"`
	Model          *Model                 `gorm:"foreignKey:ModelID"`
	ModelVariant   *ModelVariant          `gorm:"foreignKey:ModelVariantID"`
	Images         []ClassifiedImage      `gorm:"foreignKey:ClassifiedID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// ClassifiedImage is an ordered gallery entry for a classified.
type ClassifiedImage struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ClassifiedID int64     `gorm:"column:classified_id;not null;index:classified_images_classified_id_idx"`
	URL          string    `gorm:"column:url;not null"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
