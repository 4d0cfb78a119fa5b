package classifieds

import (
	"fmt"
	"testing"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func mustCreateTaxonomy(t *testing.T, tx *gorm.DB, makeName, modelName string) (*models.Make, *models.Model) {
	t.Helper()

	mk := &models.Make{Name: makeName}
	if err := tx.Where("name = ?", makeName).FirstOrCreate(mk).Error; err != nil {
		t.Fatalf("create make: %v", err)
	}
	md := &models.Model{MakeID: mk.ID, Name: modelName}
	if err := tx.Where("make_id = ? AND name = ?", mk.ID, modelName).FirstOrCreate(md).Error; err != nil {
		t.Fatalf("create model: %v", err)
	}
	return mk, md
}

func mustCreateVariant(t *testing.T, tx *gorm.DB, modelID int64, name string) *models.ModelVariant {
	t.Helper()

	variant := &models.ModelVariant{ModelID: modelID, Name: name}
	if err := tx.Create(variant).Error; err != nil {
		t.Fatalf("create variant: %v", err)
	}
	return variant
}

func mustCreateClassified(t *testing.T, tx *gorm.DB, makeID, modelID int64, mutate func(*models.Classified)) *models.Classified {
	t.Helper()

	classified := &models.Classified{
		Slug:         fmt.Sprintf("test-%s", uuid.NewString()),
		Title:        "Test Vehicle",
		Year:         2019,
		PriceMinor:   1500000,
		Currency:     enums.CurrencyGBP,
		Odometer:     32000,
		OdometerUnit: enums.OdometerUnitMiles,
		Colour:       "black",
		Transmission: enums.TransmissionManual,
		FuelType:     enums.FuelTypePetrol,
		BodyType:     enums.BodyTypeHatchback,
		ULEZ:         enums.ULEZCompliant,
		Doors:        5,
		Seats:        5,
		Status:       enums.ClassifiedStatusLive,
		MakeID:       makeID,
		ModelID:      modelID,
	}
	if mutate != nil {
		mutate(classified)
	}
	if err := tx.Create(classified).Error; err != nil {
		t.Fatalf("create classified: %v", err)
	}
	return classified
}
