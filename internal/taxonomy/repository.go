package taxonomy

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/danhewitt/motorline-backend/pkg/db/models"
	"github.com/danhewitt/motorline-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository runs the aggregation queries behind a snapshot. The reads are
// sequential and not wrapped in one transaction; the snapshot is a cache,
// not a source of truth, so mid-aggregation writes are tolerated.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountLive returns the number of LIVE classifieds.
func (r *Repository) CountLive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Where("status = ?", enums.ClassifiedStatusLive).
		Count(&count).
		Error
	return count, err
}

type tripleRecord struct {
	MakeID      int64          `gorm:"column:make_id"`
	MakeName    string         `gorm:"column:make_name"`
	ModelID     int64          `gorm:"column:model_id"`
	ModelName   string         `gorm:"column:model_name"`
	VariantID   sql.NullInt64  `gorm:"column:variant_id"`
	VariantName sql.NullString `gorm:"column:variant_name"`
}

// BuildTree folds the distinct (make, model, variant) triples of LIVE
// classifieds into the make→model→variant tree, sorted alphabetically by
// label at every level.
func (r *Repository) BuildTree(ctx context.Context) ([]MakeNode, error) {
	var triples []tripleRecord
	err := r.db.WithContext(ctx).
		Table("classifieds c").
		Distinct().
		Select(strings.Join([]string{
			"c.make_id",
			"mk.name AS make_name",
			"c.model_id",
			"md.name AS model_name",
			"c.model_variant_id AS variant_id",
			"mv.name AS variant_name",
		}, ", ")).
		Joins("JOIN makes mk ON mk.id = c.make_id").
		Joins("JOIN models md ON md.id = c.model_id").
		Joins("LEFT JOIN model_variants mv ON mv.id = c.model_variant_id").
		Where("c.status = ?", enums.ClassifiedStatusLive).
		Scan(&triples).
		Error
	if err != nil {
		return nil, err
	}

	makesByID := map[int64]*MakeNode{}
	modelsByID := map[int64]*ModelNode{}
	variantSeen := map[int64]bool{}

	for _, triple := range triples {
		if _, ok := makesByID[triple.MakeID]; !ok {
			makesByID[triple.MakeID] = &MakeNode{Value: triple.MakeID, Label: triple.MakeName, Models: []ModelNode{}}
		}
		md, ok := modelsByID[triple.ModelID]
		if !ok {
			md = &ModelNode{Value: triple.ModelID, Label: triple.ModelName, Variants: []VariantNode{}}
			modelsByID[triple.ModelID] = md
		}
		if triple.VariantID.Valid && !variantSeen[triple.VariantID.Int64] {
			variantSeen[triple.VariantID.Int64] = true
			md.Variants = append(md.Variants, VariantNode{
				Value: triple.VariantID.Int64,
				Label: triple.VariantName.String,
			})
		}
	}

	// attach models to their makes once, after variant folding
	attached := map[int64]bool{}
	for _, triple := range triples {
		if attached[triple.ModelID] {
			continue
		}
		attached[triple.ModelID] = true
		mk := makesByID[triple.MakeID]
		md := modelsByID[triple.ModelID]
		sort.Slice(md.Variants, func(i, j int) bool {
			return md.Variants[i].Label < md.Variants[j].Label
		})
		mk.Models = append(mk.Models, *md)
	}

	makes := make([]MakeNode, 0, len(makesByID))
	for _, mk := range makesByID {
		sort.Slice(mk.Models, func(i, j int) bool {
			return mk.Models[i].Label < mk.Models[j].Label
		})
		makes = append(makes, *mk)
	}
	sort.Slice(makes, func(i, j int) bool {
		return makes[i].Label < makes[j].Label
	})
	return makes, nil
}

type rangeRecord struct {
	YearMin     sql.NullInt64 `gorm:"column:year_min"`
	YearMax     sql.NullInt64 `gorm:"column:year_max"`
	PriceMin    sql.NullInt64 `gorm:"column:price_min"`
	PriceMax    sql.NullInt64 `gorm:"column:price_max"`
	OdometerMin sql.NullInt64 `gorm:"column:odometer_min"`
	OdometerMax sql.NullInt64 `gorm:"column:odometer_max"`
}

// AggregateRanges returns min/max bounds for year, price, and odometer over
// LIVE classifieds. Zero-width ranges are returned when nothing is live.
func (r *Repository) AggregateRanges(ctx context.Context) (years, prices, odometers Range, err error) {
	var record rangeRecord
	err = r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Select(strings.Join([]string{
			"MIN(year) AS year_min",
			"MAX(year) AS year_max",
			"MIN(price_minor) AS price_min",
			"MAX(price_minor) AS price_max",
			"MIN(odometer) AS odometer_min",
			"MAX(odometer) AS odometer_max",
		}, ", ")).
		Where("status = ?", enums.ClassifiedStatusLive).
		Scan(&record).
		Error
	if err != nil {
		return Range{}, Range{}, Range{}, err
	}
	years = Range{Min: record.YearMin.Int64, Max: record.YearMax.Int64}
	prices = Range{Min: record.PriceMin.Int64, Max: record.PriceMax.Int64}
	odometers = Range{Min: record.OdometerMin.Int64, Max: record.OdometerMax.Int64}
	return years, prices, odometers, nil
}

// DistinctStrings returns the sorted distinct values of a categorical
// column over LIVE classifieds.
func (r *Repository) DistinctStrings(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Distinct().
		Where("status = ?", enums.ClassifiedStatusLive).
		Order(column + " ASC").
		Pluck(column, &values).
		Error
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

// DistinctInts returns the sorted distinct values of a numeric column over
// LIVE classifieds.
func (r *Repository) DistinctInts(ctx context.Context, column string) ([]int, error) {
	var values []int
	err := r.db.WithContext(ctx).
		Model(&models.Classified{}).
		Distinct().
		Where("status = ?", enums.ClassifiedStatusLive).
		Order(column + " ASC").
		Pluck(column, &values).
		Error
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = []int{}
	}
	return values, nil
}

// Generate assembles a full snapshot. A zero-LIVE inventory yields a
// well-formed empty snapshot, never nil.
func (r *Repository) Generate(ctx context.Context, now time.Time) (*Snapshot, error) {
	total, err := r.CountLive(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return emptySnapshot(now), nil
	}

	snapshot := emptySnapshot(now)
	snapshot.Total = total

	if snapshot.Makes, err = r.BuildTree(ctx); err != nil {
		return nil, err
	}
	if snapshot.Years, snapshot.Prices, snapshot.Odometers, err = r.AggregateRanges(ctx); err != nil {
		return nil, err
	}

	stringColumns := []struct {
		column string
		target *[]string
	}{
		{"transmission", &snapshot.Transmissions},
		{"fuel_type", &snapshot.FuelTypes},
		{"body_type", &snapshot.BodyTypes},
		{"colour", &snapshot.Colours},
		{"ulez", &snapshot.ULEZ},
		{"odometer_unit", &snapshot.OdometerUnits},
		{"currency", &snapshot.Currencies},
	}
	for _, agg := range stringColumns {
		values, err := r.DistinctStrings(ctx, agg.column)
		if err != nil {
			return nil, err
		}
		*agg.target = values
	}

	if snapshot.Doors, err = r.DistinctInts(ctx, "doors"); err != nil {
		return nil, err
	}
	if snapshot.Seats, err = r.DistinctInts(ctx, "seats"); err != nil {
		return nil, err
	}

	return snapshot, nil
}
