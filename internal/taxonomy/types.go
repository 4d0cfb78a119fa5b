package taxonomy

import "time"

// VariantNode is a leaf {value,label} option in the taxonomy tree.
type VariantNode struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// ModelNode groups the variants seen for one model.
type ModelNode struct {
	Value    int64         `json:"value"`
	Label    string        `json:"label"`
	Variants []VariantNode `json:"variants"`
}

// MakeNode groups the models seen for one make.
type MakeNode struct {
	Value  int64       `json:"value"`
	Label  string      `json:"label"`
	Models []ModelNode `json:"models"`
}

// Range holds inclusive slider bounds derived from live inventory.
type Range struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Snapshot is the UI-ready filter metadata derived from LIVE classifieds.
// It is a cache artifact, never authoritative: every value in it exists on
// at least one live listing at generation time.
type Snapshot struct {
	Makes         []MakeNode `json:"makes"`
	Years         Range      `json:"years"`
	Prices        Range      `json:"prices"`
	Odometers     Range      `json:"odometers"`
	Transmissions []string   `json:"transmissions"`
	FuelTypes     []string   `json:"fuel_types"`
	BodyTypes     []string   `json:"body_types"`
	Colours       []string   `json:"colours"`
	ULEZ          []string   `json:"ulez"`
	OdometerUnits []string   `json:"odometer_units"`
	Currencies    []string   `json:"currencies"`
	Doors         []int      `json:"doors"`
	Seats         []int      `json:"seats"`
	Total         int64      `json:"total"`
	GeneratedAt   time.Time  `json:"generated_at"`
}

func emptySnapshot(now time.Time) *Snapshot {
	return &Snapshot{
		Makes:         []MakeNode{},
		Transmissions: []string{},
		FuelTypes:     []string{},
		BodyTypes:     []string{},
		Colours:       []string{},
		ULEZ:          []string{},
		OdometerUnits: []string{},
		Currencies:    []string{},
		Doors:         []int{},
		Seats:         []int{},
		Total:         0,
		GeneratedAt:   now,
	}
}
