package enums

import "fmt"

// OdometerUnit is the unit the odometer reading is recorded in.
type OdometerUnit string

const (
	OdometerUnitMiles      OdometerUnit = "miles"
	OdometerUnitKilometres OdometerUnit = "km"
)

var validOdometerUnits = []OdometerUnit{
	OdometerUnitMiles,
	OdometerUnitKilometres,
}

func (o OdometerUnit) IsValid() bool {
	for _, candidate := range validOdometerUnits {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOdometerUnit converts the raw string to OdometerUnit.
func ParseOdometerUnit(value string) (OdometerUnit, error) {
	for _, candidate := range validOdometerUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid odometer unit %q", value)
}

func (o OdometerUnit) String() string { return string(o) }
