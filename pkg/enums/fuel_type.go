package enums

import "fmt"

// FuelType is the fuel category of a classified.
type FuelType string

const (
	FuelTypePetrol       FuelType = "petrol"
	FuelTypeDiesel       FuelType = "diesel"
	FuelTypeHybrid       FuelType = "hybrid"
	FuelTypePluginHybrid FuelType = "plugin_hybrid"
	FuelTypeElectric     FuelType = "electric"
)

var validFuelTypes = []FuelType{
	FuelTypePetrol,
	FuelTypeDiesel,
	FuelTypeHybrid,
	FuelTypePluginHybrid,
	FuelTypeElectric,
}

func (f FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFuelType converts the raw string to FuelType.
func ParseFuelType(value string) (FuelType, error) {
	for _, candidate := range validFuelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fuel type %q", value)
}

func (f FuelType) String() string { return string(f) }
