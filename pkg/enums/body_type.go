package enums

import "fmt"

// BodyType is the body style of a classified.
type BodyType string

const (
	BodyTypeSaloon      BodyType = "saloon"
	BodyTypeHatchback   BodyType = "hatchback"
	BodyTypeEstate      BodyType = "estate"
	BodyTypeSUV         BodyType = "suv"
	BodyTypeCoupe       BodyType = "coupe"
	BodyTypeConvertible BodyType = "convertible"
	BodyTypeMPV         BodyType = "mpv"
	BodyTypePickup      BodyType = "pickup"
)

var validBodyTypes = []BodyType{
	BodyTypeSaloon,
	BodyTypeHatchback,
	BodyTypeEstate,
	BodyTypeSUV,
	BodyTypeCoupe,
	BodyTypeConvertible,
	BodyTypeMPV,
	BodyTypePickup,
}

func (b BodyType) IsValid() bool {
	for _, candidate := range validBodyTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBodyType converts the raw string to BodyType.
func ParseBodyType(value string) (BodyType, error) {
	for _, candidate := range validBodyTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid body type %q", value)
}

func (b BodyType) String() string { return string(b) }
