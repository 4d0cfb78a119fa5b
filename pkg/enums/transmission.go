package enums

import "fmt"

// Transmission is the gearbox type of a classified.
type Transmission string

const (
	TransmissionManual        Transmission = "manual"
	TransmissionAutomatic     Transmission = "automatic"
	TransmissionSemiAutomatic Transmission = "semi_automatic"
)

var validTransmissions = []Transmission{
	TransmissionManual,
	TransmissionAutomatic,
	TransmissionSemiAutomatic,
}

func (t Transmission) IsValid() bool {
	for _, candidate := range validTransmissions {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransmission converts the raw string to Transmission.
func ParseTransmission(value string) (Transmission, error) {
	for _, candidate := range validTransmissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transmission %q", value)
}

func (t Transmission) String() string { return string(t) }
