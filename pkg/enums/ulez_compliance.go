package enums

import "fmt"

// ULEZCompliance records whether a classified meets ultra-low emission zone rules.
type ULEZCompliance string

const (
	ULEZCompliant    ULEZCompliance = "compliant"
	ULEZExempt       ULEZCompliance = "exempt"
	ULEZNonCompliant ULEZCompliance = "non_compliant"
)

var validULEZCompliances = []ULEZCompliance{
	ULEZCompliant,
	ULEZExempt,
	ULEZNonCompliant,
}

func (u ULEZCompliance) IsValid() bool {
	for _, candidate := range validULEZCompliances {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseULEZCompliance converts the raw string to ULEZCompliance.
func ParseULEZCompliance(value string) (ULEZCompliance, error) {
	for _, candidate := range validULEZCompliances {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ulez compliance %q", value)
}

func (u ULEZCompliance) String() string { return string(u) }
