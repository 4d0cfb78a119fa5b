package enums

import "fmt"

// ClassifiedStatus gates the public visibility of a vehicle listing.
type ClassifiedStatus string

const (
	ClassifiedStatusDraft      ClassifiedStatus = "draft"
	ClassifiedStatusLive       ClassifiedStatus = "live"
	ClassifiedStatusComingSoon ClassifiedStatus = "coming_soon"
	ClassifiedStatusSold       ClassifiedStatus = "sold"
	ClassifiedStatusArchived   ClassifiedStatus = "archived"
)

var validClassifiedStatuses = []ClassifiedStatus{
	ClassifiedStatusDraft,
	ClassifiedStatusLive,
	ClassifiedStatusComingSoon,
	ClassifiedStatusSold,
	ClassifiedStatusArchived,
}

// IsValid reports whether the value matches the canonical classified status enum.
func (s ClassifiedStatus) IsValid() bool {
	for _, candidate := range validClassifiedStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseClassifiedStatus converts the raw string to ClassifiedStatus.
func ParseClassifiedStatus(value string) (ClassifiedStatus, error) {
	for _, candidate := range validClassifiedStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid classified status %q", value)
}

func (s ClassifiedStatus) String() string { return string(s) }
