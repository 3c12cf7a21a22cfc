package models

// Day is the weekday-of-release tag on a title.
type Day string

const (
	DayMonday    Day = "MON"
	DayTuesday   Day = "TUE"
	DayWednesday Day = "WED"
	DayThursday  Day = "THU"
	DayFriday    Day = "FRI"
	DaySaturday  Day = "SAT"
	DaySunday    Day = "SUN"
)

// Valid reports whether d is one of the known weekday tags.
func (d Day) Valid() bool {
	switch d {
	case DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday:
		return true
	}
	return false
}

// SortMode selects the column a by-day listing is ordered by.
// Every mode sorts descending; ascending order is not supported.
type SortMode string

const (
	SortNewest      SortMode = "newest"
	SortHighestRate SortMode = "rating"
	SortMostViewed  SortMode = "views"
)

// Column returns the storage column backing the sort mode.
func (s SortMode) Column() string {
	switch s {
	case SortHighestRate:
		return "avg_rating"
	case SortMostViewed:
		return "view_count"
	default:
		return "updated_at"
	}
}

// Valid reports whether s is a known sort mode.
func (s SortMode) Valid() bool {
	switch s {
	case SortNewest, SortHighestRate, SortMostViewed:
		return true
	}
	return false
}

// Roles reported by the session oracle.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)
