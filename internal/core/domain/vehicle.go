package domain

import "time"

// CarMake is a vehicle manufacturer.
type CarMake struct {
	MakeID    string    `json:"makeID"`
	Name      string    `json:"name"`
	Country   *string   `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CarModel is a model of a CarMake.
type CarModel struct {
	ModelID   string    `json:"modelID"`
	MakeID    string    `json:"makeID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemCompatibility states that an item fits a make, optionally narrowed to a model and year range.
type ItemCompatibility struct {
	CompatibilityID string    `json:"compatibilityID"`
	ItemID          string    `json:"itemID"`
	MakeID          string    `json:"makeID"`
	ModelID         *string   `json:"modelID,omitempty"`
	YearFrom        *int      `json:"yearFrom,omitempty"`
	YearTo          *int      `json:"yearTo,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       string    `json:"createdBy"`
}

// Fits reports whether the rule covers the given model and year.
// A nil model or year on the query matches any rule.
func (c ItemCompatibility) Fits(modelID *string, year *int) bool {
	if modelID != nil && c.ModelID != nil && *c.ModelID != *modelID {
		return false
	}
	if year != nil {
		if c.YearFrom != nil && *year < *c.YearFrom {
			return false
		}
		if c.YearTo != nil && *year > *c.YearTo {
			return false
		}
	}
	return true
}

// VehicleMatch is one row of a make/model search.
type VehicleMatch struct {
	MakeID    string  `json:"makeID"`
	MakeName  string  `json:"makeName"`
	ModelID   *string `json:"modelID,omitempty"`
	ModelName *string `json:"modelName,omitempty"`
}

// VehicleQuery selects items that fit a vehicle.
type VehicleQuery struct {
	MakeID  string
	ModelID *string
	Year    *int
}

// MaxVehicleSearchResults caps vehicle search responses.
const MaxVehicleSearchResults = 50
