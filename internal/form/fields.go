// Package form holds the flat wizard state: field values, cascade resets of
// dependent fields and input normalization.
package form

import "strings"

// Field names a wizard input.
type Field string

// Vehicle info (the customer's current car).
const (
	Brand          Field = "brand"
	Model          Field = "model"
	Variant        Field = "variant"
	Year           Field = "year"
	Transmission   Field = "transmission"
	StnkExpiry     Field = "stnkExpiry"
	Color          Field = "color"
	TravelDistance Field = "travelDistance"
	ExpectedPrice  Field = "expectedPrice"
)

// Contact info.
const (
	Name  Field = "name"
	Phone Field = "phone"
	Email Field = "email"
)

// Inspection logistics.
const (
	LocationType    Field = "locationType"
	ShowroomAddress Field = "showroomAddress"
	Province        Field = "province"
	City            Field = "city"
	FullAddress     Field = "fullAddress"
	InspectionDate  Field = "inspectionDate"
	InspectionTime  Field = "inspectionTime"
)

// New-car preference.
const (
	NewBrand        Field = "newBrand"
	NewModel        Field = "newModel"
	NewVariant      Field = "newVariant"
	NewTransmission Field = "newTransmission"
	NewColor        Field = "newColor"
	PriceRange      Field = "priceRange"
)

// Location types.
const (
	LocationShowroom = "showroom"
	LocationHome     = "home"
)

// All lists every known field.
var All = []Field{
	Brand, Model, Variant, Year, Transmission, StnkExpiry, Color, TravelDistance, ExpectedPrice,
	Name, Phone, Email,
	LocationType, ShowroomAddress, Province, City, FullAddress, InspectionDate, InspectionTime,
	NewBrand, NewModel, NewVariant, NewTransmission, NewColor, PriceRange,
}

// ParseField resolves a field name case-insensitively. Config layers lower
// case their keys, so "stnkexpiry" resolves to StnkExpiry.
func ParseField(s string) (Field, bool) {
	for _, f := range All {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}

// Cascades are dependency chains ordered from ancestor to deepest
// descendant. Each chain is tracked independently.
var Cascades = [][]Field{
	{Brand, Model, Variant, Transmission, Color},
	{NewBrand, NewModel, NewVariant, NewTransmission, NewColor},
	{Province, City},
}

// Descendants returns the fields strictly below f in its cascade.
func Descendants(f Field) []Field {
	for _, chain := range Cascades {
		for i, c := range chain {
			if c == f {
				return append([]Field(nil), chain[i+1:]...)
			}
		}
	}
	return nil
}

// numericFields are displayed with thousand separators.
var numericFields = map[Field]bool{
	TravelDistance: true,
	ExpectedPrice:  true,
}

// IsNumeric reports whether f stores a raw numeric string.
func IsNumeric(f Field) bool {
	return numericFields[f]
}
