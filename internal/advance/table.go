package advance

import (
	"time"

	"github.com/mobilkita/tradein/internal/form"
)

// DefaultTable chains every step's fields in display order. Select fields
// are opened, free-text fields focused. Flavors narrow it with Table.Only.
func DefaultTable(delay time.Duration) Table {
	open := func(target form.Field) Entry { return Entry{Target: target, Action: OpenDropdown, Delay: delay} }
	focus := func(target form.Field) Entry { return Entry{Target: target, Action: Focus, Delay: delay} }

	return Table{
		// vehicle info
		form.Brand:        open(form.Model),
		form.Model:        open(form.Variant),
		form.Variant:      open(form.Year),
		form.Year:         open(form.Transmission),
		form.Transmission: focus(form.StnkExpiry),
		form.StnkExpiry:   open(form.Color),
		form.Color:        focus(form.TravelDistance),

		// contact info
		form.Name:  focus(form.Phone),
		form.Phone: focus(form.Email),

		// inspection logistics
		form.Province:       open(form.City),
		form.City:           focus(form.FullAddress),
		form.InspectionDate: open(form.InspectionTime),

		// new-car preference
		form.NewBrand:        open(form.NewModel),
		form.NewModel:        open(form.NewVariant),
		form.NewVariant:      open(form.NewTransmission),
		form.NewTransmission: open(form.NewColor),
		form.NewColor:        open(form.PriceRange),
	}
}

var (
	vehicleFields    = []form.Field{form.Brand, form.Model, form.Variant, form.Year, form.Transmission, form.StnkExpiry, form.Color, form.TravelDistance}
	contactFields    = []form.Field{form.Name, form.Phone, form.Email}
	inspectionFields = []form.Field{form.Province, form.City, form.FullAddress, form.InspectionDate, form.InspectionTime}
	newCarFields     = []form.Field{form.NewBrand, form.NewModel, form.NewVariant, form.NewTransmission, form.NewColor, form.PriceRange}
)

func join(groups ...[]form.Field) []form.Field {
	var out []form.Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// TradeInTable covers all four trade-in steps.
func TradeInTable(delay time.Duration) Table {
	return DefaultTable(delay).Only(join(vehicleFields, contactFields, inspectionFields, newCarFields))
}

// SellTable covers the sell flow, which has no new-car step.
func SellTable(delay time.Duration) Table {
	return DefaultTable(delay).Only(join(vehicleFields, contactFields, inspectionFields))
}

// NotifyTable covers the stock-notification flow.
func NotifyTable(delay time.Duration) Table {
	return DefaultTable(delay).Only(join(newCarFields, contactFields))
}
