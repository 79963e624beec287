package wizard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mobilkita/tradein/internal/advance"
	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/validate"
)

// Flavor is one of the request wizards of the storefront.
type Flavor string

const (
	TradeIn Flavor = "trade-in"
	Sell    Flavor = "sell"
	Notify  Flavor = "notify"
)

// Flavors lists every supported flavor.
var Flavors = []Flavor{TradeIn, Sell, Notify}

// ErrUnknownFlavor is returned for flavor names outside Flavors.
var ErrUnknownFlavor = errors.New("unknown wizard flavor")

// ParseFlavor resolves a flavor name, accepting "tradein" for TradeIn.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trade-in", "tradein":
		return TradeIn, nil
	case "sell":
		return Sell, nil
	case "notify":
		return Notify, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFlavor, s, flavorNames())
}

func flavorNames() string {
	names := make([]string, len(Flavors))
	for i, f := range Flavors {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Title returns the heading of the flavor's wizard.
func (f Flavor) Title() string {
	switch f {
	case TradeIn:
		return "Trade-in"
	case Sell:
		return "Sell Your Car"
	case Notify:
		return "Notify Me"
	}
	return string(f)
}

// Steps returns the ordered steps of the flavor.
func (f Flavor) Steps() []validate.Step {
	switch f {
	case TradeIn:
		return []validate.Step{validate.StepVehicle, validate.StepContact, validate.StepInspection, validate.StepNewCar}
	case Sell:
		return []validate.Step{validate.StepVehicle, validate.StepContact, validate.StepInspection}
	case Notify:
		return []validate.Step{validate.StepNewCar, validate.StepContact, validate.StepReview}
	}
	return nil
}

// Table returns the auto-advance transitions of the flavor.
func (f Flavor) Table(delay time.Duration) advance.Table {
	switch f {
	case TradeIn:
		return advance.TradeInTable(delay)
	case Sell:
		return advance.SellTable(delay)
	case Notify:
		return advance.NotifyTable(delay)
	}
	return advance.Table{}
}

// Fields returns every field the flavor renders on step, in display order,
// including fields hidden by the inspection location branch.
func (f Flavor) Fields(step validate.Step) []form.Field {
	fields := validate.Fields(step)
	if f == Sell && step == validate.StepVehicle {
		fields = append(fields, form.ExpectedPrice)
	}
	return fields
}

// VisibleFields narrows Fields to what applies to values: the inspection
// step shows either the showroom picker or the home address block.
func (f Flavor) VisibleFields(step validate.Step, values form.Values) []form.Field {
	var out []form.Field
	for _, field := range f.Fields(step) {
		if applies(field, values) {
			out = append(out, field)
		}
	}
	return out
}

// applies reports whether field belongs to the branch chosen in values.
func applies(field form.Field, values form.Values) bool {
	switch field {
	case form.ShowroomAddress:
		return values[form.LocationType] == form.LocationShowroom
	case form.Province, form.City, form.FullAddress:
		return values[form.LocationType] == form.LocationHome
	}
	return true
}

// Kind is how a field is edited.
type Kind int

const (
	KindText Kind = iota
	KindSelect
	KindDate
	KindNumber
	KindPhone
	KindEmail
)

// KindOf returns the input kind of field.
func KindOf(field form.Field) Kind {
	switch field {
	case form.Brand, form.Model, form.Variant, form.Year, form.Transmission, form.Color,
		form.LocationType, form.ShowroomAddress, form.Province, form.City, form.InspectionTime,
		form.NewBrand, form.NewModel, form.NewVariant, form.NewTransmission, form.NewColor, form.PriceRange:
		return KindSelect
	case form.StnkExpiry, form.InspectionDate:
		return KindDate
	case form.TravelDistance, form.ExpectedPrice:
		return KindNumber
	case form.Phone:
		return KindPhone
	case form.Email:
		return KindEmail
	}
	return KindText
}
