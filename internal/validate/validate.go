// Package validate implements the per-step checks of the wizard. Every
// check is a pure function of a values snapshot; a step is valid iff the
// returned Errors map is empty.
package validate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mobilkita/tradein/internal/form"
)

// Step identifies one page of a wizard.
type Step string

const (
	StepVehicle    Step = "vehicle"
	StepContact    Step = "contact"
	StepInspection Step = "inspection"
	StepNewCar     Step = "new-car"
	StepReview     Step = "review"
)

// Title returns the heading shown above a step.
func (s Step) Title() string {
	switch s {
	case StepVehicle:
		return "Vehicle Info"
	case StepContact:
		return "Contact Info"
	case StepInspection:
		return "Inspection Schedule"
	case StepNewCar:
		return "New Car Preference"
	case StepReview:
		return "Review"
	}
	return string(s)
}

// Errors maps a field to a human-readable message.
type Errors map[form.Field]string

// Valid reports whether there are no errors.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// First returns the first field of order that has an error.
func (e Errors) First(order []form.Field) (form.Field, bool) {
	for _, f := range order {
		if _, ok := e[f]; ok {
			return f, true
		}
	}
	return "", false
}

// ErrTermsNotAccepted blocks the final submission until the terms checkbox
// is ticked.
var ErrTermsNotAccepted = errors.New("please accept the terms and conditions")

// Terms checks the terms-acceptance checkbox.
func Terms(accepted bool) error {
	if !accepted {
		return ErrTermsNotAccepted
	}
	return nil
}

// DateLayout is the format of date inputs.
const DateLayout = "2006-01-02"

// checker runs validator tags on single values.
var checker = validator.New()

// ValidEmail reports whether s is an address with a dotted domain. The
// request store applies the same email tag.
func ValidEmail(s string) bool {
	if checker.Var(s, "email") != nil {
		return false
	}
	_, domain, _ := strings.Cut(s, "@")
	return strings.Contains(domain, ".")
}

// stepFields lists each step's fields in display order.
var stepFields = map[Step][]form.Field{
	StepVehicle: {
		form.Brand, form.Model, form.Variant, form.Year, form.Transmission,
		form.StnkExpiry, form.Color, form.TravelDistance,
	},
	StepContact: {form.Name, form.Phone, form.Email},
	StepInspection: {
		form.LocationType, form.ShowroomAddress, form.Province, form.City,
		form.FullAddress, form.InspectionDate, form.InspectionTime,
	},
	StepNewCar: {
		form.NewBrand, form.NewModel, form.NewVariant, form.NewTransmission,
		form.NewColor, form.PriceRange,
	},
	StepReview: {},
}

// Fields returns the fields a step declares, in display order. Error keys
// of a step are always a subset of these.
func Fields(step Step) []form.Field {
	return append([]form.Field(nil), stepFields[step]...)
}

// Labels used in messages.
var labels = map[form.Field]string{
	form.Brand:           "Brand",
	form.Model:           "Model",
	form.Variant:         "Variant",
	form.Year:            "Year",
	form.Transmission:    "Transmission",
	form.StnkExpiry:      "STNK expiry date",
	form.Color:           "Color",
	form.TravelDistance:  "Travel distance",
	form.ExpectedPrice:   "Expected price",
	form.Name:            "Name",
	form.Phone:           "Phone number",
	form.Email:           "Email",
	form.LocationType:    "Inspection location",
	form.ShowroomAddress: "Showroom",
	form.Province:        "Province",
	form.City:            "City",
	form.FullAddress:     "Full address",
	form.InspectionDate:  "Inspection date",
	form.InspectionTime:  "Inspection time",
	form.NewBrand:        "Brand",
	form.NewModel:        "Model",
	form.NewVariant:      "Variant",
	form.NewTransmission: "Transmission",
	form.NewColor:        "Color",
	form.PriceRange:      "Price range",
}

// Label returns the human name of a field.
func Label(f form.Field) string {
	if l, ok := labels[f]; ok {
		return l
	}
	return string(f)
}

func required(errs Errors, values form.Values, fields ...form.Field) {
	for _, f := range fields {
		if strings.TrimSpace(values[f]) == "" {
			errs[f] = fmt.Sprintf("%s is required", Label(f))
		}
	}
}

func date(errs Errors, values form.Values, f form.Field) {
	if _, failed := errs[f]; failed {
		return
	}
	if _, err := time.Parse(DateLayout, strings.TrimSpace(values[f])); err != nil {
		errs[f] = fmt.Sprintf("%s must be a date (YYYY-MM-DD)", Label(f))
	}
}

// Validator runs step checks for a given phone display prefix.
type Validator struct {
	PhonePrefix string
}

// New returns a Validator for prefix; "" selects form.DefaultPhonePrefix.
func New(phonePrefix string) Validator {
	if phonePrefix == "" {
		phonePrefix = form.DefaultPhonePrefix
	}
	return Validator{PhonePrefix: phonePrefix}
}

// Step dispatches to the check of step. Unknown steps have no checks.
func (v Validator) Step(step Step, values form.Values) Errors {
	switch step {
	case StepVehicle:
		return Vehicle(values)
	case StepContact:
		return v.Contact(values)
	case StepInspection:
		return Inspection(values)
	case StepNewCar:
		return NewCar(values)
	}
	return Errors{}
}

// Vehicle checks the trade-in/sell vehicle step.
func Vehicle(values form.Values) Errors {
	errs := Errors{}
	required(errs, values,
		form.Brand, form.Model, form.Variant, form.Year, form.Transmission,
		form.StnkExpiry, form.Color, form.TravelDistance,
	)
	date(errs, values, form.StnkExpiry)

	if _, failed := errs[form.TravelDistance]; !failed {
		raw := strings.TrimSpace(form.StripThousands(values[form.TravelDistance]))
		if strings.HasPrefix(raw, "-") {
			errs[form.TravelDistance] = "Travel distance cannot be negative"
		} else if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
			errs[form.TravelDistance] = "Travel distance must be a whole number"
		}
	}
	return errs
}

// Contact checks the contact step using the default phone prefix.
func Contact(values form.Values) Errors {
	return New("").Contact(values)
}

// Contact checks name, phone and email.
func (v Validator) Contact(values form.Values) Errors {
	errs := Errors{}
	required(errs, values, form.Name, form.Phone, form.Email)

	if _, failed := errs[form.Phone]; !failed {
		if msg := v.phoneProblem(values[form.Phone]); msg != "" {
			errs[form.Phone] = msg
		}
	}
	if _, failed := errs[form.Email]; !failed {
		if !ValidEmail(strings.TrimSpace(values[form.Email])) {
			errs[form.Email] = "Email address is not valid"
		}
	}
	return errs
}

// phoneProblem checks the subscriber digits: a leading 8 followed by 9 to 12
// digits.
func (v Validator) phoneProblem(value string) string {
	digits := form.LocalDigits(v.PhonePrefix, value)
	switch {
	case digits == "":
		return "Phone number is required"
	case digits[0] != '8':
		return "Phone number must start with 8"
	case len(digits)-1 < 9 || len(digits)-1 > 12:
		return "Phone number must have 10 to 13 digits"
	}
	return ""
}

// Inspection checks the inspection logistics step.
func Inspection(values form.Values) Errors {
	errs := Errors{}
	switch values[form.LocationType] {
	case form.LocationShowroom:
		required(errs, values, form.ShowroomAddress)
	case form.LocationHome:
		required(errs, values, form.Province, form.City, form.FullAddress)
	case "":
		errs[form.LocationType] = "Inspection location is required"
	default:
		errs[form.LocationType] = "Choose showroom or home inspection"
	}
	required(errs, values, form.InspectionDate, form.InspectionTime)
	date(errs, values, form.InspectionDate)
	return errs
}

// NewCar checks the new-car preference step.
func NewCar(values form.Values) Errors {
	errs := Errors{}
	required(errs, values,
		form.NewBrand, form.NewModel, form.NewVariant, form.NewTransmission,
		form.NewColor, form.PriceRange,
	)
	return errs
}
