package testfixtures

import (
	"time"

	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/wizard"
)

// Fixed test values
const (
	FixedReference = "notify-budi-santoso-20261018-093000"
	PhonePrefix    = "+62 "
)

var (
	FixedTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	Showrooms = []string{"Showroom Jakarta Selatan"}
)

// Products returns a small inventory: one available Brio, a sold Brio and a
// booked Avanza.
func Products() []inventory.Product {
	return []inventory.Product{
		{ID: "1", Brand: "Honda", Model: "Brio", Variant: "RS", Transmission: "CVT", CarColor: "Kuning", Status: inventory.StatusAvailable},
		{ID: "2", Brand: "Honda", Model: "Brio", Variant: "RS", Transmission: "Manual", CarColor: "Merah", Status: inventory.StatusSold},
		{ID: "3", Brand: "Toyota", Model: "Avanza", Variant: "1.5 G CVT", Transmission: "CVT", CarColor: "Putih", Status: inventory.StatusBooked},
	}
}

// NotifyNewCar are valid values for the new-car step of the notify flow.
func NotifyNewCar() form.Values {
	return form.Values{
		form.NewBrand:        "Toyota",
		form.NewModel:        "Avanza",
		form.NewVariant:      "1.5 G CVT",
		form.NewTransmission: "CVT",
		form.NewColor:        "Putih",
		form.PriceRange:      "200000000-300000000",
	}
}

// Contact are valid values for the contact step.
func Contact() form.Values {
	return form.Values{
		form.Name:  "Budi Santoso",
		form.Phone: "81234567890",
		form.Email: "budi@example.com",
	}
}

// Fill sets every value on w, in form field order so cascades do not reset
// later values.
func Fill(w *wizard.Wizard, values form.Values) {
	for _, f := range form.All {
		if v, ok := values[f]; ok {
			w.Set(f, v)
		}
	}
}
