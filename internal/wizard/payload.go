package wizard

import "github.com/mobilkita/tradein/internal/form"

// Payload is the flat record handed to the Submitter, keyed by external
// names.
type Payload map[string]string

// mapping renames one internal field to its external key.
type mapping struct {
	field form.Field
	key   string
}

var contactMappings = []mapping{
	{form.Name, "name"},
	{form.Phone, "phone"},
	{form.Email, "email"},
}

var inspectionMappings = []mapping{
	{form.LocationType, "locationType"},
	{form.ShowroomAddress, "showroomAddress"},
	{form.Province, "province"},
	{form.City, "city"},
	{form.FullAddress, "fullAddress"},
	{form.InspectionDate, "inspectionDate"},
	{form.InspectionTime, "inspectionTime"},
}

var payloadMappings = map[Flavor][]mapping{
	TradeIn: concat(
		[]mapping{
			{form.Brand, "tradeInBrand"},
			{form.Model, "tradeInModel"},
			{form.Variant, "tradeInVariant"},
			{form.Year, "tradeInYear"},
			{form.Transmission, "tradeInTransmission"},
			{form.StnkExpiry, "tradeInStnkExpiry"},
			{form.Color, "tradeInColor"},
			{form.TravelDistance, "tradeInTravelDistance"},
		},
		contactMappings,
		inspectionMappings,
		[]mapping{
			{form.NewBrand, "newCarBrand"},
			{form.NewModel, "newCarModel"},
			{form.NewVariant, "newCarVariant"},
			{form.NewTransmission, "newCarTransmission"},
			{form.NewColor, "newCarColor"},
			{form.PriceRange, "newCarPriceRange"},
		},
	),
	Sell: concat(
		[]mapping{
			{form.Brand, "brand"},
			{form.Model, "model"},
			{form.Variant, "variant"},
			{form.Year, "year"},
			{form.Transmission, "transmission"},
			{form.StnkExpiry, "stnkExpiry"},
			{form.Color, "color"},
			{form.TravelDistance, "travelDistance"},
			{form.ExpectedPrice, "expectedPrice"},
		},
		contactMappings,
		inspectionMappings,
	),
	Notify: concat(
		[]mapping{
			{form.NewBrand, "brand"},
			{form.NewModel, "model"},
			{form.NewVariant, "variant"},
			{form.NewTransmission, "transmission"},
			{form.NewColor, "color"},
			{form.PriceRange, "priceRange"},
		},
		contactMappings,
	),
}

func concat(groups ...[]mapping) []mapping {
	var out []mapping
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// BuildPayload renames the flavor's fields to their external keys. Empty
// values and fields outside the chosen inspection branch are left out
// entirely rather than sent as "".
func BuildPayload(flavor Flavor, values form.Values) Payload {
	p := Payload{}
	for _, m := range payloadMappings[flavor] {
		v := values[m.field]
		if v == "" || !applies(m.field, values) {
			continue
		}
		p[m.key] = v
	}
	return p
}

// PayloadKeys lists the external keys a flavor can emit, in order.
func PayloadKeys(flavor Flavor) []string {
	ms := payloadMappings[flavor]
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.key
	}
	return out
}
