package taxonomy

import "strconv"

// Transmission types offered for a trade-in vehicle.
var transmissions = []string{"Automatic", "CVT", "DCT", "Manual"}

// TransmissionOptions lists the transmission types.
func TransmissionOptions() []Option {
	return options(transmissions)
}

// PriceRange is a budget bucket for the preferred new car. Values are in
// rupiah and Max == 0 means open-ended.
type PriceRange struct {
	Value string
	Label string
	Min   int64
	Max   int64
}

// PriceRanges are ordered from cheapest to most expensive.
var PriceRanges = []PriceRange{
	{Value: "0-100000000", Label: "< Rp 100 juta", Min: 0, Max: 100_000_000},
	{Value: "100000000-200000000", Label: "Rp 100 - 200 juta", Min: 100_000_000, Max: 200_000_000},
	{Value: "200000000-300000000", Label: "Rp 200 - 300 juta", Min: 200_000_000, Max: 300_000_000},
	{Value: "300000000-500000000", Label: "Rp 300 - 500 juta", Min: 300_000_000, Max: 500_000_000},
	{Value: "500000000-", Label: "> Rp 500 juta", Min: 500_000_000},
}

// PriceRangeOptions keeps bucket order instead of sorting by label.
func PriceRangeOptions() []Option {
	out := make([]Option, len(PriceRanges))
	for i, r := range PriceRanges {
		out[i] = Option{Value: r.Value, Label: r.Label}
	}
	return out
}

// TimeSlots are the inspection windows a customer can pick.
var TimeSlots = []string{"09:00-11:00", "11:00-13:00", "13:00-15:00", "15:00-17:00"}

// TimeSlotOptions lists the inspection windows in chronological order.
func TimeSlotOptions() []Option {
	out := make([]Option, len(TimeSlots))
	for i, s := range TimeSlots {
		out[i] = Option{Value: s, Label: s}
	}
	return out
}

// YearOptions lists model years from current back span years, newest first.
func YearOptions(current, span int) []Option {
	if span < 0 {
		span = 0
	}
	out := make([]Option, 0, span+1)
	for y := current; y >= current-span; y-- {
		s := strconv.Itoa(y)
		out = append(out, Option{Value: s, Label: s})
	}
	return out
}

// LocationOptions lists the inspection location types.
func LocationOptions() []Option {
	return []Option{
		{Value: "showroom", Label: "Showroom"},
		{Value: "home", Label: "Rumah"},
	}
}

// StringOptions wraps free-form values (e.g. configured showroom addresses)
// keeping their order.
func StringOptions(values []string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}

// Regions maps province to its cities.
type Regions map[string][]string

// DefaultRegions covers the provinces served by the inspection team.
func DefaultRegions() Regions {
	return Regions{
		"DKI Jakarta": {"Jakarta Barat", "Jakarta Pusat", "Jakarta Selatan", "Jakarta Timur", "Jakarta Utara"},
		"Jawa Barat":  {"Bandung", "Bekasi", "Bogor", "Depok", "Karawang"},
		"Banten":      {"Serang", "Tangerang", "Tangerang Selatan"},
		"Jawa Timur":  {"Malang", "Sidoarjo", "Surabaya"},
	}
}

// ProvinceOptions lists provinces sorted by label.
func (r Regions) ProvinceOptions() []Option {
	names := make([]string, 0, len(r))
	for p := range r {
		names = append(names, p)
	}
	return options(names)
}

// CityOptions lists the cities of province, or nothing when it is unknown.
func (r Regions) CityOptions(province string) []Option {
	if province == "" {
		return []Option{}
	}
	return options(r[province])
}
