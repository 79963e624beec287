package taxonomy

// Default returns the built-in taxonomy used when no taxonomy file is
// configured. Each call returns a fresh copy.
func Default() Tree {
	return Tree{
		"Toyota": {
			Image: "brands/toyota.png",
			Models: map[string][]string{
				"Avanza":   {"1.3 E MT", "1.5 G MT", "1.5 G CVT", "1.5 Veloz CVT"},
				"Innova":   {"2.0 G MT", "2.0 V AT", "2.4 Venturer AT"},
				"Fortuner": {"2.4 G AT", "2.8 VRZ AT", "2.8 GR Sport AT"},
				"Yaris":    {"1.5 G CVT", "1.5 S GR Sport CVT"},
				"Rush":     {"1.5 G MT", "1.5 S GR Sport AT"},
			},
		},
		"Honda": {
			Image: "brands/honda.png",
			Models: map[string][]string{
				"Brio":  {"1.2 S MT", "1.2 E CVT", "1.2 RS CVT"},
				"HR-V":  {"1.5 S CVT", "1.5 SE CVT", "1.5 Turbo RS"},
				"CR-V":  {"1.5 Turbo CVT", "2.0 Hybrid RS"},
				"Jazz":  {"1.5 S MT", "1.5 RS CVT"},
				"Civic": {"1.5 Turbo CVT", "2.0 Type R MT"},
			},
		},
		"Daihatsu": {
			Image: "brands/daihatsu.png",
			Models: map[string][]string{
				"Xenia":  {"1.3 M MT", "1.3 R CVT", "1.5 R ADS CVT"},
				"Terios": {"1.5 X MT", "1.5 R AT", "1.5 R Custom AT"},
				"Ayla":   {"1.0 M MT", "1.2 R AT"},
				"Sigra":  {"1.0 D MT", "1.2 R AT"},
			},
		},
		"Mitsubishi": {
			Image: "brands/mitsubishi.png",
			Models: map[string][]string{
				"Xpander":      {"1.5 GLS MT", "1.5 Exceed CVT", "1.5 Ultimate CVT", "1.5 Cross CVT"},
				"Pajero Sport": {"2.4 Exceed AT", "2.4 Dakar AT", "2.4 Dakar Ultimate 4x4 AT"},
			},
		},
		"Suzuki": {
			Image: "brands/suzuki.png",
			Models: map[string][]string{
				"Ertiga": {"1.5 GL MT", "1.5 GX AT", "1.5 Hybrid GX AT"},
				"XL7":    {"1.5 Zeta MT", "1.5 Beta AT", "1.5 Alpha AT"},
				"Ignis":  {"1.2 GL MT", "1.2 GX AGS"},
			},
		},
		"Hyundai": {
			Image: "brands/hyundai.png",
			Models: map[string][]string{
				"Creta":     {"1.5 Active MT", "1.5 Trend IVT", "1.5 Prime IVT"},
				"Stargazer": {"1.5 Active MT", "1.5 Essential IVT", "1.5 Prime IVT"},
			},
		},
	}
}
