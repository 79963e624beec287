package form

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"81234567890", "+62 81234567890"},
		{"+62 81234567890", "+62 81234567890"},
		{"+6281234567890", "+62 81234567890"},
		{"+62 812-3456-7890", "+62 81234567890"},
		{"(812) 3456 7890", "+62 81234567890"},
		{"+62 ", ""},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizePhone(DefaultPhonePrefix, tt.in))
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	inputs := []string{
		"81234567890", "+62 812 3456 7890", "0812-3456", "+62", "+62 +62 8", "x8y1z2", "",
	}
	for _, in := range inputs {
		once := NormalizePhone(DefaultPhonePrefix, in)
		require.Equal(t, once, NormalizePhone(DefaultPhonePrefix, once), "input %q", in)
	}
}

func TestLocalDigits(t *testing.T) {
	require.Equal(t, "8123", LocalDigits("+62 ", "+62 8123"))
	require.Equal(t, "8123", LocalDigits("+62 ", "+628123"))
	require.Equal(t, "8123", LocalDigits("+1 ", "+1 8123"))
	require.Equal(t, "", LocalDigits("+62 ", "+62"))
}

func TestThousands(t *testing.T) {
	require.Equal(t, "50000", StripThousands("50.000"))
	require.Equal(t, "1500000", StripThousands("1,500,000"))
	require.Equal(t, "50000", StripThousands(" 50 000 "))

	require.Equal(t, "50.000", FormatThousands("50000"))
	require.Equal(t, "1.500.000", FormatThousands("1500000"))
	require.Equal(t, "999", FormatThousands("999"))
	require.Equal(t, "-1.000", FormatThousands("-1000"))
	require.Equal(t, "abc", FormatThousands("abc"))
	require.Equal(t, "", FormatThousands(""))
}

func TestFieldsAndCascades(t *testing.T) {
	f, ok := ParseField("stnkexpiry")
	require.True(t, ok)
	require.Equal(t, StnkExpiry, f)
	_, ok = ParseField("mileage")
	require.False(t, ok)

	require.Equal(t, []Field{Model, Variant, Transmission, Color}, Descendants(Brand))
	require.Equal(t, []Field{NewColor}, Descendants(NewTransmission))
	require.Equal(t, []Field{City}, Descendants(Province))
	require.Empty(t, Descendants(Color))
	require.Empty(t, Descendants(Name))

	require.True(t, IsNumeric(TravelDistance))
	require.False(t, IsNumeric(Phone))
}
