package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobilkita/tradein/internal/form"
)

func TestParsePrefill(t *testing.T) {
	values, err := parsePrefill(
		map[string]string{"brand": "Honda", "name": "Sari"},
		[]string{"brand=Toyota", "fullAddress=Jl. Sudirman No. 1, RT 01=02"},
	)
	require.NoError(t, err)
	require.Equal(t, form.Values{
		form.Brand:       "Toyota",
		form.Name:        "Sari",
		form.FullAddress: "Jl. Sudirman No. 1, RT 01=02",
	}, values)

	_, err = parsePrefill(nil, []string{"brand"})
	require.ErrorContains(t, err, "expected field=value")

	_, err = parsePrefill(nil, []string{"mileage=10"})
	require.ErrorContains(t, err, "unknown field")

	_, err = parsePrefill(map[string]string{"mileage": "10"}, nil)
	require.ErrorContains(t, err, "config prefill")
}
