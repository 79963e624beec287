package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobilkita/tradein/internal/taxonomy"
)

func TestStaticOptions(t *testing.T) {
	tree := taxonomy.Default()

	tests := []struct {
		name  string
		level taxonomy.Level
		sel   taxonomy.Selection
		empty bool
	}{
		{"brands", taxonomy.LevelBrand, taxonomy.Selection{}, false},
		{"models need a brand", taxonomy.LevelModel, taxonomy.Selection{}, true},
		{"models", taxonomy.LevelModel, taxonomy.Selection{Brand: "Toyota"}, false},
		{"variants", taxonomy.LevelVariant, taxonomy.Selection{Brand: "Toyota", Model: "Avanza"}, false},
		{"transmission needs a variant", taxonomy.LevelTransmission, taxonomy.Selection{Brand: "Toyota"}, true},
		{"transmission", taxonomy.LevelTransmission, taxonomy.Selection{Variant: "1.5 G CVT"}, false},
		{"color needs a transmission", taxonomy.LevelColor, taxonomy.Selection{Variant: "1.5 G CVT"}, true},
		{"color", taxonomy.LevelColor, taxonomy.Selection{Transmission: "CVT"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := staticOptions(tree, tt.level, tt.sel)
			require.NotNil(t, opts)
			require.Equal(t, tt.empty, len(opts) == 0)
		})
	}
}

func TestPrintOptions(t *testing.T) {
	opts := []taxonomy.Option{
		{Value: "Putih", Label: "Putih", Extra: map[string]string{"hex": "#ffffff"}},
		{Value: "CVT", Label: "CVT"},
	}

	var buf bytes.Buffer
	require.NoError(t, printOptions(&buf, opts, false))
	require.Equal(t, "Putih  #ffffff\nCVT\n", buf.String())

	buf.Reset()
	require.NoError(t, printOptions(&buf, nil, false))
	require.Equal(t, "(no options)\n", buf.String())

	buf.Reset()
	require.NoError(t, printOptions(&buf, opts, true))
	var decoded []taxonomy.Option
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, opts, decoded)
}
