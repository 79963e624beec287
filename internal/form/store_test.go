package form

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mobilkita/tradein/internal/taxonomy"
)

func filledOldCar(s *Store) {
	s.Set(Brand, "Toyota")
	s.Set(Model, "Avanza")
	s.Set(Variant, "1.5 G")
	s.Set(Transmission, "CVT")
	s.Set(Color, "Putih")
}

func TestSetResetsDescendants(t *testing.T) {
	tests := []struct {
		name      string
		field     Field
		value     string
		cleared   []Field
		untouched []Field
	}{
		{
			name:      "brand clears the whole chain",
			field:     Brand,
			value:     "Honda",
			cleared:   []Field{Model, Variant, Transmission, Color},
			untouched: []Field{Year, NewBrand},
		},
		{
			name:      "variant clears only deeper levels",
			field:     Variant,
			value:     "1.3 E",
			cleared:   []Field{Transmission, Color},
			untouched: []Field{Brand, Model},
		},
		{
			name:      "deepest level clears nothing",
			field:     Color,
			value:     "Hitam",
			untouched: []Field{Brand, Model, Variant, Transmission},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(Config{})
			filledOldCar(s)
			s.Set(Year, "2020")
			s.Set(NewBrand, "Honda")
			before := s.Snapshot()

			ch := s.Set(tt.field, tt.value)
			require.ElementsMatch(t, tt.cleared, ch.Reset)

			after := s.Snapshot()
			require.Equal(t, tt.value, after[tt.field])
			for _, f := range tt.cleared {
				require.Empty(t, after[f], f)
			}
			for _, f := range tt.untouched {
				require.Equal(t, before[f], after[f], f)
			}
		})
	}
}

func TestSetSameValueKeepsDescendants(t *testing.T) {
	s := NewStore(Config{})
	filledOldCar(s)

	ch := s.Set(Brand, "Toyota")
	require.False(t, ch.Changed())
	require.Empty(t, ch.Reset)
	require.Equal(t, "Putih", s.Get(Color))
}

func TestCascadesAreIndependent(t *testing.T) {
	s := NewStore(Config{})
	filledOldCar(s)
	s.Set(NewBrand, "Honda")
	s.Set(NewModel, "Brio")
	s.Set(Province, "Banten")
	s.Set(City, "Serang")

	s.Set(NewBrand, "Toyota")
	require.Empty(t, s.Get(NewModel))
	require.Equal(t, "Avanza", s.Get(Model))
	require.Equal(t, "Serang", s.Get(City))

	s.Set(Province, "Jawa Barat")
	require.Empty(t, s.Get(City))
	require.Equal(t, "Putih", s.Get(Color))
}

func TestChangeTransitions(t *testing.T) {
	s := NewStore(Config{})

	ch := s.Set(Name, "Budi")
	require.True(t, ch.WasEmpty())
	require.True(t, ch.Filled())

	ch = s.Set(Name, "Budi Santoso")
	require.False(t, ch.Filled())
	require.True(t, ch.Changed())

	ch = s.Set(Name, "")
	require.False(t, ch.Filled())
	require.Equal(t, "Budi Santoso", ch.Previous)
}

func TestSetNormalizesPhoneAndNumbers(t *testing.T) {
	s := NewStore(Config{})

	s.Set(Phone, "0812-3456-7890")
	require.Equal(t, "+62 081234567890", s.Get(Phone))

	s.Set(Phone, "+62 812 3456 7890")
	require.Equal(t, "+62 81234567890", s.Get(Phone))

	s.Set(TravelDistance, "50.000")
	require.Equal(t, "50000", s.Get(TravelDistance))

	s.Set(ExpectedPrice, "150,000,000")
	require.Equal(t, "150000000", s.Get(ExpectedPrice))
}

func TestSetIsAtomicUnderConcurrency(t *testing.T) {
	s := NewStore(Config{})
	filledOldCar(s)

	var (
		wg   sync.WaitGroup
		torn atomic.Bool
	)
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Set(Brand, "Honda")
			s.Set(Model, "Brio")
		}()
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			// A brand change and its cascade are applied together, so a
			// reader never sees Honda with the Toyota model still set.
			if snap[Brand] == "Honda" && snap[Model] == "Avanza" {
				torn.Store(true)
			}
		}()
	}
	wg.Wait()
	require.False(t, torn.Load())
}

func TestDefaultsPrefillAndReset(t *testing.T) {
	s := NewStore(Config{Defaults: Values{LocationType: LocationShowroom, TravelDistance: "1.000"}})
	require.Equal(t, LocationShowroom, s.Get(LocationType))
	require.Equal(t, "1000", s.Get(TravelDistance))

	s.Set(Name, "Budi")
	s.Prefill(Values{Name: "Prefilled", Email: "budi@example.com", Phone: "81234567890"})
	require.Equal(t, "Budi", s.Get(Name), "prefill must not overwrite an edited field")
	require.Equal(t, "budi@example.com", s.Get(Email))
	require.Equal(t, "+62 81234567890", s.Get(Phone))
	require.True(t, s.Edited(Name))
	require.False(t, s.Edited(Email))

	s.Set(Email, "other@example.com")
	s.Reset()
	require.Equal(t, "budi@example.com", s.Get(Email))
	require.Empty(t, s.Get(Name))
	require.Equal(t, LocationShowroom, s.Get(LocationType))
	require.False(t, s.Edited(Email))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(Config{})
	s.Set(Name, "Budi")
	snap := s.Snapshot()
	snap[Name] = "changed"
	require.Equal(t, "Budi", s.Get(Name))
}

type treeSource struct{ tree taxonomy.Tree }

func (t treeSource) Options(field Field, values Values) []taxonomy.Option {
	switch field {
	case Brand:
		return t.tree.BrandOptions()
	case Model:
		return t.tree.ModelOptions(values[Brand])
	}
	return nil
}

func TestOptions(t *testing.T) {
	s := NewStore(Config{})
	require.NotNil(t, s.Options(Brand))
	require.Empty(t, s.Options(Brand))

	s.SetOptions(treeSource{tree: taxonomy.Tree{
		"Toyota": {Models: map[string][]string{"Avanza": {"G"}, "Agya": {"E"}}},
	}})
	require.Equal(t, []string{"Toyota"}, taxonomy.Values(s.Options(Brand)))
	require.Empty(t, s.Options(Model))

	s.Set(Brand, "Toyota")
	require.Equal(t, []string{"Agya", "Avanza"}, taxonomy.Values(s.Options(Model)))
	require.NotNil(t, s.Options(Email))
}
