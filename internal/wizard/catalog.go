package wizard

import (
	"fmt"
	"slices"
	"time"

	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/taxonomy"
	"github.com/mobilkita/tradein/internal/validate"
)

// yearSpan is how many model years back the year picker reaches.
const yearSpan = 25

// Catalog resolves the option list of every select field. It is an
// immutable value; the With* methods return updated copies so a running
// wizard can swap catalogs when the taxonomy or inventory arrives.
type Catalog struct {
	Flavor    Flavor
	Tree      taxonomy.Tree
	Products  []inventory.Product
	Regions   taxonomy.Regions
	Showrooms []string
	Year      int
}

// NewCatalog returns a catalog with no taxonomy and no inventory loaded.
func NewCatalog(flavor Flavor, showrooms []string) Catalog {
	return Catalog{
		Flavor:    flavor,
		Regions:   taxonomy.DefaultRegions(),
		Showrooms: append([]string(nil), showrooms...),
		Year:      time.Now().Year(),
	}
}

// WithTree returns a copy using tree.
func (c Catalog) WithTree(tree taxonomy.Tree) Catalog {
	c.Tree = tree
	return c
}

// WithProducts returns a copy using products.
func (c Catalog) WithProducts(products []inventory.Product) Catalog {
	c.Products = append([]inventory.Product(nil), products...)
	return c
}

// Options implements form.OptionSource.
func (c Catalog) Options(field form.Field, values form.Values) []taxonomy.Option {
	switch field {
	case form.Brand:
		return c.Tree.BrandOptions()
	case form.Model:
		return c.Tree.ModelOptions(values[form.Brand])
	case form.Variant:
		return c.Tree.VariantOptions(values[form.Brand], values[form.Model])
	case form.Year:
		return taxonomy.YearOptions(c.Year, yearSpan)
	case form.Transmission:
		return after(values[form.Variant], taxonomy.TransmissionOptions)
	case form.Color:
		return after(values[form.Transmission], taxonomy.ColorOptions)

	case form.LocationType:
		return taxonomy.LocationOptions()
	case form.ShowroomAddress:
		return taxonomy.StringOptions(c.Showrooms)
	case form.Province:
		return c.Regions.ProvinceOptions()
	case form.City:
		return c.Regions.CityOptions(values[form.Province])
	case form.InspectionTime:
		return taxonomy.TimeSlotOptions()

	case form.NewBrand, form.NewModel, form.NewVariant, form.NewTransmission, form.NewColor:
		if c.Flavor == Notify {
			return c.staticNewCar(field, values)
		}
		return c.derivedNewCar(field, values)
	case form.PriceRange:
		return taxonomy.PriceRangeOptions()
	}
	return nil
}

// Unlisted reports, per step, the select fields of the flavor whose value is
// set but not among the options the catalog offers for values. Fields
// outside the chosen inspection branch are skipped. The TUI cannot produce
// such values; callers that take values from elsewhere check them here.
func (c Catalog) Unlisted(values form.Values) (validate.Step, validate.Errors) {
	for _, step := range c.Flavor.Steps() {
		errs := validate.Errors{}
		for _, f := range c.Flavor.VisibleFields(step, values) {
			v := values[f]
			if v == "" || KindOf(f) != KindSelect {
				continue
			}
			if !slices.Contains(taxonomy.Values(c.Options(f, values)), v) {
				errs[f] = fmt.Sprintf("%s %q is not an available option", validate.Label(f), v)
			}
		}
		if !errs.Valid() {
			return step, errs
		}
	}
	return "", nil
}

// derivedNewCar offers only what is in stock.
func (c Catalog) derivedNewCar(field form.Field, values form.Values) []taxonomy.Option {
	sel := taxonomy.Selection{
		Brand:        values[form.NewBrand],
		Model:        values[form.NewModel],
		Variant:      values[form.NewVariant],
		Transmission: values[form.NewTransmission],
	}
	return taxonomy.Derived(newCarLevels[field], sel, c.Products)
}

var newCarLevels = map[form.Field]taxonomy.Level{
	form.NewBrand:        taxonomy.LevelBrand,
	form.NewModel:        taxonomy.LevelModel,
	form.NewVariant:      taxonomy.LevelVariant,
	form.NewTransmission: taxonomy.LevelTransmission,
	form.NewColor:        taxonomy.LevelColor,
}

// staticNewCar offers the whole taxonomy: a stock notification is asked for
// precisely when the car is not in stock.
func (c Catalog) staticNewCar(field form.Field, values form.Values) []taxonomy.Option {
	switch field {
	case form.NewBrand:
		return c.Tree.BrandOptions()
	case form.NewModel:
		return c.Tree.ModelOptions(values[form.NewBrand])
	case form.NewVariant:
		return c.Tree.VariantOptions(values[form.NewBrand], values[form.NewModel])
	case form.NewTransmission:
		return after(values[form.NewVariant], taxonomy.TransmissionOptions)
	case form.NewColor:
		return after(values[form.NewTransmission], taxonomy.ColorOptions)
	}
	return nil
}

// after gates a static list behind its ancestor so dependent fields stay
// disabled until the ancestor has a value.
func after(ancestor string, list func() []taxonomy.Option) []taxonomy.Option {
	if ancestor == "" {
		return []taxonomy.Option{}
	}
	return list()
}
