package wizard

import (
	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/taxonomy"
)

// FocusFieldMsg moves keyboard focus to a field. Sent by auto-advance.
type FocusFieldMsg struct {
	Field form.Field
}

// OpenDropdownMsg focuses a select field and opens its options.
type OpenDropdownMsg struct {
	Field form.Field
}

// TaxonomyLoadedMsg carries the result of the asynchronous taxonomy load.
type TaxonomyLoadedMsg struct {
	Tree taxonomy.Tree
	Err  error
}

// InventoryLoadedMsg carries an inventory snapshot, either the initial load
// or a change reported by a watcher.
type InventoryLoadedMsg struct {
	Products []inventory.Product
	Err      error
}

// SubmitDoneMsg is sent when a submission returns.
type SubmitDoneMsg struct {
	Err error
}
