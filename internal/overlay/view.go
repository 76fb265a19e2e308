// Package overlay manages transient notification views. Views double as
// listener owners: while a view is closed its listeners are skipped by the
// dispatcher without being unregistered.
package overlay

import "fmt"

// ViewConfig selects the asset a view is built from.
type ViewConfig struct {
	Asset string
}

// Callbacks are invoked when a view is shown or closed.
type Callbacks struct {
	OnAdded   func(v *View)
	OnRemoved func(v *View, destroy bool)
}

// View is a shown (or cached) notification.
type View struct {
	GUID      string
	UIID      int
	Asset     string
	Params    []any
	Callbacks *Callbacks

	valid bool
}

// Alive reports whether the view is currently shown.
func (v *View) Alive() bool { return v != nil && v.valid }

func (v *View) String() string {
	return fmt.Sprintf("view(%s %s)", v.Asset, v.GUID)
}
