package settings

import (
	"encoding/json"

	"github.com/nova-tracer/nova-tracer/internal/hookset"
)

// CategoryReport describes the state of one managed category.
type CategoryReport struct {
	Category hookset.Category
	Present  bool
	Groups   int
	Owned    int // owned commands currently registered
	Foreign  int // commands registered by other tools
	Expected int // owned commands a fresh install would register
	UpToDate bool
	Err      error
}

// Report is the result of Inspect.
type Report struct {
	HasHooks   bool
	Categories []CategoryReport
	Err        error // document-level problem, e.g. hooks is not an object
}

// Installed reports whether any owned command is registered.
func (r Report) Installed() bool {
	for _, c := range r.Categories {
		if c.Owned > 0 {
			return true
		}
	}
	return false
}

// UpToDate reports whether merging desc again would change nothing.
func (r Report) UpToDate() bool {
	if r.Err != nil {
		return false
	}
	for _, c := range r.Categories {
		if !c.UpToDate {
			return false
		}
	}
	return true
}

// Inspect reports how the managed categories of doc compare to what desc
// would install. Malformed categories are reported rather than returned as
// an error so the rest of the document can still be described.
func Inspect(doc *Document, desc Descriptor) Report {
	doc = doc.Clone()
	var report Report

	hooks, hasHooks, err := hooksObject(doc)
	if err != nil {
		report.Err = err
		for _, c := range hookset.Categories() {
			report.Categories = append(report.Categories, CategoryReport{
				Category: c,
				Expected: countBindings(desc.GroupsFor(c)),
			})
		}
		return report
	}
	report.HasHooks = hasHooks

	merged, _, mergeErr := Merge(doc, desc)
	var mergedHooks Object
	if mergeErr == nil {
		mergedHooks, _, _ = hooksObject(merged)
	}

	for _, c := range hookset.Categories() {
		cr := CategoryReport{Category: c, Expected: countBindings(desc.GroupsFor(c))}
		raw, ok := hooks.Get(string(c))
		cr.Present = ok
		if ok {
			cr.Groups, cr.Owned, cr.Foreign, cr.Err = countCategory(c, raw, desc)
		}
		if mergeErr == nil && cr.Err == nil {
			after, okAfter := mergedHooks.Get(string(c))
			cr.UpToDate = ok == okAfter && (!ok || compactEqual(raw, after))
		}
		report.Categories = append(report.Categories, cr)
	}
	return report
}

func countCategory(c hookset.Category, raw json.RawMessage, owner Owner) (groups, owned, foreign int, err error) {
	items, err := categoryGroups(c, raw)
	if err != nil {
		return 0, 0, 0, err
	}
	for i, g := range items {
		_, bindings, _, err := groupBindings(c, i, g)
		if err != nil {
			return 0, 0, 0, err
		}
		groups++
		for j, b := range bindings {
			cmd, err := bindingCommand(c, i, j, b)
			if err != nil {
				return 0, 0, 0, err
			}
			if owner.Owns(cmd) {
				owned++
			} else {
				foreign++
			}
		}
	}
	return groups, owned, foreign, nil
}
