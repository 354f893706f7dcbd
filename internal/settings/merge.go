package settings

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/nova-tracer/nova-tracer/internal/hookset"
)

const hooksKey = "hooks"

// Owner recognises hook commands written by this installer.
type Owner interface {
	Owns(command string) bool
}

// Descriptor supplies the hook groups to install per category.
type Descriptor interface {
	Owner
	GroupsFor(c hookset.Category) []hookset.HookMatcher
}

// CategoryChange records what a merge did to one category.
type CategoryChange struct {
	Category      hookset.Category
	Removed       int  // owned commands stripped
	Added         int  // commands appended
	GroupsDropped int  // groups removed because only owned commands were left in them
	Created       bool // category did not exist before
	Dropped       bool // category removed because stripping emptied it
}

// ChangeSummary lists the categories a merge touched, in canonical order.
type ChangeSummary struct {
	Changes      []CategoryChange
	HooksCreated bool
	HooksRemoved bool
}

// Removed returns the total number of owned commands stripped.
func (s ChangeSummary) Removed() int {
	n := 0
	for _, c := range s.Changes {
		n += c.Removed
	}
	return n
}

// Added returns the total number of commands appended.
func (s ChangeSummary) Added() int {
	n := 0
	for _, c := range s.Changes {
		n += c.Added
	}
	return n
}

// For returns the change recorded for c.
func (s ChangeSummary) For(c hookset.Category) (CategoryChange, bool) {
	for _, ch := range s.Changes {
		if ch.Category == c {
			return ch, true
		}
	}
	return CategoryChange{}, false
}

// Merge returns a copy of existing in which every managed category holds
// the category's third-party groups in their original order followed by
// the descriptor's groups. Owned commands from any earlier install are
// stripped first, so merging twice equals merging once. existing may be
// nil. existing is never modified; on error no document is returned.
func Merge(existing *Document, desc Descriptor) (*Document, ChangeSummary, error) {
	return apply(existing, desc, desc.GroupsFor)
}

// Uninstall returns a copy of existing with every owned command removed
// from the managed categories. Groups and categories emptied by the
// removal are dropped, as is a hooks object left empty.
func Uninstall(existing *Document, owner Owner) (*Document, ChangeSummary, error) {
	return apply(existing, owner, nil)
}

func apply(existing *Document, owner Owner, fresh func(hookset.Category) []hookset.HookMatcher) (*Document, ChangeSummary, error) {
	out := existing.Clone()
	var summary ChangeSummary

	hooks, hasHooks, err := hooksObject(out)
	if err != nil {
		return nil, ChangeSummary{}, err
	}

	touched := false
	for _, c := range hookset.Categories() {
		var add []hookset.HookMatcher
		if fresh != nil {
			add = fresh(c)
		}
		change := CategoryChange{Category: c, Added: countBindings(add)}

		prior, present := hooks.Get(string(c))
		if !present {
			if len(add) == 0 {
				continue
			}
			value, err := encodeGroups(nil, add)
			if err != nil {
				return nil, ChangeSummary{}, err
			}
			hooks = insertCategory(hooks, c, value)
			change.Created = true
			summary.Changes = append(summary.Changes, change)
			touched = true
			continue
		}

		groups, err := categoryGroups(c, prior)
		if err != nil {
			return nil, ChangeSummary{}, err
		}
		kept, removed, dropped, err := strip(c, groups, owner)
		if err != nil {
			return nil, ChangeSummary{}, err
		}
		if removed == 0 && len(add) == 0 {
			continue
		}
		change.Removed = removed
		change.GroupsDropped = dropped

		if len(kept) == 0 && len(add) == 0 {
			hooks = hooks.Delete(string(c))
			change.Dropped = true
		} else {
			value, err := encodeGroups(kept, add)
			if err != nil {
				return nil, ChangeSummary{}, err
			}
			hooks = hooks.Set(string(c), value)
		}
		summary.Changes = append(summary.Changes, change)
		touched = true
	}

	if !touched {
		return out, summary, nil
	}

	if len(hooks) == 0 {
		out.root = out.root.Delete(hooksKey)
		summary.HooksRemoved = true
		return out, summary, nil
	}

	value, err := encodeValue(hooks)
	if err != nil {
		return nil, ChangeSummary{}, err
	}
	summary.HooksCreated = !hasHooks
	out.root = out.root.Set(hooksKey, value)
	return out, summary, nil
}

// hooksObject returns the parsed hooks member. A missing or null member
// yields an empty object and hasHooks=false. A managed category listed
// twice is malformed.
func hooksObject(d *Document) (Object, bool, error) {
	raw, ok := d.root.Get(hooksKey)
	if !ok || isNull(raw) {
		return Object{}, false, nil
	}
	hooks, err := parseObject(raw)
	if errors.Is(err, errNotObject) {
		return nil, false, malformed("", "hooks is not an object")
	}
	if err != nil {
		return nil, false, &MalformedConfigError{Reason: "hooks", Err: err}
	}
	seen := make(map[string]bool, len(hooks))
	for _, m := range hooks {
		if !hookset.Category(m.Key).Valid() {
			continue
		}
		if seen[m.Key] {
			return nil, false, malformed(m.Key, "category appears more than once")
		}
		seen[m.Key] = true
	}
	return hooks, true, nil
}

// categoryGroups splits a category value into its raw groups. null counts
// as an empty category.
func categoryGroups(c hookset.Category, raw json.RawMessage) ([]json.RawMessage, error) {
	if isNull(raw) {
		return nil, nil
	}
	groups, err := parseArray(raw)
	if errors.Is(err, errNotArray) {
		return nil, malformed(string(c), "expected an array of hook groups")
	}
	if err != nil {
		return nil, &MalformedConfigError{Category: string(c), Reason: "invalid value", Err: err}
	}
	return groups, nil
}

// groupBindings returns the parsed group and its raw bindings. ok is false
// for groups without a hooks array.
func groupBindings(c hookset.Category, i int, raw json.RawMessage) (Object, []json.RawMessage, bool, error) {
	group, err := parseObject(raw)
	if err != nil {
		return nil, nil, false, malformed(string(c), "group %d is not an object", i)
	}
	bindingsRaw, ok := group.Get(hooksKey)
	if !ok || isNull(bindingsRaw) {
		return group, nil, false, nil
	}
	bindings, err := parseArray(bindingsRaw)
	if err != nil {
		return nil, nil, false, malformed(string(c), "group %d: hooks is not an array", i)
	}
	return group, bindings, true, nil
}

// bindingCommand extracts the command string of a binding. Bindings
// without a command (e.g. prompt hooks) return "".
func bindingCommand(c hookset.Category, i, j int, raw json.RawMessage) (string, error) {
	binding, err := parseObject(raw)
	if err != nil {
		return "", malformed(string(c), "group %d hook %d is not an object", i, j)
	}
	cmdRaw, ok := binding.Get("command")
	if !ok || isNull(cmdRaw) {
		return "", nil
	}
	var cmd string
	if err := json.Unmarshal(cmdRaw, &cmd); err != nil {
		return "", malformed(string(c), "group %d hook %d: command is not a string", i, j)
	}
	return cmd, nil
}

// strip removes owned bindings from groups. Groups that lose no binding
// are returned verbatim; groups that lose all of them are dropped.
func strip(c hookset.Category, groups []json.RawMessage, owner Owner) (kept []json.RawMessage, removed, dropped int, err error) {
	for i, raw := range groups {
		group, bindings, ok, err := groupBindings(c, i, raw)
		if err != nil {
			return nil, 0, 0, err
		}
		if !ok {
			kept = append(kept, raw)
			continue
		}

		var keep []json.RawMessage
		owned := 0
		for j, b := range bindings {
			cmd, err := bindingCommand(c, i, j, b)
			if err != nil {
				return nil, 0, 0, err
			}
			if owner.Owns(cmd) {
				owned++
				continue
			}
			keep = append(keep, b)
		}

		if owned == 0 {
			kept = append(kept, raw)
			continue
		}
		removed += owned
		if len(keep) == 0 {
			dropped++
			continue
		}

		arr, err := encodeValue(keep)
		if err != nil {
			return nil, 0, 0, err
		}
		value, err := encodeValue(group.Set(hooksKey, arr))
		if err != nil {
			return nil, 0, 0, err
		}
		kept = append(kept, value)
	}
	return kept, removed, dropped, nil
}

func encodeGroups(kept []json.RawMessage, add []hookset.HookMatcher) (json.RawMessage, error) {
	items := make([]json.RawMessage, 0, len(kept)+len(add))
	items = append(items, kept...)
	for _, g := range add {
		v, err := encodeValue(g)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return encodeValue(items)
}

// insertCategory adds c so that managed categories stay in canonical order
// without moving any existing member.
func insertCategory(hooks Object, c hookset.Category, value json.RawMessage) Object {
	after, before := -1, -1
	for i, m := range hooks {
		idx := hookset.Category(m.Key).Index()
		switch {
		case idx < 0:
		case idx < c.Index():
			after = i
		case before < 0:
			before = i
		}
	}
	switch {
	case after >= 0:
		return hooks.Insert(after+1, string(c), value)
	case before >= 0:
		return hooks.Insert(before, string(c), value)
	default:
		return hooks.Set(string(c), value)
	}
}

func countBindings(groups []hookset.HookMatcher) int {
	n := 0
	for _, g := range groups {
		n += len(g.Hooks)
	}
	return n
}

func compactEqual(a, b json.RawMessage) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}
