package nml

import (
	"sort"
	"strings"
)

// Namelist is a complete document: an ordered collection of named
// groups. Group identity is case-insensitive and first-insertion order
// is preserved for output.
type Namelist struct {
	groups map[string]*Group
	order  []string
}

// NewNamelist returns an empty namelist.
func NewNamelist() *Namelist {
	return &Namelist{groups: make(map[string]*Group)}
}

// CreateGroup returns the named group, creating an empty one on first
// use.
func (n *Namelist) CreateGroup(name string) *Group {
	name = strings.ToLower(name)
	if g, ok := n.groups[name]; ok {
		return g
	}
	g := NewGroup()
	n.groups[name] = g
	n.order = append(n.order, name)
	return g
}

// SetGroup inserts or replaces a group.
func (n *Namelist) SetGroup(name string, g *Group) {
	name = strings.ToLower(name)
	if _, ok := n.groups[name]; !ok {
		n.order = append(n.order, name)
	}
	n.groups[name] = g
}

// Group returns the named group and whether it exists.
func (n *Namelist) Group(name string) (*Group, bool) {
	g, ok := n.groups[strings.ToLower(name)]
	return g, ok
}

// Has reports whether the named group exists.
func (n *Namelist) Has(name string) bool {
	_, ok := n.groups[strings.ToLower(name)]
	return ok
}

// Remove deletes a group, returning it and whether it existed.
func (n *Namelist) Remove(name string) (*Group, bool) {
	name = strings.ToLower(name)
	g, ok := n.groups[name]
	if !ok {
		return nil, false
	}
	delete(n.groups, name)
	for i, gn := range n.order {
		if gn == name {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
	return g, true
}

// Names returns the group names in insertion order. The slice is shared;
// callers must not modify it.
func (n *Namelist) Names() []string { return n.order }

// Len returns the number of groups.
func (n *Namelist) Len() int { return len(n.groups) }

// ApplyPatch merges every group of patch into the namelist: groups
// present on both sides merge variable-wise under the default rules,
// patch-only groups are appended.
func (n *Namelist) ApplyPatch(patch *Namelist) {
	for _, name := range patch.order {
		pg := patch.groups[name]
		if existing, ok := n.groups[name]; ok {
			existing.ApplyPatch(pg)
		} else {
			n.SetGroup(name, pg.clone())
		}
	}
}

// ApplySelectivePatch applies only the patch groups admitted by the
// include and exclude filters. A nil include list admits every group;
// exclusions are applied afterwards. Names compare case-insensitively.
func (n *Namelist) ApplySelectivePatch(patch *Namelist, include, exclude []string) {
	admitted := func(name string) bool {
		if include != nil {
			found := false
			for _, g := range include {
				if strings.EqualFold(g, name) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		for _, g := range exclude {
			if strings.EqualFold(g, name) {
				return false
			}
		}
		return true
	}

	for _, name := range patch.order {
		if !admitted(name) {
			continue
		}
		pg := patch.groups[name]
		if existing, ok := n.groups[name]; ok {
			existing.ApplyPatch(pg)
		} else {
			n.SetGroup(name, pg.clone())
		}
	}
}

// MergeWith merges another namelist into this one under the given
// strategy. Under MergeSkipExisting, groups absent from the target are
// not added.
func (n *Namelist) MergeWith(other *Namelist, strategy MergeStrategy) {
	for _, name := range other.order {
		og := other.groups[name]
		if existing, ok := n.groups[name]; ok {
			existing.MergeWith(og, strategy)
			continue
		}
		if strategy != MergeSkipExisting {
			n.SetGroup(name, og.clone())
		}
	}
}

// Diff returns the minimal patch that, applied to n, produces the groups
// of other: groups absent from n in full, and for shared groups only the
// variables that differ.
func (n *Namelist) Diff(other *Namelist) *Namelist {
	patch := NewNamelist()
	for _, name := range other.order {
		og := other.groups[name]
		if existing, ok := n.groups[name]; ok {
			gp := existing.Diff(og)
			if gp.Len() > 0 {
				patch.SetGroup(name, gp)
			}
		} else {
			patch.SetGroup(name, og.clone())
		}
	}
	return patch
}

// Validate checks every group for internal consistency.
func (n *Namelist) Validate() error {
	for _, name := range n.order {
		if err := n.groups[name].Validate(name); err != nil {
			return err
		}
	}
	return nil
}

// Text renders the namelist in canonical form under opts.
func (n *Namelist) Text(opts WriteOptions) string {
	names := n.order
	if opts.SortGroups {
		names = append([]string(nil), n.order...)
		sort.Strings(names)
	}

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('\n')
		}
		display := name
		if opts.Uppercase {
			display = strings.ToUpper(name)
		}
		sb.WriteByte('&')
		sb.WriteString(display)
		sb.WriteByte('\n')
		sb.WriteString(n.groups[name].text(opts))
		sb.WriteString("/\n")
	}
	return sb.String()
}

// String renders the namelist with default write options.
func (n *Namelist) String() string {
	return n.Text(DefaultWriteOptions())
}

// clone returns a deep copy of the group's container structure. Values
// are immutable once stored, so they are shared.
func (g *Group) clone() *Group {
	c := NewGroup()
	c.order = append([]string(nil), g.order...)
	for k, v := range g.values {
		c.values[k] = v
	}
	for k, v := range g.starts {
		c.starts[k] = append([]int(nil), v...)
	}
	for k, v := range g.comments {
		c.comments[k] = v
	}
	return c
}
