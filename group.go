package nml

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Group is a single namelist group: an ordered set of variable
// assignments plus per-variable metadata. Variable identity is
// case-insensitive; names fold to lowercase internally and insertion
// order is preserved for output. Re-inserting an existing name updates
// the value in place without duplicating the order entry.
type Group struct {
	values   map[string]Value
	order    []string
	starts   map[string][]int
	comments map[string]string
}

// NewGroup returns an empty group.
func NewGroup() *Group {
	return &Group{
		values:   make(map[string]Value),
		starts:   make(map[string][]int),
		comments: make(map[string]string),
	}
}

// Set inserts or updates a variable. It returns the group for chaining.
func (g *Group) Set(name string, v Value) *Group {
	name = strings.ToLower(name)
	if _, ok := g.values[name]; !ok {
		g.order = append(g.order, name)
	}
	g.values[name] = v
	return g
}

// SetWithComment inserts or updates a variable and attaches an inline
// comment to it.
func (g *Group) SetWithComment(name string, v Value, comment string) *Group {
	g.Set(name, v)
	g.comments[strings.ToLower(name)] = comment
	return g
}

// Get returns the variable's value and whether it exists.
func (g *Group) Get(name string) (Value, bool) {
	v, ok := g.values[strings.ToLower(name)]
	return v, ok
}

// Has reports whether the variable exists.
func (g *Group) Has(name string) bool {
	_, ok := g.values[strings.ToLower(name)]
	return ok
}

// Remove deletes a variable along with its metadata, returning the
// removed value and whether it existed.
func (g *Group) Remove(name string) (Value, bool) {
	name = strings.ToLower(name)
	v, ok := g.values[name]
	if !ok {
		return Value{}, false
	}
	delete(g.values, name)
	delete(g.starts, name)
	delete(g.comments, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return v, true
}

// Names returns the variable names in insertion order. The slice is
// shared; callers must not modify it.
func (g *Group) Names() []string { return g.order }

// Len returns the number of variables.
func (g *Group) Len() int { return len(g.values) }

// SetStartIndices records the per-dimension start indices for an array
// variable with a non-default origin.
func (g *Group) SetStartIndices(name string, indices []int) {
	g.starts[strings.ToLower(name)] = indices
}

// StartIndices returns the recorded start indices for a variable, or nil.
func (g *Group) StartIndices(name string) []int {
	return g.starts[strings.ToLower(name)]
}

// SetComment attaches an inline comment to a variable.
func (g *Group) SetComment(name, comment string) {
	g.comments[strings.ToLower(name)] = comment
}

// Comment returns the inline comment for a variable, or "".
func (g *Group) Comment(name string) string {
	return g.comments[strings.ToLower(name)]
}

// Int returns the variable converted to int64.
func (g *Group) Int(name string) (int64, bool) {
	v, ok := g.Get(name)
	if !ok {
		return 0, false
	}
	n, err := v.AsInt()
	return n, err == nil
}

// Real returns the variable converted to float64.
func (g *Group) Real(name string) (float64, bool) {
	v, ok := g.Get(name)
	if !ok {
		return 0, false
	}
	f, err := v.AsReal()
	return f, err == nil
}

// Bool returns the variable as a logical.
func (g *Group) Bool(name string) (bool, bool) {
	v, ok := g.Get(name)
	if !ok {
		return false, false
	}
	b, err := v.AsLogical()
	return b, err == nil
}

// Str returns the variable as a character string.
func (g *Group) Str(name string) (string, bool) {
	v, ok := g.Get(name)
	if !ok {
		return "", false
	}
	s, err := v.AsCharacter()
	return s, err == nil
}

// setDerivedField records one "name%field" or "name(i)%field" path
// assignment, merging the field into any derived value already held
// under name. elemIndex is one-based; zero means no element index.
func (g *Group) setDerivedField(name, field string, elemIndex int, v Value) {
	if elemIndex > 0 {
		var elems []map[string]Value
		if existing, ok := g.Get(name); ok && existing.Kind() == DerivedTypeArray {
			elems = existing.elems
		}
		for len(elems) < elemIndex {
			elems = append(elems, make(map[string]Value))
		}
		elems[elemIndex-1][field] = v
		g.Set(name, NewDerivedTypeArray(elems))
		return
	}
	fields := make(map[string]Value)
	if existing, ok := g.Get(name); ok && existing.Kind() == DerivedType {
		for k, fv := range existing.fields {
			fields[k] = fv
		}
	}
	fields[field] = v
	g.Set(name, NewDerivedType(fields))
}

// ApplyPatch merges every variable of patch into the group using the
// default merge rules: present variables merge value-wise, absent ones
// are inserted, and the patch's start indices and comments carry over.
func (g *Group) ApplyPatch(patch *Group) {
	for _, name := range patch.order {
		pv := patch.values[name]
		if existing, ok := g.values[name]; ok {
			g.values[name] = mergeValues(existing, pv)
		} else {
			g.Set(name, pv)
		}
		if indices := patch.StartIndices(name); indices != nil {
			g.SetStartIndices(name, indices)
		}
		if comment := patch.Comment(name); comment != "" {
			g.SetComment(name, comment)
		}
	}
}

// MergeWith merges another group into this one under the given strategy.
func (g *Group) MergeWith(other *Group, strategy MergeStrategy) {
	for _, name := range other.order {
		ov := other.values[name]
		existedBefore := g.Has(name)
		switch strategy {
		case MergeReplace, MergeUpdate:
			g.Set(name, ov)
		case MergeAppend:
			if existing, ok := g.values[name]; ok {
				g.values[name] = appendValues(existing, ov)
			} else {
				g.Set(name, ov)
			}
		case MergeSkipExisting:
			if !existedBefore {
				g.Set(name, ov)
			}
		}
		if strategy != MergeSkipExisting || !existedBefore {
			if indices := other.StartIndices(name); indices != nil {
				g.SetStartIndices(name, indices)
			}
			if comment := other.Comment(name); comment != "" {
				g.SetComment(name, comment)
			}
		}
	}
}

// Diff returns a minimal patch group that, applied to g, produces the
// variables of other: every variable of other that is absent from g or
// differs from g's value, with its metadata.
func (g *Group) Diff(other *Group) *Group {
	patch := NewGroup()
	for _, name := range other.order {
		ov := other.values[name]
		if existing, ok := g.values[name]; ok && existing.Equal(ov) {
			continue
		}
		patch.Set(name, ov)
		if indices := other.StartIndices(name); indices != nil {
			patch.SetStartIndices(name, indices)
		}
		if comment := other.Comment(name); comment != "" {
			patch.SetComment(name, comment)
		}
	}
	return patch
}

// Validate checks the group's values for internal consistency: array
// elements must share the first element's kind (null elements are
// exempt), and a multi-dimensional array's flat length must equal the
// product of its extents. groupName labels any error.
func (g *Group) Validate(groupName string) error {
	for _, name := range g.order {
		v := g.values[name]
		if v.Kind() != Array {
			continue
		}
		if dims := v.Dims(); dims != nil {
			want := 1
			for _, d := range dims {
				want *= d
			}
			if len(v.items) != want {
				return &ValidationError{
					Group:    groupName,
					Variable: name,
					Msg: fmt.Sprintf("array has %d elements, extents require %d",
						len(v.items), want),
				}
			}
		}
		if len(v.items) == 0 || v.items[0].IsNull() {
			continue
		}
		first := v.items[0].Kind()
		for i, elem := range v.items[1:] {
			if !elem.IsNull() && elem.Kind() != first {
				return &ValidationError{
					Group:    groupName,
					Variable: name,
					Msg: fmt.Sprintf("element %d has kind %s, expected %s",
						i+1, elem.Kind(), first),
				}
			}
		}
	}
	return nil
}

// text renders the group body (assignment lines only, no group
// delimiters) under opts.
func (g *Group) text(opts WriteOptions) string {
	names := g.order
	if opts.SortVariables {
		names = append([]string(nil), g.order...)
		sort.Strings(names)
	}

	var sb strings.Builder
	for _, name := range names {
		v := g.values[name]
		display := name
		if opts.Uppercase {
			display = strings.ToUpper(name)
		}
		for _, line := range g.assignmentLines(name, display, v, opts) {
			sb.WriteString(opts.Indent)
			sb.WriteString(line)
			if comment := strings.TrimSpace(g.Comment(name)); comment != "" {
				if strings.HasPrefix(comment, "!") {
					sb.WriteString("  ")
				} else {
					sb.WriteString("  ! ")
				}
				sb.WriteString(comment)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// assignmentLines renders one variable as one or more output lines.
// Arrays get a "name(a:b) = ..." header with column wrapping; derived
// types expand to one "name%field = value" line per field.
func (g *Group) assignmentLines(name, display string, v Value, opts WriteOptions) []string {
	fmtOpts := opts.formatOptions()

	switch v.Kind() {
	case Array:
		if v.Dims() != nil {
			line := display + "(:,:) = " + formatArray(v.items, fmtOpts)
			if opts.EndComma {
				line += ","
			}
			return []string{line}
		}
		return g.arrayLines(name, display, v.items, opts)

	case DerivedType:
		fields := make([]string, 0, len(v.fields))
		for field := range v.fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		lines := make([]string, 0, len(fields))
		for _, field := range fields {
			lines = append(lines,
				g.simpleAssignment(display+"%"+field, v.fields[field], opts))
		}
		return lines

	case DerivedTypeArray:
		var lines []string
		for i, elem := range v.elems {
			index := i + opts.DefaultStartIndex
			fields := make([]string, 0, len(elem))
			for field := range elem {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			for _, field := range fields {
				full := fmt.Sprintf("%s(%d)%%%s", display, index, field)
				lines = append(lines, g.simpleAssignment(full, elem[field], opts))
			}
		}
		return lines
	}

	return []string{g.indexedAssignment(name, display, v, opts)}
}

// indexedAssignment renders a scalar assignment, prefixing recorded start
// indices when present.
func (g *Group) indexedAssignment(name, display string, v Value, opts WriteOptions) string {
	indices := g.StartIndices(name)
	if len(indices) == 0 {
		return g.simpleAssignment(display, v, opts)
	}
	var sb strings.Builder
	sb.WriteString(display)
	sb.WriteByte('(')
	for i, idx := range indices {
		if i > 0 {
			sb.WriteByte(',')
			if opts.ColumnWidth > 0 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	sb.WriteByte(')')
	return g.finishAssignment(sb.String(), v, opts)
}

func (g *Group) simpleAssignment(display string, v Value, opts WriteOptions) string {
	return g.finishAssignment(display, v, opts)
}

func (g *Group) finishAssignment(head string, v Value, opts WriteOptions) string {
	line := head + " = " + v.Format(opts.formatOptions())
	if opts.EndComma {
		line += ","
	}
	return line
}

// arrayLines renders an array assignment with an explicit index-range
// header and wraps the value list at the configured column width,
// aligning continuation lines under the first value.
func (g *Group) arrayLines(name, display string, items []Value, opts WriteOptions) []string {
	if len(items) == 0 {
		return []string{display + " ="}
	}

	start := opts.DefaultStartIndex
	if indices := g.StartIndices(name); len(indices) > 0 {
		start = indices[0]
	}
	end := start + len(items) - 1

	var header string
	if len(items) == 1 {
		header = fmt.Sprintf("%s(%d) = ", display, start)
	} else {
		header = fmt.Sprintf("%s(%d:%d) = ", display, start, end)
	}

	fmtOpts := opts.formatOptions()
	var lines []string
	line := header
	for i, item := range items {
		if i > 0 {
			line += ", "
		}
		vs := item.Format(fmtOpts)
		if opts.ColumnWidth > 0 && len(line)+len(vs) > opts.ColumnWidth && len(line) > len(header) {
			lines = append(lines, line)
			line = strings.Repeat(" ", len(header))
		}
		line += vs
	}
	if opts.EndComma {
		line += ","
	}
	return append(lines, line)
}

// String renders the group body with default options.
func (g *Group) String() string {
	return g.text(DefaultWriteOptions())
}
