package nml

// MergeStrategy selects how group and document merges treat variables
// that exist on both sides.
type MergeStrategy int

const (
	// MergeReplace overwrites existing values completely.
	MergeReplace MergeStrategy = iota
	// MergeUpdate overwrites existing values and adds new ones. At the
	// value level it behaves like MergeReplace.
	MergeUpdate
	// MergeAppend concatenates arrays and promotes scalars to arrays.
	MergeAppend
	// MergeSkipExisting only inserts names absent from the target.
	MergeSkipExisting
)

func (s MergeStrategy) String() string {
	switch s {
	case MergeReplace:
		return "replace"
	case MergeUpdate:
		return "update"
	case MergeAppend:
		return "append"
	case MergeSkipExisting:
		return "skip-existing"
	}
	return "unknown"
}

// mergeValues combines an incoming patch value with an existing one under
// the default merge rules: scalars always overwrite, an incoming array
// replaces an existing array wholesale, an existing scalar is prepended
// to an incoming array, and derived types take the field-wise union with
// incoming fields winning.
func mergeValues(existing, incoming Value) Value {
	if incoming.Kind() != Array {
		if existing.Kind() == DerivedType && incoming.Kind() == DerivedType {
			merged := make(map[string]Value, len(existing.fields)+len(incoming.fields))
			for k, v := range existing.fields {
				merged[k] = v
			}
			for k, v := range incoming.fields {
				merged[k] = v
			}
			return NewDerivedType(merged)
		}
		return incoming
	}

	if existing.Kind() == Array {
		return incoming
	}

	// Scalar meets incoming array: the scalar becomes the head.
	items := make([]Value, 0, 1+len(incoming.items))
	items = append(items, existing)
	items = append(items, incoming.items...)
	return NewArray(items...)
}

// appendValues combines values under the append strategy: array+array
// concatenates, array+scalar pushes, scalar+scalar promotes to a
// two-element array.
func appendValues(existing, incoming Value) Value {
	switch {
	case existing.Kind() == Array && incoming.Kind() == Array:
		items := make([]Value, 0, len(existing.items)+len(incoming.items))
		items = append(items, existing.items...)
		items = append(items, incoming.items...)
		return NewArray(items...)
	case existing.Kind() == Array:
		items := make([]Value, 0, len(existing.items)+1)
		items = append(items, existing.items...)
		items = append(items, incoming)
		return NewArray(items...)
	default:
		return NewArray(existing, incoming)
	}
}
