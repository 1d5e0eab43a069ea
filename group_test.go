package nml

import (
	"strings"
	"testing"
)

func TestGroup_caseInsensitive(t *testing.T) {
	g := NewGroup()
	g.Set("Alpha", NewInt(1))
	if v, ok := g.Get("ALPHA"); !ok || v.String() != "1" {
		t.Errorf("want alpha=1 via uppercase lookup, got %v ok=%v", v, ok)
	}
	g.Set("alpha", NewInt(2))
	if g.Len() != 1 {
		t.Errorf("re-insert duplicated variable: len=%d", g.Len())
	}
	if v, _ := g.Get("Alpha"); v.String() != "2" {
		t.Errorf("re-insert did not update: got %s", v)
	}
	if len(g.Names()) != 1 || g.Names()[0] != "alpha" {
		t.Errorf("order slice wrong: %v", g.Names())
	}
}

func TestGroup_removeDropsMetadata(t *testing.T) {
	g := NewGroup()
	g.SetWithComment("x", NewInt(1), "inline")
	g.SetStartIndices("x", []int{5})
	if _, ok := g.Remove("X"); !ok {
		t.Fatal("Remove failed")
	}
	if g.Has("x") || g.Comment("x") != "" || g.StartIndices("x") != nil {
		t.Error("metadata survived Remove")
	}
	if _, ok := g.Remove("x"); ok {
		t.Error("second Remove reported success")
	}
}

func TestGroup_typedAccessors(t *testing.T) {
	g := NewGroup()
	g.Set("n", NewInt(42))
	g.Set("x", NewReal(2.5))
	g.Set("flag", NewLogical(true))
	g.Set("name", NewCharacter("hi"))

	if n, ok := g.Int("n"); !ok || n != 42 {
		t.Errorf("Int: got %d ok=%v", n, ok)
	}
	if x, ok := g.Real("x"); !ok || x != 2.5 {
		t.Errorf("Real: got %g ok=%v", x, ok)
	}
	// Integers widen to reals.
	if x, ok := g.Real("n"); !ok || x != 42 {
		t.Errorf("Real(n): got %g ok=%v", x, ok)
	}
	if b, ok := g.Bool("flag"); !ok || !b {
		t.Errorf("Bool: got %v ok=%v", b, ok)
	}
	if s, ok := g.Str("name"); !ok || s != "hi" {
		t.Errorf("Str: got %q ok=%v", s, ok)
	}
	if _, ok := g.Int("name"); ok {
		t.Error("Int on character reported success")
	}
	if _, ok := g.Int("missing"); ok {
		t.Error("Int on missing variable reported success")
	}
}

func TestGroup_applyPatchMergeRules(t *testing.T) {
	g := NewGroup()
	g.Set("scalar", NewInt(5))
	g.Set("replaced", NewArray(NewInt(1), NewInt(2)))
	g.Set("kept", NewCharacter("keep"))

	patch := NewGroup()
	patch.Set("scalar", NewArray(NewInt(1), NewInt(2)))
	patch.Set("replaced", NewArray(NewInt(9)))
	patch.Set("added", NewLogical(true))

	g.ApplyPatch(patch)

	// Existing scalar is prepended to the incoming array.
	want := NewArray(NewInt(5), NewInt(1), NewInt(2))
	if v, _ := g.Get("scalar"); !v.Equal(want) {
		t.Errorf("scalar merge: want %s got %s", want, v)
	}
	// Array replaces array wholesale.
	if v, _ := g.Get("replaced"); !v.Equal(NewArray(NewInt(9))) {
		t.Errorf("array replace: got %s", v)
	}
	if v, _ := g.Get("kept"); !v.Equal(NewCharacter("keep")) {
		t.Errorf("untouched variable changed: got %s", v)
	}
	if v, ok := g.Get("added"); !ok || !v.Equal(NewLogical(true)) {
		t.Errorf("patch-only variable missing: got %s ok=%v", v, ok)
	}
}

func TestGroup_applyPatchDerivedTypeUnion(t *testing.T) {
	g := NewGroup()
	g.Set("cfg", NewDerivedType(map[string]Value{
		"a": NewInt(1),
		"b": NewInt(2),
	}))
	patch := NewGroup()
	patch.Set("cfg", NewDerivedType(map[string]Value{
		"b": NewInt(20),
		"c": NewInt(3),
	}))
	g.ApplyPatch(patch)

	v, _ := g.Get("cfg")
	fields, err := v.AsDerivedType()
	if err != nil {
		t.Fatal(err)
	}
	for name, want := range map[string]int64{"a": 1, "b": 20, "c": 3} {
		got, err := fields[name].AsInt()
		if err != nil || got != want {
			t.Errorf("field %s: want %d got %d err=%v", name, want, got, err)
		}
	}
}

func TestGroup_mergeStrategies(t *testing.T) {
	base := func() *Group {
		g := NewGroup()
		g.Set("x", NewInt(1))
		g.Set("arr", NewArray(NewInt(1), NewInt(2)))
		return g
	}
	other := NewGroup()
	other.Set("x", NewInt(9))
	other.Set("arr", NewArray(NewInt(3)))
	other.Set("y", NewInt(7))

	g := base()
	g.MergeWith(other, MergeReplace)
	if v, _ := g.Get("x"); !v.Equal(NewInt(9)) {
		t.Errorf("Replace: x=%s", uvs(v))
	}
	if v, _ := g.Get("arr"); !v.Equal(NewArray(NewInt(3))) {
		t.Errorf("Replace: arr=%s", uvs(v))
	}

	g = base()
	g.MergeWith(other, MergeAppend)
	if v, _ := g.Get("arr"); !v.Equal(NewArray(NewInt(1), NewInt(2), NewInt(3))) {
		t.Errorf("Append: arr=%s", uvs(v))
	}
	if v, _ := g.Get("x"); !v.Equal(NewArray(NewInt(1), NewInt(9))) {
		t.Errorf("Append: scalars should combine into an array, got %s", uvs(v))
	}

	g = base()
	g.MergeWith(other, MergeSkipExisting)
	if v, _ := g.Get("x"); !v.Equal(NewInt(1)) {
		t.Errorf("SkipExisting: x=%s", uvs(v))
	}
	if v, ok := g.Get("y"); !ok || !v.Equal(NewInt(7)) {
		t.Errorf("SkipExisting: new variable missing, got %s ok=%v", uvs(v), ok)
	}
}

func TestGroup_diff(t *testing.T) {
	g := NewGroup()
	g.Set("same", NewInt(1))
	g.Set("changed", NewInt(2))

	other := NewGroup()
	other.Set("same", NewInt(1))
	other.Set("changed", NewInt(3))
	other.Set("new", NewCharacter("n"))

	patch := g.Diff(other)
	if patch.Has("same") {
		t.Error("Diff included an unchanged variable")
	}
	if v, ok := patch.Get("changed"); !ok || !v.Equal(NewInt(3)) {
		t.Errorf("Diff changed: got %s ok=%v", uvs(v), ok)
	}
	if !patch.Has("new") {
		t.Error("Diff dropped a new variable")
	}

	// Applying the diff reproduces other's variables.
	g.ApplyPatch(patch)
	for _, name := range other.Names() {
		ov, _ := other.Get(name)
		gv, _ := g.Get(name)
		if !gv.Equal(ov) {
			t.Errorf("after patch, %s: want %s got %s", name, uvs(ov), uvs(gv))
		}
	}
}

func TestGroup_validate(t *testing.T) {
	g := NewGroup()
	g.Set("ok", NewArray(NewInt(1), NewNull(), NewInt(3)))
	if err := g.Validate("grp"); err != nil {
		t.Errorf("homogeneous array with nulls failed: %v", err)
	}

	g.Set("mixed", NewArray(NewInt(1), NewCharacter("x")))
	if err := g.Validate("grp"); err == nil {
		t.Error("mixed-kind array passed validation")
	} else if !strings.Contains(err.Error(), "mixed") {
		t.Errorf("error does not name the variable: %v", err)
	}
	g.Remove("mixed")

	g.Set("shape", NewMultiArray(
		[]Value{NewInt(1), NewInt(2), NewInt(3)},
		[]int{2, 2}, nil))
	if err := g.Validate("grp"); err == nil {
		t.Error("extent mismatch passed validation")
	}
}

func TestGroup_textRendering(t *testing.T) {
	opts := DefaultWriteOptions()

	g := NewGroup()
	g.Set("n", NewInt(42))
	g.SetWithComment("x", NewReal(2.5), "meters")
	g.Set("arr", NewArray(NewInt(1), NewInt(2), NewInt(3)))
	g.Set("single", NewArray(NewCharacter("a")))
	g.Set("offset", NewArray(NewInt(7), NewInt(8)))
	g.SetStartIndices("offset", []int{0})

	got := g.text(opts)
	want := "    n = 42\n" +
		"    x = 2.5  ! meters\n" +
		"    arr(1:3) = 1, 2, 3\n" +
		"    single(1) = 'a'\n" +
		"    offset(0:1) = 7, 8\n"
	if got != want {
		t.Errorf("group text:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestGroup_textDerivedType(t *testing.T) {
	g := NewGroup()
	g.Set("box", NewDerivedType(map[string]Value{
		"width":  NewInt(3),
		"height": NewInt(4),
	}))
	got := g.text(DefaultWriteOptions())
	want := "    box%height = 4\n    box%width = 3\n"
	if got != want {
		t.Errorf("derived type text:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestGroup_textOptions(t *testing.T) {
	g := NewGroup()
	g.Set("beta", NewInt(2))
	g.Set("alpha", NewLogical(true))

	opts := DefaultWriteOptions()
	opts.Uppercase = true
	opts.SortVariables = true
	opts.EndComma = true
	got := g.text(opts)
	want := "    ALPHA = .TRUE.,\n    BETA = 2,\n"
	if got != want {
		t.Errorf("options text:\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestGroup_arrayWrapping(t *testing.T) {
	g := NewGroup()
	items := make([]Value, 20)
	for i := range items {
		items[i] = NewInt(int64(1000 + i))
	}
	g.Set("long", NewArray(items...))

	opts := DefaultWriteOptions()
	opts.ColumnWidth = 40
	lines := strings.Split(strings.TrimRight(g.text(opts), "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %d line(s)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "    long(1:20) = 1000, ") {
		t.Errorf("header line wrong: %q", lines[0])
	}
	header := "    long(1:20) = "
	for i, line := range lines[1:] {
		if !strings.HasPrefix(line, strings.Repeat(" ", len(header)-4)) {
			t.Errorf("continuation %d not aligned: %q", i, line)
		}
	}
}

// uvs is a shorthand for value display in failure messages.
func uvs(v Value) string { return v.String() }
