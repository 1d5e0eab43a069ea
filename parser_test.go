package nml

import (
	"embed"
	"errors"
	"io/fs"
	"strings"
	"testing"
)

//go:embed testdata
var testdatadir embed.FS

func TestData_valid(t *testing.T) {
	entries, err := fs.ReadDir(testdatadir, "testdata")
	if err != nil || len(entries) == 0 {
		t.Fatal(err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "valid_") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			src, err := fs.ReadFile(testdatadir, "testdata/"+name)
			if err != nil {
				t.Fatal(err)
			}
			doc, err := Parse(string(src))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if doc.Len() == 0 {
				t.Fatal("no groups parsed")
			}
			// Canonical output must be stable: rendering, reparsing and
			// rendering again yields the same text.
			canon := doc.String()
			doc2, err := Parse(canon)
			if err != nil {
				t.Fatalf("reparse canonical output: %v\n%s", err, canon)
			}
			if again := doc2.String(); again != canon {
				t.Errorf("canonical form not stable:\nfirst:\n%s\nsecond:\n%s", canon, again)
			}
		})
	}
}

func TestData_invalid(t *testing.T) {
	entries, err := fs.ReadDir(testdatadir, "testdata")
	if err != nil || len(entries) == 0 {
		t.Fatal(err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "invalid_") {
			continue
		}
		t.Run(name, func(t *testing.T) {
			src, err := fs.ReadFile(testdatadir, "testdata/"+name)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Parse(string(src)); err == nil {
				t.Error("parse succeeded on invalid input")
			}
		})
	}
}

func TestParser_groupsAndScalars(t *testing.T) {
	doc, err := Parse(`
&first
    n = 3
    x = 1.5d0
    ok = .true.
    name = 'a ''quoted'' word'
/
&second
    m = -2
/`)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Names(); len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("group names: %v", got)
	}

	g, _ := doc.Group("first")
	if n, _ := g.Int("n"); n != 3 {
		t.Errorf("n: %d", n)
	}
	if x, _ := g.Real("x"); x != 1.5 {
		t.Errorf("x: %g", x)
	}
	if ok, _ := g.Bool("ok"); !ok {
		t.Error("ok: false")
	}
	if s, _ := g.Str("name"); s != "a 'quoted' word" {
		t.Errorf("name: %q", s)
	}
	g2, _ := doc.Group("second")
	if m, _ := g2.Int("m"); m != -2 {
		t.Errorf("m: %d", m)
	}
}

func TestParser_valueLists(t *testing.T) {
	doc, err := Parse(`&g
    plain = 1, 2, 3
    rep = 3*2
    repnull = 2*
    holes = 1, , 3
    trailing = 7,
    mixedrep = 1, 3*2, 3
/`)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := doc.Group("g")

	check := func(name string, want Value) {
		t.Helper()
		v, ok := g.Get(name)
		if !ok || !v.Equal(want) {
			t.Errorf("%s: want %s got %s", name, want, v)
		}
	}
	check("plain", NewArray(NewInt(1), NewInt(2), NewInt(3)))
	check("rep", NewArray(NewInt(2), NewInt(2), NewInt(2)))
	check("repnull", NewArray(NewNull(), NewNull()))
	check("holes", NewArray(NewInt(1), NewNull(), NewInt(3)))
	check("trailing", NewArray(NewInt(7), NewNull()))
	check("mixedrep", NewArray(NewInt(1), NewInt(2), NewInt(2), NewInt(2), NewInt(3)))
}

func TestParser_complexValues(t *testing.T) {
	doc, err := Parse("&g z = (1.5, -2.5)\n zi = (1, 2) /")
	if err != nil {
		t.Fatal(err)
	}
	g, _ := doc.Group("g")
	z, _ := g.Get("z")
	c, err := z.AsComplex()
	if err != nil || c != complex(1.5, -2.5) {
		t.Errorf("z: got %v err=%v", c, err)
	}
	zi, _ := g.Get("zi")
	c, err = zi.AsComplex()
	if err != nil || c != complex(1, 2) {
		t.Errorf("zi: got %v err=%v", c, err)
	}
}

func TestParser_indexSpecsSkipped(t *testing.T) {
	doc, err := Parse("&g arr(1:5:2) = 1, 2, 3 \n one(4) = 9 /")
	if err != nil {
		t.Fatal(err)
	}
	g, _ := doc.Group("g")
	if v, _ := g.Get("arr"); !v.Equal(NewArray(NewInt(1), NewInt(2), NewInt(3))) {
		t.Errorf("arr: %s", v)
	}
	if n, _ := g.Int("one"); n != 9 {
		t.Errorf("one: %d", n)
	}
}

func TestParser_derivedTypePaths(t *testing.T) {
	doc, err := Parse(`&shapes
    box%width = 3
    box%height = 4.5
    pts(1)%x = 0.0
    pts(2)%x = 2.0
    pts(2)%y = 1.0
/`)
	if err != nil {
		t.Fatal(err)
	}
	g, _ := doc.Group("shapes")

	box, _ := g.Get("box")
	fields, err := box.AsDerivedType()
	if err != nil {
		t.Fatal(err)
	}
	if w, _ := fields["width"].AsInt(); w != 3 {
		t.Errorf("box%%width: %d", w)
	}
	if h, _ := fields["height"].AsReal(); h != 4.5 {
		t.Errorf("box%%height: %g", h)
	}

	pts, _ := g.Get("pts")
	elems, err := pts.AsDerivedTypeArray()
	if err != nil {
		t.Fatal(err)
	}
	if len(elems) != 2 {
		t.Fatalf("pts: %d elements", len(elems))
	}
	if y, _ := elems[1]["y"].AsReal(); y != 1.0 {
		t.Errorf("pts(2)%%y: %g", y)
	}
}

func TestParser_dollarGroups(t *testing.T) {
	doc, err := Parse("$opts\n mode = 2\n$end\n$more\n k = 1\n$")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Len() != 2 {
		t.Fatalf("groups: %v", doc.Names())
	}
	g, _ := doc.Group("opts")
	if mode, _ := g.Int("mode"); mode != 2 {
		t.Errorf("mode: %d", mode)
	}
}

func TestParser_bareStrings(t *testing.T) {
	doc, err := Parse("&g word = hello /")
	if err != nil {
		t.Fatal(err)
	}
	g, _ := doc.Group("g")
	if s, _ := g.Str("word"); s != "hello" {
		t.Errorf("word: %q", s)
	}
}

func TestParser_contentOutsideGroupsIgnored(t *testing.T) {
	doc, err := Parse("stray text 123\n&g x = 1 /\nmore trailing junk\n")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Len() != 1 || !doc.Has("g") {
		t.Errorf("groups: %v", doc.Names())
	}
}

func TestParser_errors(t *testing.T) {
	for i, tc := range []struct {
		in      string
		wantEOF bool
	}{
		{"&g x = 1", true},
		{"& = 1 /", false},
		{"&g x 1 /", false},
		{"&g x = (1, /", false},
		{"&g x = (1 2) /", false},
	} {
		_, err := Parse(tc.in)
		if err == nil {
			t.Errorf("case %d %q: want error", i, tc.in)
			continue
		}
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("case %d %q: want *SyntaxError, got %T", i, tc.in, err)
		}
		if tc.wantEOF && !errors.Is(err, ErrUnexpectedEOF) {
			t.Errorf("case %d %q: want ErrUnexpectedEOF, got %v", i, tc.in, err)
		}
	}
}
