package nml

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNamelist_toMap(t *testing.T) {
	doc, err := Parse(`&run
    steps = 10
    dt = 0.5
    flag = .false.
    tags = 'a', 'b'
    hole = 1, , 3
/`)
	if err != nil {
		t.Fatal(err)
	}
	m := doc.ToMap()
	run, ok := m["run"]
	if !ok {
		t.Fatalf("missing group: %v", m)
	}
	if run["steps"] != int64(10) {
		t.Errorf("steps: %#v", run["steps"])
	}
	if run["dt"] != 0.5 {
		t.Errorf("dt: %#v", run["dt"])
	}
	if run["flag"] != false {
		t.Errorf("flag: %#v", run["flag"])
	}
	tags, ok := run["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Errorf("tags: %#v", run["tags"])
	}
	hole := run["hole"].([]any)
	if hole[1] != nil {
		t.Errorf("null element: %#v", hole[1])
	}
}

func TestNamelist_encodeJSON(t *testing.T) {
	doc, err := Parse("&g n = 1\n z = (1.0, 2.0) /")
	if err != nil {
		t.Fatal(err)
	}
	b, err := doc.EncodeJSON()
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("output not valid json: %v\n%s", err, b)
	}
	if back["g"]["n"] != float64(1) {
		t.Errorf("n: %#v", back["g"]["n"])
	}
	z, ok := back["g"]["z"].([]any)
	if !ok || len(z) != 2 || z[0] != 1.0 || z[1] != 2.0 {
		t.Errorf("z: %#v", back["g"]["z"])
	}
}

func TestNamelist_encodeYAML(t *testing.T) {
	doc, err := Parse("&g name = 'x'\n n = 3 /")
	if err != nil {
		t.Fatal(err)
	}
	b, err := doc.EncodeYAML()
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	if !strings.Contains(out, "g:") || !strings.Contains(out, "n: 3") {
		t.Errorf("yaml output:\n%s", out)
	}
}

func TestValue_interfaceDerived(t *testing.T) {
	v := NewDerivedType(map[string]Value{"a": NewInt(1)})
	m, ok := v.Interface().(map[string]any)
	if !ok || m["a"] != int64(1) {
		t.Errorf("derived interface: %#v", v.Interface())
	}
}
