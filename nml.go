// Package nml reads, writes, patches and merges Fortran namelist
// documents.
package nml

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// WriteOptions controls canonical rendering of a namelist document.
// The zero value left alone renders with no indentation and no column
// limit; use DefaultWriteOptions for the conventional layout.
type WriteOptions struct {
	// Force permits WriteFile to overwrite an existing file.
	Force bool

	// ColumnWidth is the soft wrap limit for array value lists.
	// Zero disables wrapping.
	ColumnWidth int

	// Indent prefixes every assignment line inside a group.
	Indent string

	// EndComma appends a trailing comma to each assignment.
	EndComma bool

	// Uppercase renders group and variable names in upper case.
	Uppercase bool

	// FloatPrecision fixes the number of digits after the decimal
	// point for real values. Zero selects the shortest exact form.
	FloatPrecision int

	// SortGroups and SortVariables render in lexical rather than
	// insertion order.
	SortGroups    bool
	SortVariables bool

	// DefaultStartIndex is the origin used when printing array index
	// headers for arrays without recorded start indices.
	DefaultStartIndex int
}

// DefaultWriteOptions returns the conventional layout: four-space
// indentation, 72-column wrap, one-based arrays.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		ColumnWidth:       72,
		Indent:            "    ",
		DefaultStartIndex: 1,
	}
}

func (o WriteOptions) formatOptions() FormatOptions {
	return FormatOptions{
		Uppercase:      o.Uppercase,
		FloatPrecision: o.FloatPrecision,
	}
}

// Parse reads a namelist document from text.
func Parse(text string) (*Namelist, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	return p.Parse()
}

// ParseReader reads a namelist document from r.
func ParseReader(r io.Reader) (*Namelist, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read namelist: %w", err)
	}
	return Parse(string(b))
}

// ParseFile reads a namelist document from the file at path.
func ParseFile(path string) (*Namelist, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read namelist %s: %w", path, err)
	}
	return Parse(string(b))
}

// Write renders n canonically to w.
func Write(w io.Writer, n *Namelist, opts WriteOptions) error {
	if _, err := io.WriteString(w, n.Text(opts)); err != nil {
		return fmt.Errorf("write namelist: %w", err)
	}
	return nil
}

// WriteFile renders n canonically to the file at path. An existing
// file is only overwritten when opts.Force is set.
func WriteFile(path string, n *Namelist, opts WriteOptions) error {
	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("write namelist %s: file exists", path)
		}
	}
	if err := os.WriteFile(path, []byte(n.Text(opts)), 0o644); err != nil {
		return fmt.Errorf("write namelist %s: %w", path, err)
	}
	return nil
}

// Patch applies patch to a parsed document: group by group, variable by
// variable, patch values win, and everything the original had that the
// patch does not mention survives. The original is not modified.
func Patch(original, patch *Namelist) *Namelist {
	out := NewNamelist()
	for _, name := range original.Names() {
		g, _ := original.Group(name)
		out.SetGroup(name, g.clone())
	}
	out.ApplyPatch(patch)
	return out
}

// PatchText rewrites the namelist document in src to w, substituting
// values named by patch while preserving the original's comments,
// whitespace and ordering byte for byte everywhere else. It returns the
// document the rewritten text describes.
func PatchText(src string, patch *Namelist, w io.Writer) (*Namelist, error) {
	return patchStream(src, patch, w)
}

// PatchFile applies a format-preserving patch to the file at inPath and
// writes the result to outPath. When outPath names an existing file the
// write is refused unless force is set; inPath and outPath may be the
// same file.
func PatchFile(inPath string, patch *Namelist, outPath string, force bool) (*Namelist, error) {
	b, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("read namelist %s: %w", inPath, err)
	}
	if outPath != inPath && !force {
		if _, err := os.Stat(outPath); err == nil {
			return nil, fmt.Errorf("write namelist %s: file exists", outPath)
		}
	}
	var sb strings.Builder
	doc, err := patchStream(string(b), patch, &sb)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outPath, []byte(sb.String()), 0o644); err != nil {
		return nil, fmt.Errorf("write namelist %s: %w", outPath, err)
	}
	return doc, nil
}
