// nml reads, converts, patches, merges and compares Fortran namelist
// files.
//
// Usage:
//
//	nml fmt [--to json|yaml] file.nml
//	nml patch --set 'group.var=value' [--in-place] file.nml
//	nml get file.nml group [variable]
//	nml diff base.nml other.nml
//	nml merge [--strategy append] a.nml b.nml [c.nml ...]
//	nml check file.nml
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/schismgo/nml"
)

type cli struct {
	Verbose bool   `help:"Enable debug logging." short:"v"`
	Profile string `help:"Write a profile to ./prof." enum:",cpu,mem,trace" default:""`

	Fmt   fmtCmd   `cmd:"" help:"Parse a namelist and print it canonically or as JSON/YAML."`
	Patch patchCmd `cmd:"" help:"Rewrite a namelist, changing only the given values."`
	Get   getCmd   `cmd:"" help:"Print a group or a single variable."`
	Diff  diffCmd  `cmd:"" help:"Print the minimal patch turning one namelist into another."`
	Merge mergeCmd `cmd:"" help:"Merge several namelists into one document."`
	Check checkCmd `cmd:"" help:"Validate a namelist's internal consistency."`
}

func main() {
	var c cli
	ktx := kong.Parse(&c,
		kong.Name("nml"),
		kong.Description("Fortran namelist toolkit."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))

	if stop := startProfile(c.Profile); stop != nil {
		defer stop()
	}

	if err := ktx.Run(); err != nil {
		slog.Error("command failed", "err", err)
		ktx.Exit(1)
	}
}

func startProfile(mode string) func() {
	var p interface{ Stop() }
	switch mode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("prof"), profile.Quiet)
	case "mem":
		p = profile.Start(profile.MemProfile, profile.ProfilePath("prof"), profile.Quiet)
	case "trace":
		p = profile.Start(profile.TraceProfile, profile.ProfilePath("prof"), profile.Quiet)
	default:
		return nil
	}
	return p.Stop
}

// readDocument parses path, or stdin when path is "-".
func readDocument(path string) (*nml.Namelist, error) {
	if path == "-" {
		return nml.ParseReader(os.Stdin)
	}
	return nml.ParseFile(path)
}

type writeFlags struct {
	SortGroups    bool   `help:"Sort groups lexically."`
	SortVariables bool   `help:"Sort variables lexically."`
	Uppercase     bool   `help:"Render names and logicals in upper case."`
	EndComma      bool   `help:"Append a comma to every assignment."`
	Indent        string `help:"Assignment indentation." default:"    "`
	ColumnWidth   int    `help:"Soft wrap column for arrays (0 disables)." default:"72"`
}

func (w writeFlags) options() nml.WriteOptions {
	opts := nml.DefaultWriteOptions()
	opts.SortGroups = w.SortGroups
	opts.SortVariables = w.SortVariables
	opts.Uppercase = w.Uppercase
	opts.EndComma = w.EndComma
	opts.Indent = w.Indent
	opts.ColumnWidth = w.ColumnWidth
	return opts
}

type fmtCmd struct {
	writeFlags
	To   string `help:"Output format." enum:"native,json,yaml" default:"native"`
	File string `arg:"" help:"Input file, or '-' for stdin."`
}

func (c *fmtCmd) Run() error {
	doc, err := readDocument(c.File)
	if err != nil {
		return err
	}
	slog.Debug("parsed document", "file", c.File, "groups", doc.Len())

	switch c.To {
	case "json":
		b, err := doc.EncodeJSON()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case "yaml":
		b, err := doc.EncodeYAML()
		if err != nil {
			return err
		}
		fmt.Print(string(b))
	default:
		return nml.Write(os.Stdout, doc, c.options())
	}
	return nil
}

type patchCmd struct {
	Set     []string `help:"Assignment to apply, as 'group.variable=value'. Repeatable." short:"s"`
	With    string   `help:"Namelist file whose values form the patch." type:"existingfile"`
	Output  string   `help:"Output file (default stdout)." short:"o"`
	InPlace bool     `help:"Rewrite the input file." short:"i"`
	Force   bool     `help:"Overwrite an existing output file." short:"f"`
	File    string   `arg:"" help:"Input file." type:"existingfile"`
}

func (c *patchCmd) Run() error {
	patch := nml.NewNamelist()
	if c.With != "" {
		p, err := nml.ParseFile(c.With)
		if err != nil {
			return err
		}
		patch = p
	}
	for _, set := range c.Set {
		if err := applySetExpr(patch, set); err != nil {
			return err
		}
	}

	if c.InPlace {
		_, err := nml.PatchFile(c.File, patch, c.File, true)
		return err
	}
	if c.Output != "" {
		_, err := nml.PatchFile(c.File, patch, c.Output, c.Force)
		return err
	}
	b, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	_, err = nml.PatchText(string(b), patch, os.Stdout)
	return err
}

// applySetExpr parses one "group.variable=value" expression into patch.
func applySetExpr(patch *nml.Namelist, expr string) error {
	target, literal, ok := strings.Cut(expr, "=")
	if !ok {
		return fmt.Errorf("set %q: expected group.variable=value", expr)
	}
	groupName, varName, ok := strings.Cut(strings.TrimSpace(target), ".")
	if !ok {
		return fmt.Errorf("set %q: expected group.variable=value", expr)
	}
	v, err := nml.ParseValue(strings.TrimSpace(literal))
	if err != nil {
		return fmt.Errorf("set %q: %w", expr, err)
	}
	g, found := patch.Group(groupName)
	if !found {
		g = patch.CreateGroup(groupName)
	}
	g.Set(varName, v)
	return nil
}

type getCmd struct {
	File     string `arg:"" help:"Input file, or '-' for stdin."`
	Group    string `arg:"" help:"Group name."`
	Variable string `arg:"" optional:"" help:"Variable name; omit to print the whole group."`
}

func (c *getCmd) Run() error {
	doc, err := readDocument(c.File)
	if err != nil {
		return err
	}
	g, ok := doc.Group(c.Group)
	if !ok {
		return fmt.Errorf("group %q not found", c.Group)
	}
	if c.Variable == "" {
		fmt.Print(g.String())
		return nil
	}
	v, ok := g.Get(c.Variable)
	if !ok {
		return fmt.Errorf("variable %q not found in group %q", c.Variable, c.Group)
	}
	fmt.Println(v.String())
	return nil
}

type diffCmd struct {
	writeFlags
	Base  string `arg:"" help:"Base file." type:"existingfile"`
	Other string `arg:"" help:"File to compare against the base." type:"existingfile"`
}

func (c *diffCmd) Run() error {
	base, err := nml.ParseFile(c.Base)
	if err != nil {
		return err
	}
	other, err := nml.ParseFile(c.Other)
	if err != nil {
		return err
	}
	patch := base.Diff(other)
	if patch.Len() == 0 {
		slog.Debug("documents are equivalent")
		return nil
	}
	return nml.Write(os.Stdout, patch, c.options())
}

type mergeCmd struct {
	writeFlags
	Strategy string   `help:"Merge strategy." enum:"replace,update,append,skip-existing" default:"update"`
	Files    []string `arg:"" help:"Files to merge, first to last." type:"existingfile"`
}

func (c *mergeCmd) Run() error {
	var strategy nml.MergeStrategy
	switch c.Strategy {
	case "replace":
		strategy = nml.MergeReplace
	case "append":
		strategy = nml.MergeAppend
	case "skip-existing":
		strategy = nml.MergeSkipExisting
	default:
		strategy = nml.MergeUpdate
	}

	out := nml.NewNamelist()
	for _, path := range c.Files {
		doc, err := nml.ParseFile(path)
		if err != nil {
			return err
		}
		slog.Debug("merging", "file", path, "groups", doc.Len(), "strategy", c.Strategy)
		out.MergeWith(doc, strategy)
	}
	return nml.Write(os.Stdout, out, c.options())
}

type checkCmd struct {
	File string `arg:"" help:"Input file, or '-' for stdin."`
}

func (c *checkCmd) Run() error {
	doc, err := readDocument(c.File)
	if err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	fmt.Printf("%s: ok (%d groups)\n", c.File, doc.Len())
	return nil
}
