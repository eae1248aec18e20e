package gen

import (
	"bytes"
	"go/format"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"slicetrait/internal/logging"
	"slicetrait/internal/mapping"
	"slicetrait/internal/match"
	"slicetrait/trait"
)

// DefaultTraitImport is the import path of the trait package.
const DefaultTraitImport = "slicetrait/trait"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// Filename overrides the generated file name. By default it is derived
	// from the mapping file name.
	Filename string
	// TraitImport is the import path of the trait package.
	TraitImport string
	// Init adds an init function registering into trait.Default.
	Init bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName: "traits",
		OutputDir:   "./generated",
		TraitImport: DefaultTraitImport,
	}
}

// Generator generates Go registration code from mapping files.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.TraitImport == "" {
		config.TraitImport = DefaultTraitImport
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "grid_traits.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// planned pairs a mapping with the entry it was built from.
type planned struct {
	entry   *mapping.TraitEntry
	mapping trait.Mapping
}

// Generate generates the registration file for mf. Source names the mapping
// file; it is recorded on every generated mapping and in the header. The
// file must pass mapping.Validate.
func (g *Generator) Generate(mf *mapping.MappingFile, source string) (*GeneratedFile, error) {
	if mf == nil {
		return nil, errors.New("mapping file is nil")
	}

	if !token.IsIdentifier(g.config.PackageName) {
		return nil, errors.WithHint(
			errors.Newf("invalid package name %q", g.config.PackageName),
			"use a plain Go identifier such as \"traits\"")
	}

	if diags := mapping.Validate(mf); !diags.IsValid() {
		return nil, errors.Wrapf(diags.Error(), "%s", source)
	}

	entries, err := plan(mf, filepath.Base(source))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", source)
	}

	order, err := topoSort(len(entries), func(i int) []int {
		return refinedBy(entries, i)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "%s: ordering mappings", source)
	}

	data := &templateData{
		PackageName: g.config.PackageName,
		Source:      filepath.Base(source),
		TraitImport: g.config.TraitImport,
		Init:        g.config.Init,
	}

	for _, a := range mf.Axes {
		data.Axes = append(data.Axes, axisExpr(trait.NormalizeAxis(a)))
	}

	for _, i := range order {
		data.Mappings = append(data.Mappings, mappingData{
			Comment: entries[i].mapping.String(),
			Expr:    mappingExpr(entries[i]),
		})
	}

	filename := g.filename(source)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, "executing template for %s", source)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		_ = writeDebugUnformatted(g.config.OutputDir, filename, buf.Bytes())
		return nil, errors.Wrapf(err, "formatting %s", filename)
	}

	logging.L().Debugw("generated registration code",
		logging.FieldFile, filename,
		logging.FieldSource, source,
		logging.FieldCount, len(entries),
	)

	return &GeneratedFile{Filename: filename, Content: formatted}, nil
}

func (g *Generator) filename(source string) string {
	if g.config.Filename != "" {
		return g.config.Filename
	}

	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(base)

	if base == "" {
		base = "mapping"
	}

	return base + "_traits.go"
}

// plan expands every entry to its per-axis mappings.
func plan(mf *mapping.MappingFile, source string) ([]planned, error) {
	var out []planned

	for i := range mf.Traits {
		e := &mf.Traits[i]

		ms, err := e.Mappings(source + ":" + mapping.Label(i))
		if err != nil {
			return nil, errors.Wrap(err, mapping.Label(i))
		}

		for _, m := range ms {
			out = append(out, planned{entry: e, mapping: m})
		}
	}

	return out, nil
}

// refinedBy returns the mappings entry i specialises: same axis, same
// index, strictly more general container pattern. Those are emitted first.
func refinedBy(entries []planned, i int) []int {
	var deps []int

	mi := entries[i].mapping

	for j, other := range entries {
		mj := other.mapping
		if j == i || mj.Axis != mi.Axis || mj.Index != mi.Index {
			continue
		}

		if match.MoreSpecific(mi.Container, mj.Container) {
			deps = append(deps, j)
		}
	}

	return deps
}
