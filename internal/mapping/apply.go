package mapping

import (
	"strings"

	"github.com/cockroachdb/errors"

	"slicetrait/descriptor"
	"slicetrait/internal/logging"
	"slicetrait/trait"
)

// Apply registers every entry of mf into reg, after adding the axes the file
// declares. Mappings carry source plus the entry label as their Source.
// Apply stops at the first entry the registry rejects; entries before it
// stay registered.
func Apply(mf *MappingFile, reg *trait.Registry, source string) error {
	for _, a := range mf.Axes {
		if err := reg.AddAxis(trait.Axis(a)); err != nil {
			return errors.Wrapf(err, "%s: axes", source)
		}
	}

	count := 0

	for i := range mf.Traits {
		label := Label(i)

		ms, err := mf.Traits[i].Mappings(source + ":" + label)
		if err != nil {
			return errors.Wrapf(err, "%s: %s", source, label)
		}

		for _, m := range ms {
			if err := reg.Register(m); err != nil {
				return errors.Wrapf(err, "%s: %s", source, label)
			}

			count++
		}
	}

	logging.L().Infow("mapping file applied",
		logging.FieldFile, source,
		logging.FieldCount, count,
	)

	return nil
}

// LoadInto loads, validates and applies each file in order. Validation
// uses the axes reg knows; a file with error diagnostics is not applied.
func LoadInto(reg *trait.Registry, paths ...string) error {
	for _, path := range paths {
		mf, err := LoadFile(path)
		if err != nil {
			return err
		}

		diags := Validate(mf, reg.Axes()...)
		for _, w := range diags.Warnings {
			logging.L().Warnw(w.Message,
				logging.FieldFile, path,
				"entry", w.Entry,
				"code", w.Code,
			)
		}

		if err := diags.Error(); err != nil {
			return errors.Wrapf(err, "%s", path)
		}

		if err := Apply(mf, reg, path); err != nil {
			return err
		}
	}

	return nil
}

// FromMappings builds a mapping file holding ms, one entry per mapping.
// Mappings with a computed result other than forwarding cannot be written
// as YAML and are skipped; the second result counts them.
func FromMappings(ms []trait.Mapping) (*MappingFile, int) {
	mf := &MappingFile{Version: CurrentVersion}
	skipped := 0

	for _, m := range ms {
		e := TraitEntry{
			Axis:      StringOrArray{string(m.Axis)},
			Container: m.Container.String(),
		}

		switch {
		case m.Forward != "":
			e.Forward = m.Forward
		case m.Result != nil:
			e.Result = m.Result.String()
		default:
			skipped++
			continue
		}

		for _, v := range m.Params {
			if isPackParam(m, v) {
				v += "..."
			}

			e.Params = append(e.Params, v)
		}

		if m.Index.IsStatic() {
			e.Index = StaticIndex(m.Index.Value)
		}

		mf.Traits = append(mf.Traits, e)
	}

	return mf, skipped
}

func isPackParam(m trait.Mapping, name string) bool {
	found := false

	descriptor.Walk(m.Container, func(d descriptor.Descriptor) {
		if v, ok := d.(descriptor.Var); ok && v.Variadic && v.Name == name {
			found = true
		}
	})

	return found
}

func trimPack(p string) string {
	return strings.TrimSuffix(strings.TrimSpace(p), "...")
}
