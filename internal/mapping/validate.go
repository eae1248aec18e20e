package mapping

import (
	"fmt"
	"slices"

	"slicetrait/descriptor"
	"slicetrait/internal/common"
	"slicetrait/internal/diagnostic"
	"slicetrait/internal/match"
	"slicetrait/trait"
)

const maxSuggestions = 3

// Diagnostic codes reported by Validate and CheckContainers.
const (
	CodeNilFile            = "mapping_is_nil"
	CodeUnsupportedVersion = "unsupported_version"
	CodeNoTraits           = "no_traits"
	CodeInvalidAxisDecl    = "invalid_axis_declaration"
	CodeMissingAxis        = "missing_axis"
	CodeUnknownAxis        = "unknown_axis"
	CodeDuplicateAxis      = "duplicate_axis"
	CodeDuplicateParam     = "duplicate_param"
	CodeUnusedParam        = "unused_param"
	CodeMissingContainer   = "missing_container"
	CodeInvalidContainer   = "invalid_container"
	CodeContainerNotNamed  = "container_not_named"
	CodeMissingResult      = "missing_result"
	CodeResultAndForward   = "result_and_forward"
	CodeInvalidResult      = "invalid_result"
	CodeUnboundResultVar   = "unbound_result_var"
	CodeUnknownForward     = "unknown_forward_param"
	CodeExplicitInvalid    = "explicit_invalid"
	CodeInvalidIndex       = "invalid_index"
	CodeDuplicateEntry     = "duplicate_entry"
	CodeAmbiguousEntries   = "ambiguous_entries"
	CodeContainerNotFound  = "container_not_found"
	CodeArityMismatch      = "arity_mismatch"
)

// Validate checks a mapping file without registering anything. Axes lists
// the axes entries may use besides the ones the file declares; when empty,
// the built-in rowslice and quatslice axes are assumed.
func Validate(mf *MappingFile, axes ...trait.Axis) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError(CodeNilFile, "mapping file is nil", "", "")
		return res
	}

	if mf.Version != "" && mf.Version != CurrentVersion {
		res.AddError(CodeUnsupportedVersion,
			fmt.Sprintf("unsupported version %q (expected %q)", mf.Version, CurrentVersion), "", "version")
	}

	known := knownAxes(res, mf, axes)

	if len(mf.Traits) == 0 {
		res.AddWarning(CodeNoTraits, "file has no trait entries", "", "traits")
	}

	var built []builtEntry

	for i := range mf.Traits {
		e := &mf.Traits[i]
		label := Label(i)

		if !validateEntry(res, label, e, known) {
			continue
		}

		ms, err := e.Mappings(label)
		if err != nil {
			// validateEntry checked every input Mappings uses.
			res.AddError(CodeInvalidContainer, err.Error(), label, "container")
			continue
		}

		for _, m := range ms {
			built = append(built, builtEntry{label: label, mapping: m})
		}
	}

	checkOverlaps(res, built)

	return res
}

type builtEntry struct {
	label   string
	mapping trait.Mapping
}

func knownAxes(res *diagnostic.Diagnostics, mf *MappingFile, axes []trait.Axis) []string {
	if len(axes) == 0 {
		axes = []trait.Axis{trait.RowSlice, trait.QuatSlice}
	}

	known := make([]string, 0, len(axes)+len(mf.Axes))
	for _, a := range axes {
		known = append(known, string(trait.NormalizeAxis(string(a))))
	}

	for _, a := range mf.Axes {
		n := string(trait.NormalizeAxis(a))
		if n == "" {
			res.AddError(CodeInvalidAxisDecl, "empty axis name", "", "axes")
			continue
		}

		if !slices.Contains(known, n) {
			known = append(known, n)
		}
	}

	return known
}

// validateEntry reports problems with a single entry and returns whether it
// can be turned into mappings.
func validateEntry(res *diagnostic.Diagnostics, label string, e *TraitEntry, known []string) bool {
	before := len(res.Errors)

	validateAxes(res, label, e, known)
	validateParams(res, label, e)

	if _, err := e.Index.Index(); err != nil {
		res.AddError(CodeInvalidIndex,
			fmt.Sprintf("index %q must be \"*\" or a non-negative integer", e.Index), label, "index")
	}

	container, ok := validateContainer(res, label, e)
	if ok {
		validateResult(res, label, e, container)
	}

	return len(res.Errors) == before
}

func validateAxes(res *diagnostic.Diagnostics, label string, e *TraitEntry, known []string) {
	if e.Axis.IsEmpty() {
		res.AddError(CodeMissingAxis, "entry has no axis", label, "axis", known...)
		return
	}

	seen := map[trait.Axis]struct{}{}

	for _, name := range e.Axis {
		axis := trait.NormalizeAxis(name)

		if !slices.Contains(known, string(axis)) {
			res.AddError(CodeUnknownAxis, fmt.Sprintf("unknown axis %q", name), label, "axis",
				match.Suggest(name, known, maxSuggestions)...)

			continue
		}

		if _, dup := seen[axis]; dup {
			res.AddWarning(CodeDuplicateAxis, fmt.Sprintf("axis %q listed twice", name), label, "axis")
			continue
		}

		seen[axis] = struct{}{}
	}
}

func validateParams(res *diagnostic.Diagnostics, label string, e *TraitEntry) {
	seen := map[string]struct{}{}

	for _, p := range paramList(e) {
		if _, dup := seen[p]; dup {
			res.AddError(CodeDuplicateParam, fmt.Sprintf("parameter %s declared twice", p), label, "params")
		}

		seen[p] = struct{}{}
	}
}

func validateContainer(res *diagnostic.Diagnostics, label string, e *TraitEntry) (descriptor.Descriptor, bool) {
	if e.Container == "" {
		res.AddError(CodeMissingContainer, "entry has no container", label, "container")
		return nil, false
	}

	c, err := descriptor.ParsePattern(e.Container, e.Params...)
	if err != nil {
		res.AddError(CodeInvalidContainer, err.Error(), label, e.Container)
		return nil, false
	}

	if _, ok := c.(descriptor.Con); !ok {
		res.AddError(CodeContainerNotNamed,
			"container pattern must be a named type without qualifiers", label, e.Container)

		return nil, false
	}

	vars := descriptor.Vars(c)
	for _, p := range paramList(e) {
		if !slices.Contains(vars, p) {
			res.AddWarning(CodeUnusedParam,
				fmt.Sprintf("parameter %s does not occur in the container pattern", p), label, "params")
		}
	}

	return c, true
}

func validateResult(res *diagnostic.Diagnostics, label string, e *TraitEntry, container descriptor.Descriptor) {
	bound := descriptor.Vars(container)

	switch {
	case e.Result != "" && e.Forward != "":
		res.AddError(CodeResultAndForward, "entry sets both result and forward", label, "result")
		return

	case e.Result == "" && e.Forward == "":
		res.AddError(CodeMissingResult, "entry needs a result or a forward parameter", label, "result")
		return

	case e.Forward != "":
		if !slices.Contains(bound, e.Forward) {
			res.AddError(CodeUnknownForward,
				fmt.Sprintf("forward parameter %s is not bound by %s", e.Forward, container),
				label, "forward", match.Suggest(e.Forward, bound, maxSuggestions)...)
		}

		return
	}

	r, err := descriptor.ParsePattern(e.Result, e.Params...)
	if err != nil {
		res.AddError(CodeInvalidResult, err.Error(), label, e.Result)
		return
	}

	for _, v := range descriptor.Vars(r) {
		if !slices.Contains(bound, v) {
			res.AddError(CodeUnboundResultVar,
				fmt.Sprintf("result variable %s is not bound by %s", v, container), label, e.Result)
		}
	}

	if descriptor.IsInvalid(r) {
		res.AddInfo(CodeExplicitInvalid, "entry explicitly maps to INVALID_TYPE", label, e.Container)
	}
}

// checkOverlaps applies the registry's ambiguity rules across entries so a
// file that would be rejected by Apply fails validation too.
func checkOverlaps(res *diagnostic.Diagnostics, built []builtEntry) {
	for j := range built {
		for i := range j {
			a, b := &built[i], &built[j]

			if a.mapping.Axis != b.mapping.Axis || a.mapping.Index != b.mapping.Index {
				continue
			}

			ac, bc := a.mapping.Container, b.mapping.Container

			switch {
			case match.Equivalent(ac, bc):
				res.AddError(CodeDuplicateEntry,
					fmt.Sprintf("duplicates %s on axis %s", a.label, a.mapping.Axis), b.label, bc.String())
			case !match.Unifiable(ac, bc), match.MoreSpecific(ac, bc), match.MoreSpecific(bc, ac):
				continue
			default:
				res.AddError(CodeAmbiguousEntries,
					fmt.Sprintf("overlaps %s (%s) on axis %s and neither is more specific", a.label, ac, a.mapping.Axis),
					b.label, bc.String())
			}
		}
	}
}

func paramList(e *TraitEntry) []string {
	return common.Map(e.Params, trimPack)
}
