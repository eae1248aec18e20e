package mapping

import (
	"fmt"
	"strings"

	"slicetrait/descriptor"
	"slicetrait/internal/analyze"
	"slicetrait/internal/diagnostic"
	"slicetrait/internal/match"
)

// ResolveContainer resolves a container head name like:
// - "containers.Cube" (short)
// - "slicetrait/examples/containers.Cube" (full)
// - "Cube" (name only)
// against the loaded containers. Name-only lookups take the first match in
// sorted order.
func ResolveContainer(name string, set *analyze.ContainerSet) *analyze.ContainerInfo {
	if set == nil || name == "" {
		return nil
	}

	// C++ style namespaces resolve by name only.
	if strings.Contains(name, "::") || !strings.Contains(name, ".") {
		base := descriptor.BaseName(name)

		for _, c := range set.Sorted() {
			if c.ID.Name == base {
				return c
			}
		}

		return nil
	}

	lastDot := strings.LastIndex(name, ".")
	pkgStr, typeName := name[:lastDot], name[lastDot+1:]

	if pkgStr == "" || typeName == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if c := set.Get(analyze.TypeID{PkgPath: pkgStr, Name: typeName}); c != nil {
		return c
	}

	// 2) suffix match (for short forms like "containers.Cube")
	for _, c := range set.Sorted() {
		if c.ID.Name != typeName {
			continue
		}

		if c.ID.PkgPath == pkgStr || strings.HasSuffix(c.ID.PkgPath, "/"+pkgStr) {
			return c
		}
	}

	return nil
}

// CheckContainers warns about entries whose container does not name a
// loaded Go type, or names one with a different number of type parameters.
// Entries with unparsable containers are skipped; Validate reports them.
func CheckContainers(mf *MappingFile, set *analyze.ContainerSet) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil || set == nil {
		return res
	}

	var names []string
	for _, c := range set.Sorted() {
		names = append(names, c.ID.Name)
	}

	for i := range mf.Traits {
		e := &mf.Traits[i]

		d, err := descriptor.ParsePattern(e.Container, e.Params...)
		if err != nil {
			continue
		}

		con, ok := d.(descriptor.Con)
		if !ok {
			continue
		}

		info := ResolveContainer(con.Name, set)
		if info == nil {
			res.AddWarning(CodeContainerNotFound,
				fmt.Sprintf("no loaded Go type named %s", con.Name), Label(i), e.Container,
				match.Suggest(con.Name, names, maxSuggestions)...)

			continue
		}

		if !hasPack(con) && len(con.Args) != len(info.TypeParams) {
			res.AddWarning(CodeArityMismatch,
				fmt.Sprintf("%s has %d type parameters, pattern has %d arguments",
					info.ID.Short(), len(info.TypeParams), len(con.Args)),
				Label(i), e.Container)
		}
	}

	return res
}

func hasPack(c descriptor.Con) bool {
	for _, a := range c.Args {
		if v, ok := a.(descriptor.Var); ok && v.Variadic {
			return true
		}
	}

	return false
}
