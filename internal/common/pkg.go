package common

import "path"

// UnknownStr is the String form of out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// ShortName renders a package-qualified type name with the package alias
// instead of the full import path: "slicetrait/examples/containers.Dense2D"
// becomes "containers.Dense2D".
func ShortName(pkgPath, name string) string {
	if alias := PkgAlias(pkgPath); alias != "" {
		return alias + "." + name
	}

	return name
}
