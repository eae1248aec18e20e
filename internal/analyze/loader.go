package analyze

import (
	"go/types"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"slicetrait/internal/logging"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports

// ErrPackageLoad wraps errors reported by the package loader.
var ErrPackageLoad = errors.New("package load failed")

// Analyzer loads Go packages and collects their container types.
type Analyzer struct {
	set *ContainerSet
	// Dir is the directory patterns are resolved in; empty means the
	// current directory.
	Dir string
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{set: NewContainerSet()}
}

// LoadContainers loads the packages matching patterns and adds their
// exported named types to the analyzer's set.
// Patterns are standard Go package patterns (e.g., "./...", "slicetrait/examples/containers").
func (a *Analyzer) LoadContainers(patterns ...string) (*ContainerSet, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "load packages")
	}

	var errs []error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Wrapf(ErrPackageLoad, "%v", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.set, nil
}

// Set returns the containers collected so far.
func (a *Analyzer) Set() *ContainerSet {
	return a.set
}

func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		id := TypeID{PkgPath: pkg.PkgPath, Name: name}
		info := &ContainerInfo{
			ID:      id,
			Kind:    kindOf(named.Underlying()),
			Pattern: Describe(named),
		}

		tparams := named.TypeParams()
		for i := range tparams.Len() {
			info.TypeParams = append(info.TypeParams, tparams.At(i).Obj().Name())
		}

		a.set.Containers[id] = info
		pkgInfo.Containers = append(pkgInfo.Containers, id)
	}

	a.set.Packages[pkg.PkgPath] = pkgInfo

	logging.L().Debugw("package analysed",
		logging.FieldPackage, pkg.PkgPath,
		logging.FieldCount, len(pkgInfo.Containers),
	)
}

func kindOf(t types.Type) TypeKind {
	switch t.(type) {
	case *types.Basic:
		return TypeKindBasic
	case *types.Struct:
		return TypeKindStruct
	case *types.Pointer:
		return TypeKindPointer
	case *types.Slice:
		return TypeKindSlice
	case *types.Array:
		return TypeKindArray
	case *types.Map:
		return TypeKindMap
	case *types.Interface:
		return TypeKindInterface
	default:
		return TypeKindUnknown
	}
}
