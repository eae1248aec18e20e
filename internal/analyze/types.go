package analyze

import (
	"cmp"
	"slices"

	"slicetrait/descriptor"
	"slicetrait/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "slicetrait/examples/containers"
	Name    string // e.g., "Dense2D"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the name qualified by the package alias only.
func (t TypeID) Short() string {
	return common.ShortName(t.PkgPath, t.Name)
}

// TypeKind is the kind of a named type's underlying type.
type TypeKind int

const (
	TypeKindUnknown TypeKind = iota
	TypeKindBasic            // int, string, bool, etc.
	TypeKindStruct           // struct type
	TypeKindPointer          // pointer to another type
	TypeKindSlice            // slice of another type
	TypeKindArray            // array of another type
	TypeKindMap              // map type
	TypeKindInterface        // interface type
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	default:
		return common.UnknownStr
	}
}

// ContainerInfo describes an exported named type found in a loaded package.
type ContainerInfo struct {
	ID   TypeID
	Kind TypeKind
	// TypeParams lists the names of the type parameters of a generic type.
	TypeParams []string
	// Pattern describes the type with its type parameters as variables.
	Pattern descriptor.Descriptor
}

// IsGeneric reports whether the type has type parameters.
func (c *ContainerInfo) IsGeneric() bool {
	return len(c.TypeParams) > 0
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path       string   // Import path
	Name       string   // Package name
	Containers []TypeID // Named types defined in this package
}

// ContainerSet holds all containers of the loaded packages.
type ContainerSet struct {
	Containers map[TypeID]*ContainerInfo
	Packages   map[string]*PackageInfo
}

// NewContainerSet creates an empty set.
func NewContainerSet() *ContainerSet {
	return &ContainerSet{
		Containers: make(map[TypeID]*ContainerInfo),
		Packages:   make(map[string]*PackageInfo),
	}
}

// Get returns the container with id, or nil.
func (s *ContainerSet) Get(id TypeID) *ContainerInfo {
	return s.Containers[id]
}

// Sorted returns the containers ordered by package path, then name.
func (s *ContainerSet) Sorted() []*ContainerInfo {
	out := make([]*ContainerInfo, 0, len(s.Containers))
	for _, c := range s.Containers {
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b *ContainerInfo) int {
		if c := cmp.Compare(a.ID.PkgPath, b.ID.PkgPath); c != 0 {
			return c
		}

		return cmp.Compare(a.ID.Name, b.ID.Name)
	})

	return out
}
