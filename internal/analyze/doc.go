// Package analyze finds container types in Go packages and checks which of
// them the slice-trait registry can resolve.
//
// It uses golang.org/x/tools/go/packages with go/types to load packages and
// describes every exported named type as a descriptor pattern: the type
// parameters of a generic type become pattern variables, so
// "type Dense2D[T any] struct{...}" in package example.com/grid is
// described as "example.com/grid.Dense2D<T>".
//
// Key types:
//   - TypeID: package import path + type name
//   - ContainerInfo: a named type and its descriptor pattern
//   - Report: per-axis coverage of containers by registry mappings
package analyze
