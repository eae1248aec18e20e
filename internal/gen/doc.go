// Package gen compiles trait mapping files into Go source.
//
// The generated file holds a Mappings function returning the file's mappings
// built with trait.MustDefine and trait.MustDefineForward, and a Register
// function adding its axes and mappings to a registry. With Init set it also
// registers into trait.Default from an init function, so importing the
// package is enough to make the traits available.
//
// Generation uses text/template + go/format. Within an axis and stage, more
// general container patterns are emitted before the patterns that refine
// them, which keeps the output stable and easy to review.
package gen
