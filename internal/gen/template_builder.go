package gen

import (
	"strconv"
	"strings"
	"text/template"

	"slicetrait/trait"
)

// templateData holds all data needed for the registration template.
type templateData struct {
	PackageName string
	Source      string
	TraitImport string
	Axes        []string
	Mappings    []mappingData
	Init        bool
}

// mappingData is one generated mapping expression.
type mappingData struct {
	Comment string
	Expr    string
}

var fileTemplate = template.Must(template.New("traits").Parse(`// Code generated by slicetrait gen from {{.Source}}. DO NOT EDIT.

package {{.PackageName}}

import "{{.TraitImport}}"

// Mappings returns the slice trait mappings declared in {{.Source}}.
func Mappings() []trait.Mapping {
	return []trait.Mapping{
{{- range .Mappings}}
		// {{.Comment}}
		{{.Expr}},
{{- end}}
	}
}

// Register adds the axes and mappings declared in {{.Source}} to reg.
func Register(reg *trait.Registry) error {
{{- range .Axes}}
	if err := reg.AddAxis({{.}}); err != nil {
		return err
	}
{{- end}}
	for _, m := range Mappings() {
		if err := reg.Register(m); err != nil {
			return err
		}
	}

	return nil
}
{{- if .Init}}

func init() {
	if err := Register(trait.Default); err != nil {
		panic(err)
	}
}
{{- end}}
`))

// axisExpr renders an axis as a Go expression, preferring the named
// constants of the trait package.
func axisExpr(axis trait.Axis) string {
	switch axis {
	case trait.RowSlice:
		return "trait.RowSlice"
	case trait.QuatSlice:
		return "trait.QuatSlice"
	default:
		return "trait.Axis(" + strconv.Quote(string(axis)) + ")"
	}
}

// mappingExpr renders the constructor call building m from its entry.
func mappingExpr(p planned) string {
	var sb strings.Builder

	m := p.mapping
	e := p.entry

	if e.Forward != "" {
		sb.WriteString("trait.MustDefineForward(")
		sb.WriteString(axisExpr(m.Axis))
		sb.WriteString(", " + strconv.Quote(e.Container))
		sb.WriteString(", " + strconv.Quote(e.Forward))
	} else {
		sb.WriteString("trait.MustDefine(")
		sb.WriteString(axisExpr(m.Axis))
		sb.WriteString(", " + strconv.Quote(e.Container))
		sb.WriteString(", " + strconv.Quote(e.Result))
	}

	for _, param := range e.Params {
		sb.WriteString(", " + strconv.Quote(param))
	}

	sb.WriteString(")")

	if m.Index.IsStatic() {
		sb.WriteString(".AtIndex(" + strconv.FormatUint(uint64(m.Index.Value), 10) + ")")
	}

	sb.WriteString(".From(" + strconv.Quote(m.Source) + ")")

	return sb.String()
}
