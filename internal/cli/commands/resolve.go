package commands

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"slicetrait/descriptor"
	"slicetrait/internal/config"
	"slicetrait/trait"
)

// AllAxes is the --axis value resolving on every known axis.
const AllAxes = "all"

type resolveOptions struct {
	axis    string
	index   string
	explain bool
	dump    bool
	require bool
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <descriptor>",
		Short: "Resolve the slice type of a container",
		Long: `Resolve the type obtained by slicing a container along an axis.

The container is written in descriptor syntax, e.g. "DynamicTensor<float>",
"const blaze::StaticTensor<int, 2, 3, 4>&" or "[]*pkg.Cube[int]".
Without --index the uniform stage is used directly.`,
		Example: `  slicetrait resolve "DynamicTensor<int>" --index 2
  slicetrait resolve "Subtensor<DynamicTensor<double>, 0, 1>" --axis all --explain
  slicetrait resolve "CompressedTensor<float>" -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.axis, "axis", "a", string(trait.RowSlice), "axis to slice along, or \"all\"")
	cmd.Flags().StringVarP(&opts.index, "index", "i", "", "static slice index; empty or \"*\" for the uniform stage")
	cmd.Flags().BoolVarP(&opts.explain, "explain", "e", false, "print the evaluation trace")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "dump the result descriptor tree")
	cmd.Flags().BoolVar(&opts.require, "require", false, "fail when the trait is unsupported")

	return cmd
}

type resolveView struct {
	Axis      string   `yaml:"axis"`
	Container string   `yaml:"container"`
	Index     string   `yaml:"index"`
	Stage     string   `yaml:"stage"`
	Mapping   string   `yaml:"mapping,omitempty"`
	Source    string   `yaml:"source,omitempty"`
	Result    string   `yaml:"result"`
	Valid     bool     `yaml:"valid"`
	Trace     []string `yaml:"trace,omitempty"`
}

func runResolve(cmd *cobra.Command, src string, opts *resolveOptions) error {
	st := StateFrom(cmd.Context())

	c, err := descriptor.Parse(src)
	if err != nil {
		return errors.WithHint(err, `write containers as Name<Arg, ...>, e.g. "DynamicTensor<float>"`)
	}

	idx, err := trait.ParseIndex(opts.index)
	if err != nil {
		return err
	}

	axes, err := selectAxes(st.Registry, opts.axis)
	if err != nil {
		return err
	}

	traits := make([]trait.Trait, 0, len(axes))
	for _, axis := range axes {
		traits = append(traits, st.Engine(axis).ResolveIndex(c, idx))
	}

	out := cmd.OutOrStdout()

	if err := renderTraits(out, st.Config.Output, traits, opts.explain); err != nil {
		return err
	}

	if opts.dump {
		for _, t := range traits {
			dumper().Fdump(out, t.Type)
		}
	}

	if opts.require {
		for _, t := range traits {
			if _, err := trait.Require(t); err != nil {
				return err
			}
		}
	}

	return nil
}

func dumper() *spew.ConfigState {
	return &spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
	}
}

func selectAxes(reg *trait.Registry, name string) ([]trait.Axis, error) {
	if name == AllAxes {
		return reg.Axes(), nil
	}

	axis, err := reg.Axis(name)
	if err != nil {
		return nil, err
	}

	return []trait.Axis{axis}, nil
}

func viewTrait(t trait.Trait, explain bool) resolveView {
	v := resolveView{
		Axis:      t.Axis.String(),
		Container: t.Container.String(),
		Index:     t.Index.String(),
		Stage:     t.Stage.String(),
		Result:    t.Type.String(),
		Valid:     t.Valid(),
	}

	if t.Mapping != nil {
		v.Mapping = t.Mapping.String()
		v.Source = t.Mapping.Source
	}

	if explain {
		for _, s := range t.Trace {
			v.Trace = append(v.Trace, s.String())
		}
	}

	return v
}

func renderTraits(w io.Writer, format string, traits []trait.Trait, explain bool) error {
	views := make([]resolveView, 0, len(traits))
	for _, t := range traits {
		views = append(views, viewTrait(t, explain))
	}

	switch format {
	case config.OutputYAML:
		if len(views) == 1 {
			return writeYAML(w, views[0])
		}

		return writeYAML(w, views)

	case config.OutputTable:
		t := newTable(w, "Axis", "Container", "Index", "Stage", "Result", "Source")
		for _, v := range views {
			t.AppendRow(table.Row{v.Axis, v.Container, v.Index, v.Stage, v.Result, v.Source})
		}

		t.Render()

		if explain {
			for _, v := range views {
				writeTrace(w, v)
			}
		}

		return nil

	default:
		for i, v := range views {
			_, _ = fmt.Fprintf(w, "%s: %s [%s] => %s\n", v.Axis, v.Container, v.Index, v.Result)

			if err := traits[i].Err(); err != nil {
				_, _ = fmt.Fprintf(w, "  %v\n", err)
				for _, h := range errors.GetAllHints(err) {
					_, _ = fmt.Fprintf(w, "  hint: %s\n", h)
				}
			}

			if explain {
				writeTrace(w, v)
			}
		}

		return nil
	}
}

func writeTrace(w io.Writer, v resolveView) {
	for _, line := range v.Trace {
		_, _ = fmt.Fprintf(w, "  %s\n", line)
	}
}
